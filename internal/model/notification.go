package model

import "time"

const (
	NotificationMemberAssigned  = "member_assigned"
	NotificationMemberRemoved   = "member_removed"
	NotificationWorkloadUpdated = "workload_updated"
	NotificationProjectStatus   = "project_status_changed"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notifications_user_id" json:"user_id"`
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Message   string    `gorm:"type:varchar(512)" json:"message"`
	ProjectID *uint     `json:"project_id,omitempty"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
