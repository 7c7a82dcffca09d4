package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectMember links a user to a project with a committed share of their
// capacity. A member is current iff IsActive is true and LeftDate is null.
// Rows are unique per (project, user); ending a membership and assigning the
// same user again reactivates the existing row.
type ProjectMember struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ProjectID          uint            `gorm:"not null;uniqueIndex:uk_project_user" json:"project_id"`
	UserID             uint            `gorm:"not null;uniqueIndex:uk_project_user;index:idx_members_user_id" json:"user_id"`
	WorkloadPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"workload_percentage"`
	JoinedDate         time.Time       `gorm:"type:date;not null" json:"joined_date"`
	LeftDate           *time.Time      `gorm:"type:date" json:"left_date,omitempty"`
	IsActive           bool            `gorm:"default:true;index" json:"is_active"`
	CreatedByID        *uint           `json:"created_by_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ProjectMember) TableName() string { return "project_members" }
