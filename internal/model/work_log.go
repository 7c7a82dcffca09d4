package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkLog records one user's hours on one project for one day. At most one
// row may exist per (user, project, work date).
type WorkLog struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;uniqueIndex:uk_worklog_user_project_date" json:"user_id"`
	ProjectID       uint            `gorm:"not null;uniqueIndex:uk_worklog_user_project_date" json:"project_id"`
	WorkDate        time.Time       `gorm:"type:date;not null;uniqueIndex:uk_worklog_user_project_date" json:"work_date"`
	HoursWorked     decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"hours_worked"`
	TaskFeature     string          `gorm:"type:varchar(255)" json:"task_feature,omitempty"`
	WorkDescription string          `gorm:"type:text" json:"work_description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (WorkLog) TableName() string { return "work_logs" }

// WorkLogSummary is one month's bucket of a project's logged effort.
type WorkLogSummary struct {
	Month      string          `json:"month"`
	EntryCount int             `json:"entry_count"`
	TotalHours decimal.Decimal `json:"total_hours"`
}
