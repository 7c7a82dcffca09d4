package model

import "time"

type ProjectStatus string

const (
	StatusPresale    ProjectStatus = "Presale"
	StatusInProgress ProjectStatus = "InProgress"
	StatusHold       ProjectStatus = "Hold"
	StatusClosed     ProjectStatus = "Closed"
)

var ProjectStatuses = []ProjectStatus{StatusPresale, StatusInProgress, StatusHold, StatusClosed}

func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DisplayName is the human label used in analytics groupings and timelines.
func (s ProjectStatus) DisplayName() string {
	switch s {
	case StatusPresale:
		return "Presale"
	case StatusInProgress:
		return "In Progress"
	case StatusHold:
		return "Hold"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

type ProjectType string

const (
	TypeInvestment  ProjectType = "Investment"
	TypeOutsourcing ProjectType = "Outsourcing"
	TypeInternal    ProjectType = "Internal"
	TypeMaintenance ProjectType = "Maintenance"
)

var ProjectTypes = []ProjectType{TypeInvestment, TypeOutsourcing, TypeInternal, TypeMaintenance}

func (t ProjectType) Valid() bool {
	for _, known := range ProjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t ProjectType) DisplayName() string { return string(t) }

type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProjectCode string `gorm:"type:varchar(32);uniqueIndex;not null" json:"project_code"`
	ProjectName string `gorm:"type:varchar(128);not null" json:"project_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	// PMEmail references the managing PM by email, not by foreign key, so a
	// project survives its PM being replaced or deactivated.
	PMEmail     string        `gorm:"type:varchar(128);not null;index:idx_projects_pm_email" json:"pm_email"`
	Status      ProjectStatus `gorm:"type:varchar(16);not null;index:idx_projects_status" json:"status"`
	ProjectType ProjectType   `gorm:"type:varchar(16);not null" json:"project_type"`
	StartDate   time.Time     `gorm:"type:date;not null" json:"start_date"`
	// EndDate is null for open-ended projects (typically Presale).
	EndDate     *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	CreatedByID *uint      `json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (Project) TableName() string { return "projects" }

// ContainsDate reports whether d falls inside the project timeline.
func (p *Project) ContainsDate(d time.Time) bool {
	if d.Before(p.StartDate) {
		return false
	}
	if p.EndDate != nil && d.After(*p.EndDate) {
		return false
	}
	return true
}
