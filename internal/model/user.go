package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RolePM    Role = "pm"
	RoleDev   Role = "dev"
	RoleBA    Role = "ba"
	RoleTest  Role = "test"
)

// Roles lists every role in a fixed order. Analytics iterate this slice so
// role maps come out deterministic.
var Roles = []Role{RoleAdmin, RolePM, RoleDev, RoleBA, RoleTest}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EmployeeCode    string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"employee_code"`
	FullName        string     `gorm:"type:varchar(128);not null" json:"full_name"`
	Email           string     `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(128);not null" json:"-"`
	Role            Role       `gorm:"type:varchar(10);not null;index:idx_users_role" json:"role"`
	Gender          string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	ProfilePhotoURL string     `gorm:"type:varchar(512)" json:"profile_photo_url,omitempty"`
	IsActive        bool       `gorm:"index" json:"is_active"`
	CreatedByID     *uint      `json:"created_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserBrief struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// UserWorkload is the per-user rollup used by workload analytics and the
// admin workload endpoint.
type UserWorkload struct {
	UserID         uint            `json:"user_id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	TotalWorkload  decimal.Decimal `json:"total_workload"`
	ActiveProjects int             `json:"active_projects"`
}
