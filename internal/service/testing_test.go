package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/policy"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.WorkLog{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role model.Role, active bool) *model.User {
	t.Helper()
	userSeq++
	user := &model.User{
		EmployeeCode: fmt.Sprintf("EMP%03d", userSeq),
		FullName:     fmt.Sprintf("User %d", userSeq),
		Email:        fmt.Sprintf("user%d@vgov.vn", userSeq),
		PasswordHash: "x",
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

var projectSeq int

func seedProject(t *testing.T, db *gorm.DB, pmEmail string, status model.ProjectStatus, start time.Time, end *time.Time) *model.Project {
	t.Helper()
	projectSeq++
	project := &model.Project{
		ProjectCode: fmt.Sprintf("PRJ%03d", projectSeq),
		ProjectName: fmt.Sprintf("Project %d", projectSeq),
		PMEmail:     pmEmail,
		Status:      status,
		ProjectType: model.TypeOutsourcing,
		StartDate:   model.Date(start),
		EndDate:     model.DatePtr(end),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func newPolicy(db *gorm.DB) (*policy.Policy, *MembershipService) {
	members := NewMembershipService(db)
	return policy.New(members), members
}
