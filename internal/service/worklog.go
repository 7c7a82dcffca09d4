package service

import (
	"errors"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/policy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hoursMax = decimal.NewFromInt(24)

// WorkLogInput carries the caller-supplied fields of a time entry.
type WorkLogInput struct {
	ProjectID       uint
	WorkDate        time.Time
	HoursWorked     decimal.Decimal
	TaskFeature     string
	WorkDescription string
}

// WorkLogService accepts, amends, and removes daily time entries with full
// cross-entity validation against memberships and project timelines.
type WorkLogService struct {
	db     *gorm.DB
	policy *policy.Policy
}

func NewWorkLogService(db *gorm.DB, p *policy.Policy) *WorkLogService {
	return &WorkLogService{db: db, policy: p}
}

// Create records a time entry owned by caller. Admins do not log time, and
// the caller must hold an active membership on the target project. The
// duplicate check and insert run in one transaction so concurrent submits
// for the same day cannot both land.
func (s *WorkLogService) Create(caller *model.User, in WorkLogInput) (*model.WorkLog, error) {
	if caller.Role == model.RoleAdmin {
		return nil, apperr.Authorization("admin users cannot create work logs")
	}

	workDate := model.Date(in.WorkDate)
	entry := &model.WorkLog{
		UserID:          caller.ID,
		ProjectID:       in.ProjectID,
		WorkDate:        workDate,
		HoursWorked:     in.HoursWorked,
		TaskFeature:     in.TaskFeature,
		WorkDescription: in.WorkDescription,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, in.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", in.ProjectID)
			}
			return err
		}

		var memberCount int64
		if err := tx.Model(&model.ProjectMember{}).
			Where("project_id = ? AND user_id = ? AND is_active = ?", in.ProjectID, caller.ID, true).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount == 0 {
			return apperr.Authorization("you are not assigned to this project")
		}

		var duplicates int64
		if err := tx.Model(&model.WorkLog{}).
			Where("user_id = ? AND project_id = ? AND work_date = ?", caller.ID, in.ProjectID, workDate).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return apperr.Validation(apperr.CodeDuplicate, "duplicate work log for this date and project")
		}

		if err := validateHours(in.HoursWorked); err != nil {
			return err
		}
		if !project.ContainsDate(workDate) {
			return apperr.Validation(apperr.CodeDateRange, "work date must be within the project timeline")
		}

		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Update rewrites an entry. Only the owner may change it, admins never.
// When the date moves, the duplicate check runs against the new date.
func (s *WorkLogService) Update(caller *model.User, entryID uint, in WorkLogInput) (*model.WorkLog, error) {
	var entry model.WorkLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeWorkLogNotFound, "work log not found: id=%d", entryID)
			}
			return err
		}
		if entry.UserID != caller.ID {
			return apperr.Authorization("you can only update your own work logs")
		}
		if caller.Role == model.RoleAdmin {
			return apperr.Authorization("admin users cannot update work logs")
		}

		if err := validateHours(in.HoursWorked); err != nil {
			return err
		}

		var project model.Project
		if err := tx.First(&project, entry.ProjectID).Error; err != nil {
			return err
		}
		workDate := model.Date(in.WorkDate)
		if !project.ContainsDate(workDate) {
			return apperr.Validation(apperr.CodeDateRange, "work date must be within the project timeline")
		}

		if !workDate.Equal(entry.WorkDate) {
			var duplicates int64
			if err := tx.Model(&model.WorkLog{}).
				Where("user_id = ? AND project_id = ? AND work_date = ? AND id != ?", caller.ID, entry.ProjectID, workDate, entry.ID).
				Count(&duplicates).Error; err != nil {
				return err
			}
			if duplicates > 0 {
				return apperr.Validation(apperr.CodeDuplicate, "duplicate work log for this date and project")
			}
		}

		entry.WorkDate = workDate
		entry.HoursWorked = in.HoursWorked
		entry.TaskFeature = in.TaskFeature
		entry.WorkDescription = in.WorkDescription
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry under the same ownership rule as Update. Deleting
// an entry that no longer exists succeeds, so retries are harmless.
func (s *WorkLogService) Delete(caller *model.User, entryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var entry model.WorkLog
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if entry.UserID != caller.ID {
			return apperr.Authorization("you can only delete your own work logs")
		}
		if caller.Role == model.RoleAdmin {
			return apperr.Authorization("admin users cannot delete work logs")
		}
		return tx.Delete(&entry).Error
	})
}

// ListForCaller returns the entries the caller's role is scoped to: all of
// them for admins, those of managed projects for PMs, their own otherwise.
func (s *WorkLogService) ListForCaller(caller *model.User) ([]model.WorkLog, error) {
	query := s.db.Preload("User").Preload("Project").Order("work_date desc, id desc")
	switch s.policy.WorkLogScope(caller) {
	case policy.ScopeAll:
	case policy.ScopeManaged:
		query = query.Where("project_id IN (SELECT id FROM projects WHERE pm_email = ?)", caller.Email)
	default:
		query = query.Where("user_id = ?", caller.ID)
	}
	var entries []model.WorkLog
	err := query.Find(&entries).Error
	return entries, err
}

// ListForUser returns targetUserID's entries. Denials surface as an
// authorization error, never a silently empty list.
func (s *WorkLogService) ListForUser(caller *model.User, targetUserID uint) ([]model.WorkLog, error) {
	var target model.User
	if err := s.db.First(&target, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found: id=%d", targetUserID)
		}
		return nil, err
	}

	allowed, err := s.policy.CanViewUserWorkLogs(caller, targetUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("access denied to view work logs for this user")
	}

	var entries []model.WorkLog
	err = s.db.Preload("User").Preload("Project").
		Where("user_id = ?", targetUserID).
		Order("work_date desc, id desc").
		Find(&entries).Error
	return entries, err
}

// ListForProject returns a project's entries under the project-visibility
// rule.
func (s *WorkLogService) ListForProject(caller *model.User, projectID uint) ([]model.WorkLog, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", projectID)
		}
		return nil, err
	}

	allowed, err := s.policy.CanViewProjectWorkLogs(caller, &project)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("access denied to view work logs for this project")
	}

	var entries []model.WorkLog
	err = s.db.Preload("User").Preload("Project").
		Where("project_id = ?", projectID).
		Order("work_date desc, id desc").
		Find(&entries).Error
	return entries, err
}

// CountForProject feeds the completion heuristic in analytics.
func (s *WorkLogService) CountForProject(projectID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.WorkLog{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// MonthlySummary buckets a project's entries by calendar month, oldest
// first.
func (s *WorkLogService) MonthlySummary(projectID uint) ([]model.WorkLogSummary, error) {
	var entries []model.WorkLog
	if err := s.db.Where("project_id = ?", projectID).Order("work_date asc").Find(&entries).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]*model.WorkLogSummary)
	var order []string
	for _, e := range entries {
		month := e.WorkDate.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &model.WorkLogSummary{Month: month, TotalHours: decimal.Zero}
			buckets[month] = bucket
			order = append(order, month)
		}
		bucket.EntryCount++
		bucket.TotalHours = bucket.TotalHours.Add(e.HoursWorked)
	}

	summary := make([]model.WorkLogSummary, 0, len(order))
	for _, month := range order {
		summary = append(summary, *buckets[month])
	}
	return summary, nil
}

func validateHours(hours decimal.Decimal) error {
	if hours.LessThanOrEqual(decimal.Zero) || hours.GreaterThan(hoursMax) {
		return apperr.Validation(apperr.CodeOutOfRange, "hours worked must be within (0, 24], got %s", hours)
	}
	return nil
}
