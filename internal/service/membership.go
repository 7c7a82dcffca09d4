package service

import (
	"context"
	"errors"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/notify"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var workloadMax = decimal.NewFromInt(100)

// MembershipService owns project memberships: who works on what, at what
// percentage, over what date range. It is the source of truth the access
// policy and analytics read from.
type MembershipService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db, notifier: notify.NoopNotifier{}}
}

func (s *MembershipService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// Assign adds user to project at the given workload percentage. A previously
// ended membership is reactivated in place; an already-active one is a
// duplicate. Only the single-assignment range (0, 100] is validated here:
// the sum of a user's concurrent workloads is deliberately unconstrained and
// surfaces through analytics instead.
func (s *MembershipService) Assign(projectID, userID uint, workload decimal.Decimal, joinedDate *time.Time, createdBy uint) (*model.ProjectMember, error) {
	if err := validateWorkload(workload); err != nil {
		return nil, err
	}

	var member *model.ProjectMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", projectID)
			}
			return err
		}
		if project.Status == model.StatusClosed {
			return apperr.Validation(apperr.CodeInvalidState, "cannot assign members to a closed project")
		}

		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeUserNotFound, "user not found: id=%d", userID)
			}
			return err
		}
		if !user.IsActive {
			return apperr.Validation(apperr.CodeInvalidState, "user %d is deactivated", userID)
		}

		joined := project.StartDate
		if joinedDate != nil {
			joined = model.Date(*joinedDate)
		}

		var existing model.ProjectMember
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
		switch {
		case err == nil:
			if existing.IsActive {
				return apperr.Validation(apperr.CodeDuplicate, "user %d is already a member of project %d", userID, projectID)
			}
			updates := map[string]interface{}{
				"workload_percentage": workload,
				"joined_date":         joined,
				"left_date":           nil,
				"is_active":           true,
				"created_by_id":       createdBy,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			member = &existing
			member.WorkloadPercentage = workload
			member.JoinedDate = joined
			member.LeftDate = nil
			member.IsActive = true
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = &model.ProjectMember{
				ProjectID:          projectID,
				UserID:             userID,
				WorkloadPercentage: workload,
				JoinedDate:         joined,
				IsActive:           true,
				CreatedByID:        &createdBy,
			}
			return tx.Create(member).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := s.db.First(&project, projectID).Error; err == nil {
		s.notifier.NotifyMemberAssigned(context.Background(), notify.MemberAssignedEvent{
			UserID:      userID,
			ProjectID:   projectID,
			ProjectName: project.ProjectName,
			Workload:    workload.StringFixed(2),
		})
	}
	return member, nil
}

// UpdateWorkload changes the committed percentage in place. Joined date and
// active flag are untouched.
func (s *MembershipService) UpdateWorkload(projectID, userID uint, workload decimal.Decimal) (*model.ProjectMember, error) {
	if err := validateWorkload(workload); err != nil {
		return nil, err
	}

	var member model.ProjectMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeMembershipNotFound, "membership not found: project=%d user=%d", projectID, userID)
			}
			return err
		}
		if err := tx.Model(&member).Update("workload_percentage", workload).Error; err != nil {
			return err
		}
		member.WorkloadPercentage = workload
		return nil
	})
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := s.db.First(&project, projectID).Error; err == nil {
		s.notifier.NotifyWorkloadUpdated(context.Background(), notify.WorkloadUpdatedEvent{
			UserID:      userID,
			ProjectID:   projectID,
			ProjectName: project.ProjectName,
			Workload:    workload.StringFixed(2),
		})
	}
	return &member, nil
}

// End closes one membership. Ending an already-ended membership is a no-op
// and keeps the original left date.
func (s *MembershipService) End(projectID, userID uint, leftDate *time.Time) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeMembershipNotFound, "membership not found: project=%d user=%d", projectID, userID)
			}
			return err
		}
		if !member.IsActive {
			return nil
		}
		left := model.Today()
		if leftDate != nil {
			left = model.Date(*leftDate)
		}
		if err := tx.Model(&member).Updates(map[string]interface{}{
			"is_active": false,
			"left_date": left,
		}).Error; err != nil {
			return err
		}
		member.IsActive = false
		member.LeftDate = &left
		return nil
	})
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := s.db.First(&project, projectID).Error; err == nil {
		s.notifier.NotifyMemberRemoved(context.Background(), notify.MemberRemovedEvent{
			UserID:      userID,
			ProjectID:   projectID,
			ProjectName: project.ProjectName,
		})
	}
	return &member, nil
}

// CloseAllForProject ends every active membership on a project, stamping
// each with the project's end date. Safe to call again: already-ended rows
// are left untouched.
func (s *MembershipService) CloseAllForProject(projectID uint, endDate time.Time) error {
	return s.closeAllForProject(s.db, projectID, endDate)
}

// closeAllForProject runs against tx so the close can commit atomically with
// the status change that triggered it.
func (s *MembershipService) closeAllForProject(tx *gorm.DB, projectID uint, endDate time.Time) error {
	left := model.Date(endDate)
	return tx.Model(&model.ProjectMember{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"left_date": left,
		}).Error
}

// EndAllForUser ends every active membership of one user, used when the
// account is deactivated.
func (s *MembershipService) EndAllForUser(userID uint, leftDate time.Time) error {
	left := model.Date(leftDate)
	return s.db.Model(&model.ProjectMember{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"left_date": left,
		}).Error
}

// TotalActiveWorkload sums the workload percentages of the user's current
// memberships. Zero when there are none. No cap is applied: a sum above 100
// means the user is over-allocated, which analytics surface.
func (s *MembershipService) TotalActiveWorkload(userID uint) (decimal.Decimal, error) {
	var members []model.ProjectMember
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&members).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.WorkloadPercentage)
	}
	return total, nil
}

func (s *MembershipService) ActiveProjectCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.ProjectMember{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

// ListProjectMembers returns every membership row on a project, current and
// ended, with users preloaded.
func (s *MembershipService) ListProjectMembers(projectID uint) ([]model.ProjectMember, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", projectID)
		}
		return nil, err
	}
	var members []model.ProjectMember
	err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("id asc").
		Find(&members).Error
	return members, err
}

// ListUserMemberships returns the user's active memberships with projects
// preloaded, for the workload detail endpoint.
func (s *MembershipService) ListUserMemberships(userID uint) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := s.db.Preload("Project").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id asc").
		Find(&members).Error
	return members, err
}

// IsActiveMember implements policy.Directory.
func (s *MembershipService) IsActiveMember(projectID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND is_active = ?", projectID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// ActiveProjectIDs implements policy.Directory.
func (s *MembershipService) ActiveProjectIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&model.ProjectMember{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("project_id", &ids).Error
	return ids, err
}

// ManagedProjectIDs implements policy.Directory.
func (s *MembershipService) ManagedProjectIDs(email string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&model.Project{}).
		Where("pm_email = ?", email).
		Pluck("id", &ids).Error
	return ids, err
}

func validateWorkload(workload decimal.Decimal) error {
	if workload.LessThanOrEqual(decimal.Zero) || workload.GreaterThan(workloadMax) {
		return apperr.Validation(apperr.CodeOutOfRange, "workload percentage must be within (0, 100], got %s", workload)
	}
	return nil
}
