package service

import (
	"context"
	"errors"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/notify"
	"github.com/hieuleminh03/vgov/internal/policy"
	"gorm.io/gorm"
)

type ProjectInput struct {
	ProjectCode string
	ProjectName string
	Description string
	PMEmail     string
	ProjectType model.ProjectType
	StartDate   time.Time
	EndDate     *time.Time
}

// statusTransitions is the project lifecycle graph. Closed is terminal.
var statusTransitions = map[model.ProjectStatus][]model.ProjectStatus{
	model.StatusPresale:    {model.StatusInProgress},
	model.StatusInProgress: {model.StatusHold, model.StatusClosed},
	model.StatusHold:       {model.StatusInProgress, model.StatusClosed},
	model.StatusClosed:     {},
}

func transitionAllowed(from, to model.ProjectStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ProjectService struct {
	db       *gorm.DB
	policy   *policy.Policy
	members  *MembershipService
	notifier notify.Notifier
}

func NewProjectService(db *gorm.DB, p *policy.Policy, members *MembershipService) *ProjectService {
	return &ProjectService{db: db, policy: p, members: members, notifier: notify.NoopNotifier{}}
}

func (s *ProjectService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

func (s *ProjectService) Create(in ProjectInput, createdBy uint) (*model.Project, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	project := &model.Project{
		ProjectCode: in.ProjectCode,
		ProjectName: in.ProjectName,
		Description: in.Description,
		PMEmail:     in.PMEmail,
		Status:      model.StatusPresale,
		ProjectType: in.ProjectType,
		StartDate:   model.Date(in.StartDate),
		EndDate:     model.DatePtr(in.EndDate),
		CreatedByID: &createdBy,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&model.Project{}).Where("project_code = ?", in.ProjectCode).Count(&count)
		if count > 0 {
			return apperr.Validation(apperr.CodeDuplicate, "project code %s already exists", in.ProjectCode)
		}
		return tx.Create(project).Error
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(id uint, in ProjectInput) (*model.Project, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	var project model.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", id)
			}
			return err
		}

		var count int64
		tx.Model(&model.Project{}).Where("project_code = ? AND id != ?", in.ProjectCode, id).Count(&count)
		if count > 0 {
			return apperr.Validation(apperr.CodeDuplicate, "project code %s already exists", in.ProjectCode)
		}

		updates := map[string]interface{}{
			"project_code": in.ProjectCode,
			"project_name": in.ProjectName,
			"description":  in.Description,
			"pm_email":     in.PMEmail,
			"project_type": in.ProjectType,
			"start_date":   model.Date(in.StartDate),
			"end_date":     model.DatePtr(in.EndDate),
		}
		return tx.Model(&project).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// ChangeStatus moves a project along the lifecycle graph. Reaching Closed
// ends every active membership, stamped with the project's end date, and
// notifies the members.
func (s *ProjectService) ChangeStatus(id uint, newStatus model.ProjectStatus) (*model.Project, error) {
	if !newStatus.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidParam, "invalid project status %q", newStatus)
	}

	project, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if project.Status == newStatus {
		return project, nil
	}
	if !transitionAllowed(project.Status, newStatus) {
		return nil, apperr.Validation(apperr.CodeInvalidState, "cannot change project status from %s to %s", project.Status, newStatus)
	}

	oldStatus := project.Status
	var memberIDs []uint

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": newStatus}
		if newStatus == model.StatusClosed && project.EndDate == nil {
			end := model.Today()
			updates["end_date"] = end
			project.EndDate = &end
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return err
		}
		project.Status = newStatus

		if err := tx.Model(&model.ProjectMember{}).
			Where("project_id = ? AND is_active = ?", id, true).
			Pluck("user_id", &memberIDs).Error; err != nil {
			return err
		}

		// Closing a project ends its memberships in the same transaction, so
		// a Closed project can never be left with active members.
		if newStatus == model.StatusClosed {
			return s.members.closeAllForProject(tx, id, *project.EndDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(memberIDs) > 0 {
		s.notifier.NotifyProjectStatusChanged(context.Background(), notify.ProjectStatusChangedEvent{
			UserIDs:     memberIDs,
			ProjectID:   id,
			ProjectName: project.ProjectName,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
		})
	}
	return project, nil
}

// Delete removes a project that never left Presale. Anything further along
// has memberships and work logs that must stay on record.
func (s *ProjectService) Delete(id uint) error {
	project, err := s.getByID(id)
	if err != nil {
		return err
	}
	if project.Status != model.StatusPresale {
		return apperr.Validation(apperr.CodeInvalidState, "only presale projects can be deleted")
	}
	return s.db.Delete(project).Error
}

// List returns the caller's accessible projects with optional filters.
func (s *ProjectService) List(caller *model.User, keyword string, status model.ProjectStatus, page, pageSize int) ([]model.Project, int64, error) {
	query := s.db.Model(&model.Project{})
	switch s.policy.ProjectScope(caller) {
	case policy.ScopeAll:
	case policy.ScopeManaged:
		query = query.Where("pm_email = ?", caller.Email)
	default:
		query = query.Where("id IN (SELECT project_id FROM project_members WHERE user_id = ? AND is_active = ?)", caller.ID, true)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("project_name LIKE ? OR project_code LIKE ?", pattern, pattern)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var projects []model.Project
	err := query.Order("id asc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Get returns one project, gated by the caller's visibility.
func (s *ProjectService) Get(caller *model.User, id uint) (*model.Project, error) {
	project, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanViewProject(caller, project)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("access denied to this project")
	}
	return project, nil
}

func (s *ProjectService) getByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeProjectNotFound, "project not found: id=%d", id)
		}
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) validateInput(in ProjectInput) error {
	if !in.ProjectType.Valid() {
		return apperr.Validation(apperr.CodeInvalidParam, "invalid project type %q", in.ProjectType)
	}
	if in.EndDate != nil && model.Date(*in.EndDate).Before(model.Date(in.StartDate)) {
		return apperr.Validation(apperr.CodeDateRange, "end date cannot be before start date")
	}

	var pm model.User
	err := s.db.Where("email = ? AND role = ? AND is_active = ?", in.PMEmail, model.RolePM, true).First(&pm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation(apperr.CodeInvalidParam, "pm email %s does not reference an active PM", in.PMEmail)
		}
		return err
	}
	return nil
}
