package service

import (
	"errors"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserInput struct {
	EmployeeCode string
	FullName     string
	Email        string
	Password     string
	Role         model.Role
	Gender       string
	DateOfBirth  *time.Time
}

// UserService manages employee accounts. Role changes go through ChangeRole
// only; Update never touches the role.
type UserService struct {
	db      *gorm.DB
	members *MembershipService
}

func NewUserService(db *gorm.DB, members *MembershipService) *UserService {
	return &UserService{db: db, members: members}
}

func (s *UserService) Create(in UserInput, createdBy uint) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidParam, "invalid role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		EmployeeCode: in.EmployeeCode,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Gender:       in.Gender,
		DateOfBirth:  model.DatePtr(in.DateOfBirth),
		IsActive:     true,
		CreatedByID:  &createdBy,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count)
		if count > 0 {
			return apperr.Validation(apperr.CodeDuplicate, "email %s is already registered", in.Email)
		}
		tx.Model(&model.User{}).Where("employee_code = ?", in.EmployeeCode).Count(&count)
		if count > 0 {
			return apperr.Validation(apperr.CodeDuplicate, "employee code %s is already taken", in.EmployeeCode)
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(id uint, fullName, gender string, dateOfBirth *time.Time) (*model.User, error) {
	user, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"full_name": fullName,
		"gender":    gender,
	}
	if dateOfBirth != nil {
		updates["date_of_birth"] = model.Date(*dateOfBirth)
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// ChangeRole is the only path that alters a user's role.
func (s *UserService) ChangeRole(id uint, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidParam, "invalid role %q", role)
	}
	user, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// SetActive toggles the account. Deactivating ends every active membership
// as of today, so the user's committed workload drops to zero.
func (s *UserService) SetActive(id uint, active bool) (*model.User, error) {
	user, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}
	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	user.IsActive = active
	if !active {
		if err := s.members.EndAllForUser(id, model.Today()); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) List(keyword string, role model.Role, activeOnly bool, page, pageSize int) ([]model.User, int64, error) {
	query := s.db.Model(&model.User{})
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR employee_code LIKE ?", pattern, pattern, pattern)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	query.Count(&total)

	var users []model.User
	err := query.Order("id asc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	return s.getByID(id)
}

// Workload returns the user's committed capacity: total percentage, active
// project count, and the memberships behind them.
func (s *UserService) Workload(id uint) (*model.UserWorkload, []model.ProjectMember, error) {
	user, err := s.getByID(id)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.members.TotalActiveWorkload(id)
	if err != nil {
		return nil, nil, err
	}
	count, err := s.members.ActiveProjectCount(id)
	if err != nil {
		return nil, nil, err
	}
	memberships, err := s.members.ListUserMemberships(id)
	if err != nil {
		return nil, nil, err
	}
	return &model.UserWorkload{
		UserID:         user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		TotalWorkload:  total,
		ActiveProjects: int(count),
	}, memberships, nil
}

func (s *UserService) getByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found: id=%d", id)
		}
		return nil, err
	}
	return &user, nil
}
