package service

import (
	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) UpdatePhoto(caller *model.User, photoURL string) error {
	return s.db.Model(caller).Update("profile_photo_url", photoURL).Error
}

func (s *ProfileService) RemovePhoto(caller *model.User) error {
	return s.db.Model(caller).Update("profile_photo_url", "").Error
}

// ChangePassword requires the current password to match and the new one to
// be confirmed.
func (s *ProfileService) ChangePassword(caller *model.User, current, newPassword, confirm string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(caller.PasswordHash), []byte(current)); err != nil {
		return apperr.Validation(apperr.CodeBadPassword, "current password is incorrect")
	}
	if newPassword != confirm {
		return apperr.Validation(apperr.CodeBadPassword, "new password and confirmation do not match")
	}
	if len(newPassword) < 6 {
		return apperr.Validation(apperr.CodeBadPassword, "new password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(caller).Update("password_hash", string(hash)).Error
}
