package service

import (
	"errors"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) ListForUser(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) ListUnread(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at desc, id desc").Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

// MarkRead flags one notification. Only the recipient may touch it.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	notification, err := s.getOwned(userID, notificationID)
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	return s.db.Model(notification).Update("is_read", true).Error
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *NotificationService) Delete(userID, notificationID uint) error {
	notification, err := s.getOwned(userID, notificationID)
	if err != nil {
		return err
	}
	return s.db.Delete(notification).Error
}

func (s *NotificationService) getOwned(userID, notificationID uint) (*model.Notification, error) {
	var notification model.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeNotificationNotFound, "notification not found: id=%d", notificationID)
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, apperr.Authorization("notification belongs to another user")
	}
	return &notification, nil
}
