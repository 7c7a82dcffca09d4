package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	notifications, err := h.notificationService.ListForUser(caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, notifications)
}

// GET /notifications/unread
func (h *NotificationHandler) Unread(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	notifications, err := h.notificationService.ListUnread(caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, notifications)
}

// GET /notifications/unread/count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	count, err := h.notificationService.UnreadCount(caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"count": count})
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	if err := h.notificationService.MarkRead(caller.ID, parseID(c.Param("id"))); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "notification marked as read"})
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	if err := h.notificationService.MarkAllRead(caller.ID); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "all notifications marked as read"})
}

// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	if err := h.notificationService.Delete(caller.ID, parseID(c.Param("id"))); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "notification deleted"})
}
