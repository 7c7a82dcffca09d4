// Package notify delivers fire-and-forget signals about membership and
// project lifecycle changes. Callers only invoke the interface; delivery
// failures never fail the triggering operation.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/hieuleminh03/vgov/internal/model"
	"gorm.io/gorm"
)

type MemberAssignedEvent struct {
	UserID      uint
	ProjectID   uint
	ProjectName string
	Workload    string
}

type MemberRemovedEvent struct {
	UserID      uint
	ProjectID   uint
	ProjectName string
}

type WorkloadUpdatedEvent struct {
	UserID      uint
	ProjectID   uint
	ProjectName string
	Workload    string
}

type ProjectStatusChangedEvent struct {
	UserIDs     []uint
	ProjectID   uint
	ProjectName string
	OldStatus   model.ProjectStatus
	NewStatus   model.ProjectStatus
}

type Notifier interface {
	NotifyMemberAssigned(ctx context.Context, e MemberAssignedEvent) error
	NotifyMemberRemoved(ctx context.Context, e MemberRemovedEvent) error
	NotifyWorkloadUpdated(ctx context.Context, e WorkloadUpdatedEvent) error
	NotifyProjectStatusChanged(ctx context.Context, e ProjectStatusChangedEvent) error
}

// NoopNotifier is used when in-app notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyMemberAssigned(context.Context, MemberAssignedEvent) error   { return nil }
func (NoopNotifier) NotifyMemberRemoved(context.Context, MemberRemovedEvent) error     { return nil }
func (NoopNotifier) NotifyWorkloadUpdated(context.Context, WorkloadUpdatedEvent) error { return nil }
func (NoopNotifier) NotifyProjectStatusChanged(context.Context, ProjectStatusChangedEvent) error {
	return nil
}

// DBNotifier persists notifications so users see them in-app.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) NotifyMemberAssigned(_ context.Context, e MemberAssignedEvent) error {
	return n.store(&model.Notification{
		UserID:    e.UserID,
		Type:      model.NotificationMemberAssigned,
		Title:     "Assigned to project",
		Message:   fmt.Sprintf("You were assigned to %s at %s%% workload", e.ProjectName, e.Workload),
		ProjectID: &e.ProjectID,
	})
}

func (n *DBNotifier) NotifyMemberRemoved(_ context.Context, e MemberRemovedEvent) error {
	return n.store(&model.Notification{
		UserID:    e.UserID,
		Type:      model.NotificationMemberRemoved,
		Title:     "Removed from project",
		Message:   fmt.Sprintf("Your membership on %s has ended", e.ProjectName),
		ProjectID: &e.ProjectID,
	})
}

func (n *DBNotifier) NotifyWorkloadUpdated(_ context.Context, e WorkloadUpdatedEvent) error {
	return n.store(&model.Notification{
		UserID:    e.UserID,
		Type:      model.NotificationWorkloadUpdated,
		Title:     "Workload updated",
		Message:   fmt.Sprintf("Your workload on %s is now %s%%", e.ProjectName, e.Workload),
		ProjectID: &e.ProjectID,
	})
}

func (n *DBNotifier) NotifyProjectStatusChanged(_ context.Context, e ProjectStatusChangedEvent) error {
	var firstErr error
	for _, userID := range e.UserIDs {
		err := n.store(&model.Notification{
			UserID:    userID,
			Type:      model.NotificationProjectStatus,
			Title:     "Project status changed",
			Message:   fmt.Sprintf("%s moved from %s to %s", e.ProjectName, e.OldStatus.DisplayName(), e.NewStatus.DisplayName()),
			ProjectID: &e.ProjectID,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *DBNotifier) store(notification *model.Notification) error {
	if err := n.db.Create(notification).Error; err != nil {
		log.Printf("store notification: %v", err)
		return err
	}
	return nil
}
