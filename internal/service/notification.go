package service

import (
	"context"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

const defaultNotificationLimit = 50

// NotificationService stores operator notifications
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService creates new NotificationService instance
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify stores notification. Failures are logged only.
func (ns *NotificationService) Notify(ctx context.Context, recipient *uint64, title, message, eventType string) {
	n := &models.Notification{
		UserID:    recipient,
		Title:     title,
		Message:   message,
		EventType: eventType,
	}
	if err := ns.repo.CreateNotification(context.WithoutCancel(ctx), n); err != nil {
		logger.Log.Error("store notification",
			zap.String("event_type", eventType),
			zap.String("title", title),
			zap.Error(err))
	}
}

// List returns latest notifications addressed to user or to every operator
func (ns *NotificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return ns.repo.ListNotifications(ctx, userID, unreadOnly, limit)
}

// MarkAllRead marks notifications of user read and returns how many changed
func (ns *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return ns.repo.MarkAllRead(ctx, userID)
}
