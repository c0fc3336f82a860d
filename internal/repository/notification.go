package repository

import (
	"context"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const (
	insertNotificationQuery = `
						INSERT INTO admin_notifications (user_id, title, message, event_type)
						VALUES ($1, $2, $3, $4)
						RETURNING id, is_read, created_at
`
	// broadcast notifications have no user
	selectNotificationsQuery = `
						SELECT id, user_id, title, message, event_type, is_read, created_at
						FROM admin_notifications
						WHERE (user_id IS NULL OR user_id = $1) AND (NOT $2 OR NOT is_read)
						ORDER BY created_at DESC, id DESC
						LIMIT $3
`
	markNotificationsReadQuery = `
						UPDATE admin_notifications
						SET is_read = TRUE
						WHERE (user_id IS NULL OR user_id = $1) AND NOT is_read
`
)

// NotificationRepository implements NotificationRepository interface
type NotificationRepository struct {
	db *postgres.DB
}

// NewNotificationRepository creates new NotificationRepository instance
func NewNotificationRepository(db *postgres.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts notification
func (nr *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return nr.db.QueryRow(ctx, insertNotificationQuery, n.UserID, n.Title, n.Message, n.EventType).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// ListNotifications returns notifications visible to user
func (nr *NotificationRepository) ListNotifications(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error) {
	rows, err := nr.db.Query(ctx, selectNotificationsQuery, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n := models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.EventType, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkAllRead marks notifications visible to user as read
func (nr *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	cmd, err := nr.db.Exec(ctx, markNotificationsReadQuery, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
