package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rookgm/marketplace/internal/models"
)

//go:generate mockgen -destination=mocks/notification.go -package=mocks . NotificationService

// NotificationService reads operator notifications
type NotificationService interface {
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

// NotificationHandler represents HTTP handler for notification-related requests
type NotificationHandler struct {
	svc NotificationService
}

// NewNotificationHandler creates new NotificationHandler instance
func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListNotifications returns latest notifications
// ?unread=true&limit=
func (nh *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		notifications, err := nh.svc.List(r.Context(), payload.UserID, unread, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, notifications)
	}
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

// MarkAllRead marks notifications read
func (nh *NotificationHandler) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		n, err := nh.svc.MarkAllRead(r.Context(), payload.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, markReadResponse{Updated: n})
	}
}
