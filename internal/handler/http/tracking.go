package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/tracking"
	"go.uber.org/zap"
)

// TrackingService authorizes subscriptions and applies tracking messages
type TrackingService interface {
	tracking.Handler
	Subscribe(ctx context.Context, actor *models.TokenPayload, orderID uint64) error
}

// TrackingHandler upgrades order tracking connections
type TrackingHandler struct {
	svc      TrackingService
	hub      *tracking.Hub
	upgrader websocket.Upgrader
}

// NewTrackingHandler creates new TrackingHandler instance.
// checkOrigin may be nil to accept same-origin requests only.
func NewTrackingHandler(svc TrackingService, hub *tracking.Hub, checkOrigin func(r *http.Request) bool) *TrackingHandler {
	return &TrackingHandler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// TrackOrder subscribes connection to order updates
func (th *TrackingHandler) TrackOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		orderID, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		if err := th.svc.Subscribe(r.Context(), payload, orderID); err != nil {
			writeServiceError(w, r, err)
			return
		}

		conn, err := th.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Warn("websocket upgrade", zap.Uint64("order_id", orderID), zap.Error(err))
			return
		}

		tracking.NewClient(th.hub, conn, th.svc, payload, orderID).Start(context.WithoutCancel(r.Context()))
	}
}
