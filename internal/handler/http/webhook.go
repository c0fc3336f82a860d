package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/razorpay"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/webhook.go -package=mocks . WebhookService

const maxWebhookBody = 1 << 20

// WebhookService applies payment gateway events
type WebhookService interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) (string, error)
}

// WebhookHandler represents HTTP handler for payment gateway callbacks
type WebhookHandler struct {
	svc WebhookService
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(svc WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

type webhookResponse struct {
	Status string `json:"status"`
	Event  string `json:"event"`
}

// Razorpay receives gateway event
// 200 - event accepted, including events for unknown orders;
// 400 - invalid signature or malformed payload;
// 500 - internal error.
func (wh *WebhookHandler) Razorpay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		defer r.Body.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read body")
			return
		}

		event, err := wh.svc.HandleWebhook(r.Context(), body, r.Header.Get(razorpay.SignatureHeader))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidSignature):
				writeError(w, http.StatusBadRequest, "Invalid signature")
			case errors.Is(err, models.ErrMalformedPayload):
				writeError(w, http.StatusBadRequest, "Invalid JSON payload")
			default:
				logger.Log.Error("webhook processing", zap.String("event", event), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, webhookResponse{Status: "success", Event: event})
	}
}
