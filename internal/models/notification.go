package models

import "time"

// notification event types
const (
	EventSettlementCompleted = "settlement_completed"
	EventSettlementFailed    = "settlement_failed"
	EventSettlementReversed  = "settlement_reversed"
	EventAutoSettleSummary   = "auto_settlement_summary"
	EventPaymentReceived     = "payment_received"
	EventPaymentFailed       = "payment_failed"
	EventRefundRequired      = "refund_required"
	EventOrderStatusChanged  = "order_status_changed"
	EventKYCApproved         = "kyc_approved"
	EventWebhookMismatch     = "webhook_mismatch"
)

// Notification is an operator notification. A nil UserID addresses every operator.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    *uint64   `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EventType string    `json:"event_type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
