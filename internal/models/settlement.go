package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MaxSettlementRetries bounds retry attempts of a failed settlement
const MaxSettlementRetries = 3

// settlement record status
const (
	SettlementPending    = "pending"
	SettlementProcessing = "processing"
	SettlementCompleted  = "completed"
	SettlementFailed     = "failed"
	SettlementReversed   = "reversed"
)

// Settlement is the audit record of a fund transfer to a vendor.
// Amounts are a snapshot of the order taken when the attempt was claimed.
type Settlement struct {
	ID               uint64          `json:"id"`
	OrderID          uint64          `json:"order_id"`
	VendorID         uint64          `json:"vendor_id"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
	TransferID       string          `json:"transfer_id,omitempty"`
	GatewayResponse  json.RawMessage `json:"gateway_response,omitempty"`
	Status           string          `json:"status"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	RetryCount       int             `json:"retry_count"`
	InitiatedAt      time.Time       `json:"initiated_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ValidSettlementStatus reports whether status is a known settlement record status
func ValidSettlementStatus(status string) bool {
	switch status {
	case SettlementPending, SettlementProcessing, SettlementCompleted, SettlementFailed, SettlementReversed:
		return true
	}
	return false
}

// SettlementFilter narrows a settlement listing
type SettlementFilter struct {
	Status   string
	VendorID *uint64
	// AdminID matches the user operating the vendor account
	AdminID *uint64
	Limit   int
	Offset  int
}

// SettlementPage is a page of settlements
type SettlementPage struct {
	Settlements []Settlement `json:"results"`
	Count       int          `json:"count"`
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
}

// SettlementSummary aggregates vendor settlements
type SettlementSummary struct {
	VendorID        uint64          `json:"vendor_id"`
	BusinessName    string          `json:"business_name"`
	Count           int             `json:"total_settlements"`
	TotalSettled    decimal.Decimal `json:"total_settled"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalOrders     decimal.Decimal `json:"total_order_value"`
	ByStatus        map[string]int  `json:"by_status"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// AutoSettleError describes a failed order of an auto-settlement run
type AutoSettleError struct {
	OrderID  uint64  `json:"order_id"`
	VendorID *uint64 `json:"vendor_id"`
	Error    string  `json:"error"`
}

// AutoSettleSummary is the result of an auto-settlement run
type AutoSettleSummary struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Skipped    int               `json:"skipped"`
	Errors     []AutoSettleError `json:"errors"`
}

// ReversalResult is returned by a successful reversal
type ReversalResult struct {
	Settlement *Settlement `json:"settlement"`
	Reversal   *Reversal   `json:"reversal"`
}
