package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TransferRequest moves funds of a captured payment to a linked account
type TransferRequest struct {
	PaymentID      string
	Account        string
	Amount         decimal.Decimal
	Currency       string
	Notes          map[string]string
	IdempotencyKey string
}

// Transfer is a gateway transfer record
type Transfer struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Raw       json.RawMessage `json:"-"`
}

// Reversal is a gateway transfer reversal record
type Reversal struct {
	ID         string          `json:"id"`
	TransferID string          `json:"transfer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Raw        json.RawMessage `json:"-"`
}

// LinkedAccountRequest registers a vendor payout destination
type LinkedAccountRequest struct {
	Email             string
	Phone             string
	LegalBusinessName string
	BusinessType      string
	ReferenceID       string
}

// KYCDetails are vendor legal identifiers sent to the gateway
type KYCDetails struct {
	PAN   string
	GSTIN string
}

// LinkedAccount is a gateway linked account
type LinkedAccount struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PaymentLinkRequest creates a hosted payment page for an order
type PaymentLinkRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReferenceID string
	CallbackURL string
	Notes       map[string]string
}

// PaymentLink is a gateway payment link
type PaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// gateway payment status
const (
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

// Payment is a gateway payment
type Payment struct {
	ID      string          `json:"id"`
	OrderID string          `json:"order_id"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	Notes   map[string]any  `json:"notes"`
}
