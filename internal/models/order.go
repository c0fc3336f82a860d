package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusFailed     = "Failed"
)

// order settlement status
const (
	SettlementStatusPending   = "pending"
	SettlementStatusInitiated = "initiated"
	SettlementStatusCompleted = "completed"
	SettlementStatusFailed    = "failed"
)

// Order is order entity. An order belongs to exactly one vendor.
type Order struct {
	ID                     uint64          `json:"id"`
	UserID                 uint64          `json:"user_id"`
	VendorID               *uint64         `json:"vendor_id"`
	TotalPrice             decimal.Decimal `json:"total_price"`
	ShippingAddress        string          `json:"shipping_address"`
	Status                 string          `json:"status"`
	PaymentLinkID          string          `json:"payment_link_id,omitempty"`
	GatewayOrderID         string          `json:"gateway_order_id,omitempty"`
	PaymentID              string          `json:"payment_id,omitempty"`
	CommissionAmount       decimal.Decimal `json:"commission_amount"`
	VendorSettlementAmount decimal.Decimal `json:"vendor_settlement_amount"`
	SettlementStatus       string          `json:"settlement_status"`
	TransferID             string          `json:"transfer_id,omitempty"`
	SettlementID           *uint64         `json:"settlement_id,omitempty"`
	DeliveryPartnerID      *uint64         `json:"delivery_partner_id,omitempty"`
	IsActive               bool            `json:"is_active"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	SettledAt              *time.Time      `json:"settled_at,omitempty"`
	Items                  []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a line of an order
type OrderItem struct {
	ID              uint64          `json:"id"`
	OrderID         uint64          `json:"order_id"`
	ProductID       uint64          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// CommissionComputed reports whether the commission split has been stored
func (o *Order) CommissionComputed() bool {
	return !o.CommissionAmount.IsZero() || !o.VendorSettlementAmount.IsZero()
}

// IsTerminalOrderStatus reports whether no further logistics transitions are possible
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusFailed},
}

// CanTransitionOrder reports whether order status may move from one value to another
func CanTransitionOrder(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var settlementTransitions = map[string][]string{
	SettlementStatusPending:   {SettlementStatusInitiated, SettlementStatusFailed},
	SettlementStatusInitiated: {SettlementStatusCompleted, SettlementStatusFailed},
	SettlementStatusFailed:    {SettlementStatusInitiated},
	SettlementStatusCompleted: {SettlementStatusPending},
}

// CanTransitionSettlement reports whether order settlement status may move from one value to another
func CanTransitionSettlement(from, to string) bool {
	for _, s := range settlementTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether status is a known order status
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// CheckoutOrder is an order created by checkout with the link the buyer pays through
type CheckoutOrder struct {
	Order      *Order `json:"order"`
	PaymentURL string `json:"payment_url"`
}
