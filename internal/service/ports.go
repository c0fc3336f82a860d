package service

import (
	"context"
	"time"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

// Transactor runs fn in a single database transaction carried by ctx
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts order with its items
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrder returns order by id
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	// GetOrderForUpdate returns order by id and locks it until the transaction ends
	GetOrderForUpdate(ctx context.Context, id uint64) (*models.Order, error)
	// GetOrderItems returns order items
	GetOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// FindOrderByGatewayReference returns order by gateway order id or payment link id
	FindOrderByGatewayReference(ctx context.Context, ref string) (*models.Order, error)
	// FindOrderByPaymentID returns order by captured payment id
	FindOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	// ListSettleableOrders returns delivered orders pending settlement of verified active vendors
	ListSettleableOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrderSettlement stores commission and settlement fields of order
	UpdateOrderSettlement(ctx context.Context, order *models.Order) error
	// UpdateOrderStatus moves order status if it still equals from
	UpdateOrderStatus(ctx context.Context, id uint64, from, to string) (bool, error)
	// MarkPaymentCaptured moves pending or failed order to processing
	MarkPaymentCaptured(ctx context.Context, id uint64, paymentID, gatewayOrderID string) (bool, error)
	// MarkPaymentFailed moves pending order to failed
	MarkPaymentFailed(ctx context.Context, id uint64) (bool, error)
	// SetPaymentLink stores payment link id
	SetPaymentLink(ctx context.Context, id uint64, linkID string) error
	// SetDeliveryPartner assigns delivery partner
	SetDeliveryPartner(ctx context.Context, id, partnerID uint64) error
}

// SettlementRepository is interface for interacting with settlement-related data
type SettlementRepository interface {
	CreateSettlement(ctx context.Context, s *models.Settlement) (*models.Settlement, error)
	GetSettlement(ctx context.Context, id uint64) (*models.Settlement, error)
	GetSettlementForUpdate(ctx context.Context, id uint64) (*models.Settlement, error)
	// GetActiveSettlementByOrder returns the settlement of order that is not reversed
	GetActiveSettlementByOrder(ctx context.Context, orderID uint64) (*models.Settlement, error)
	UpdateSettlement(ctx context.Context, s *models.Settlement) error
	ListSettlements(ctx context.Context, f models.SettlementFilter) ([]models.Settlement, int, error)
	SummarizeSettlements(ctx context.Context, vendorID uint64, start, end *time.Time) (*models.SettlementSummary, error)
}

// VendorRepository is interface for interacting with vendor accounts
type VendorRepository interface {
	CreateVendor(ctx context.Context, v *models.VendorAccount) (*models.VendorAccount, error)
	GetVendor(ctx context.Context, id uint64) (*models.VendorAccount, error)
	GetVendorByUserID(ctx context.Context, userID uint64) (*models.VendorAccount, error)
	UpdateVendor(ctx context.Context, v *models.VendorAccount) error
}

// ProductRepository is interface for stock movements
type ProductRepository interface {
	ReserveStock(ctx context.Context, productID uint64, qty int) error
	ReleaseStock(ctx context.Context, productID uint64, qty int) error
	CommitStock(ctx context.Context, productID uint64, qty int) error
}

// CartRepository is interface for interacting with buyer carts
type CartRepository interface {
	ListActiveCartItems(ctx context.Context, userID uint64) ([]models.CartItem, error)
	DeactivateCartItems(ctx context.Context, userID uint64) (int64, error)
}

// NotificationRepository is interface for persisting notifications
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

// LocationRepository is interface for persisting delivery positions
type LocationRepository interface {
	CreateLocation(ctx context.Context, l *models.LocationUpdate) error
	ListLocations(ctx context.Context, orderID uint64, limit int) ([]models.LocationUpdate, error)
}

// TransferGateway is the part of the payment gateway used by settlements
type TransferGateway interface {
	CreateTransfer(ctx context.Context, tr models.TransferRequest) (*models.Transfer, error)
	ReverseTransfer(ctx context.Context, transferID string, amount *decimal.Decimal) (*models.Reversal, error)
	GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error)
}

// AccountGateway is the part of the payment gateway used for vendor onboarding
type AccountGateway interface {
	CreateLinkedAccount(ctx context.Context, ar models.LinkedAccountRequest) (*models.LinkedAccount, error)
	UpdateLinkedAccount(ctx context.Context, accountID string, kyc models.KYCDetails) (*models.LinkedAccount, error)
}

// PaymentGateway is the part of the payment gateway used by checkout and payment verification
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, pr models.PaymentLinkRequest) (*models.PaymentLink, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
}

// Notifier delivers operator notifications. A nil recipient addresses every operator.
// Delivery is best effort and never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, recipient *uint64, title, message, eventType string)
}
