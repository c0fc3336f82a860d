package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService drives orders from checkout to delivery
type OrderService struct {
	tx          Transactor
	orders      OrderRepository
	products    ProductRepository
	carts       CartRepository
	vendors     VendorRepository
	payments    PaymentGateway
	notifier    Notifier
	currency    string
	callbackURL string
}

// NewOrderService creates new OrderService instance
func NewOrderService(tx Transactor, orders OrderRepository, products ProductRepository, carts CartRepository,
	vendors VendorRepository, payments PaymentGateway, notifier Notifier, currency, callbackURL string) *OrderService {
	return &OrderService{
		tx:          tx,
		orders:      orders,
		products:    products,
		carts:       carts,
		vendors:     vendors,
		payments:    payments,
		notifier:    notifier,
		currency:    currency,
		callbackURL: callbackURL,
	}
}

// Checkout turns the buyer cart into one pending order per vendor, reserving
// stock and creating a payment link for each. The cart stays active until
// the payment is captured.
func (os *OrderService) Checkout(ctx context.Context, userID uint64, shippingAddress string) ([]models.CheckoutOrder, error) {
	items, err := os.carts.ListActiveCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	groups := map[uint64][]models.CartItem{}
	for _, item := range items {
		groups[item.VendorID] = append(groups[item.VendorID], item)
	}
	vendorIDs := make([]uint64, 0, len(groups))
	for id := range groups {
		vendorIDs = append(vendorIDs, id)
	}
	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i] < vendorIDs[j] })

	var created []*models.Order
	err = os.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, vendorID := range vendorIDs {
			order := &models.Order{
				UserID:           userID,
				VendorID:         &vendorID,
				ShippingAddress:  shippingAddress,
				Status:           models.OrderStatusPending,
				SettlementStatus: models.SettlementStatusPending,
			}
			for _, item := range groups[vendorID] {
				if err := os.products.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("reserve product %d: %w", item.ProductID, err)
				}
				order.TotalPrice = order.TotalPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
				order.Items = append(order.Items, models.OrderItem{
					ProductID:       item.ProductID,
					Quantity:        item.Quantity,
					PriceAtPurchase: item.Price,
				})
			}

			o, err := os.orders.CreateOrder(ctx, order)
			if err != nil {
				return err
			}
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.CheckoutOrder, 0, len(created))
	for i, order := range created {
		link, err := os.payments.CreatePaymentLink(ctx, models.PaymentLinkRequest{
			Amount:      order.TotalPrice,
			Currency:    os.currency,
			Description: fmt.Sprintf("Order #%d", order.ID),
			ReferenceID: fmt.Sprintf("order_%d", order.ID),
			CallbackURL: os.callbackURL,
			Notes:       map[string]string{"order_id": strconv.FormatUint(order.ID, 10)},
		})
		if err != nil {
			logger.Log.Error("create payment link", zap.Uint64("order_id", order.ID), zap.Error(err))
			os.abandon(ctx, created[i:])
			return nil, fmt.Errorf("create payment link for order %d: %w", order.ID, err)
		}

		if err := os.orders.SetPaymentLink(ctx, order.ID, link.ID); err != nil {
			os.abandon(ctx, created[i:])
			return nil, err
		}
		order.PaymentLinkID = link.ID

		result = append(result, models.CheckoutOrder{Order: order, PaymentURL: link.ShortURL})
	}

	logger.Log.Info("checkout completed", zap.Uint64("user_id", userID), zap.Int("orders", len(result)))

	return result, nil
}

// abandon cancels orders that never got a payment link
func (os *OrderService) abandon(ctx context.Context, orders []*models.Order) {
	ctx = context.WithoutCancel(ctx)
	for _, order := range orders {
		if _, err := os.transition(ctx, order.ID, models.OrderStatusCancelled); err != nil {
			logger.Log.Error("cancel abandoned order", zap.Uint64("order_id", order.ID), zap.Error(err))
		}
	}
}

// GetOrder returns order with items if actor may see it
func (os *OrderService) GetOrder(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Order, error) {
	order, err := os.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := os.authorize(ctx, actor, order); err != nil {
		return nil, err
	}

	order.Items, err = os.orders.GetOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.orders.GetOrdersByUserID(ctx, userID)
}

// authorize checks that actor is the buyer, the vendor operator, the assigned
// delivery partner or a marketplace operator
func (os *OrderService) authorize(ctx context.Context, actor *models.TokenPayload, order *models.Order) error {
	switch {
	case actor.IsOperator():
		return nil
	case actor.Role == models.RoleAdmin:
		if order.VendorID == nil {
			return models.ErrForbidden
		}
		vendor, err := os.vendors.GetVendor(ctx, *order.VendorID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				return models.ErrForbidden
			}
			return err
		}
		if vendor.UserID == actor.UserID {
			return nil
		}
	case actor.Role == models.RoleDelivery:
		if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == actor.UserID {
			return nil
		}
	default:
		if order.UserID == actor.UserID {
			return nil
		}
	}
	return models.ErrForbidden
}

// mayMoveTo reports whether actor's role allows moving an order to status
func mayMoveTo(actor *models.TokenPayload, status string) bool {
	switch actor.Role {
	case models.RoleOwner, models.RoleStaff, models.RoleAdmin:
		return true
	case models.RoleDelivery:
		return status == models.OrderStatusDelivered || status == models.OrderStatusFailed
	case models.RoleCustomer:
		return status == models.OrderStatusCancelled
	}
	return false
}

// UpdateStatus moves order to status. Shipping commits reserved stock while
// cancelling or failing before shipment releases it. Cancelling a paid order asks operators for a refund.
func (os *OrderService) UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, models.NewPreconditionError(fmt.Sprintf("Invalid order status %q", status))
	}

	order, err := os.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := os.authorize(ctx, actor, order); err != nil {
		return nil, err
	}
	if !mayMoveTo(actor, status) {
		return nil, models.ErrForbidden
	}

	prev, err := os.transition(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("order status changed",
		zap.Uint64("order_id", orderID),
		zap.String("from", prev),
		zap.String("to", status),
		zap.Uint64("actor", actor.UserID))

	if status == models.OrderStatusCancelled && prev == models.OrderStatusProcessing {
		os.notifier.Notify(ctx, nil, "Refund Required",
			fmt.Sprintf("Order #%d was cancelled after payment. Manual refund required.", orderID),
			models.EventRefundRequired)
	}

	return os.GetOrder(ctx, actor, orderID)
}

// transition applies status change with its stock movement and returns the previous status
func (os *OrderService) transition(ctx context.Context, orderID uint64, status string) (string, error) {
	var prev string

	err := os.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := os.orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if status == models.OrderStatusCancelled &&
			(order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered) {
			return models.ErrCancelNotAllowed
		}
		if !models.CanTransitionOrder(order.Status, status) {
			return models.NewPreconditionError(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
		}

		items, err := os.orders.GetOrderItems(ctx, orderID)
		if err != nil {
			return err
		}

		for _, item := range items {
			switch status {
			case models.OrderStatusShipped:
				err = os.products.CommitStock(ctx, item.ProductID, item.Quantity)
			case models.OrderStatusCancelled:
				err = os.products.ReleaseStock(ctx, item.ProductID, item.Quantity)
			case models.OrderStatusFailed:
				// shipped units are already deducted
				if order.Status != models.OrderStatusShipped {
					err = os.products.ReleaseStock(ctx, item.ProductID, item.Quantity)
				}
			}
			if err != nil {
				return fmt.Errorf("stock of product %d: %w", item.ProductID, err)
			}
		}

		ok, err := os.orders.UpdateOrderStatus(ctx, orderID, order.Status, status)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrInvalidStatusTransition
		}

		prev = order.Status
		return nil
	})

	return prev, err
}

// AssignDeliveryPartner sets the delivery partner allowed to report order progress
func (os *OrderService) AssignDeliveryPartner(ctx context.Context, actor *models.TokenPayload, orderID, partnerID uint64) (*models.Order, error) {
	order, err := os.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := os.authorize(ctx, actor, order); err != nil {
		return nil, err
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, models.NewPreconditionError(fmt.Sprintf("Cannot assign delivery partner to %s order", order.Status))
	}

	if err := os.orders.SetDeliveryPartner(ctx, orderID, partnerID); err != nil {
		return nil, err
	}
	order.DeliveryPartnerID = &partnerID

	return order, nil
}
