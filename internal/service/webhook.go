package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/metrics"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/razorpay"
	"go.uber.org/zap"
)

// gateway events
const (
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventPaymentAuthorized = "payment.authorized"
	EventOrderPaid         = "order.paid"
	EventDisputeCreated    = "payment.dispute.created"
	EventRefundCreated     = "refund.created"
)

var errOrderMismatch = errors.New("payment references resolve to different orders")

// PaymentEntity is the payment carried by a gateway event
type PaymentEntity struct {
	ID      string         `json:"id"`
	OrderID string         `json:"order_id"`
	Status  string         `json:"status"`
	Amount  int64          `json:"amount"`
	Notes   map[string]any `json:"notes"`
}

// Event is a parsed gateway event. It is one of PaymentCaptured, PaymentFailed,
// Informational or Unhandled.
type Event interface {
	Name() string
	isEvent()
}

// PaymentCaptured means money was taken from the buyer
type PaymentCaptured struct{ Payment PaymentEntity }

// PaymentFailed means a payment attempt failed
type PaymentFailed struct{ Payment PaymentEntity }

// Informational events are recorded without any state change
type Informational struct{ Event string }

// Unhandled events are unknown to the system
type Unhandled struct{ Event string }

func (PaymentCaptured) Name() string { return EventPaymentCaptured }
func (PaymentFailed) Name() string   { return EventPaymentFailed }
func (e Informational) Name() string { return e.Event }
func (e Unhandled) Name() string     { return e.Event }
func (PaymentCaptured) isEvent()     {}
func (PaymentFailed) isEvent()       {}
func (Informational) isEvent()       {}
func (Unhandled) isEvent()           {}

type envelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseEvent decodes gateway event body.
// It returns models.ErrMalformedPayload for invalid JSON, a missing event name
// or a payment event without payment entity.
func ParseEvent(body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event", models.ErrMalformedPayload)
	}

	switch env.Event {
	case EventPaymentCaptured, EventPaymentFailed:
		if env.Payload.Payment == nil {
			return nil, fmt.Errorf("%w: missing payment entity", models.ErrMalformedPayload)
		}
		if env.Event == EventPaymentCaptured {
			return PaymentCaptured{Payment: env.Payload.Payment.Entity}, nil
		}
		return PaymentFailed{Payment: env.Payload.Payment.Entity}, nil
	case EventPaymentAuthorized, EventOrderPaid, EventDisputeCreated, EventRefundCreated:
		return Informational{Event: env.Event}, nil
	}

	return Unhandled{Event: env.Event}, nil
}

// WebhookService applies payment gateway events to orders
type WebhookService struct {
	tx       Transactor
	orders   OrderRepository
	products ProductRepository
	carts    CartRepository
	payments PaymentGateway
	notifier Notifier
	secret   string
}

// NewWebhookService creates new WebhookService instance
func NewWebhookService(tx Transactor, orders OrderRepository, products ProductRepository, carts CartRepository,
	payments PaymentGateway, notifier Notifier, secret string) *WebhookService {
	return &WebhookService{
		tx:       tx,
		orders:   orders,
		products: products,
		carts:    carts,
		payments: payments,
		notifier: notifier,
		secret:   secret,
	}
}

// HandleWebhook verifies and applies gateway event.
// Unknown orders and replays are acknowledged without error. Only a bad signature,
// a malformed body or a store failure is returned as error.
func (ws *WebhookService) HandleWebhook(ctx context.Context, body []byte, signature string) (string, error) {
	if err := razorpay.VerifySignature(body, signature, ws.secret); err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		logger.Log.Warn("webhook signature mismatch", zap.String("security", "invalid_signature"))
		return "", err
	}

	event, err := ParseEvent(body)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		return "", err
	}

	switch e := event.(type) {
	case PaymentCaptured:
		err = ws.onCaptured(ctx, e.Payment)
	case PaymentFailed:
		err = ws.onFailed(ctx, e.Payment)
	case Informational:
		logger.Log.Info("webhook event recorded", zap.String("event", e.Event))
	case Unhandled:
		logger.Log.Info("unhandled webhook event", zap.String("event", e.Event))
	}

	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Name(), "error").Inc()
		return event.Name(), err
	}

	metrics.WebhookEvents.WithLabelValues(event.Name(), "ok").Inc()
	return event.Name(), nil
}

// resolveOrder finds order of payment by gateway reference, then by payment id,
// then by the order id stored in payment notes
func (ws *WebhookService) resolveOrder(ctx context.Context, p PaymentEntity) (*models.Order, error) {
	var found *models.Order

	match := func(order *models.Order, err error) error {
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				return nil
			}
			return err
		}
		if found != nil && found.ID != order.ID {
			return errOrderMismatch
		}
		found = order
		return nil
	}

	if p.OrderID != "" {
		if err := match(ws.orders.FindOrderByGatewayReference(ctx, p.OrderID)); err != nil {
			return nil, err
		}
	}
	if p.ID != "" {
		if err := match(ws.orders.FindOrderByPaymentID(ctx, p.ID)); err != nil {
			return nil, err
		}
	}
	if found == nil {
		if id, ok := razorpay.OrderIDFromNotes(p.Notes); ok {
			if err := match(ws.orders.GetOrder(ctx, id)); err != nil {
				return nil, err
			}
		}
	}

	if found == nil {
		return nil, models.ErrDataNotFound
	}
	return found, nil
}

func (ws *WebhookService) lookup(ctx context.Context, event string, p PaymentEntity) (*models.Order, bool, error) {
	order, err := ws.resolveOrder(ctx, p)
	switch {
	case err == nil:
		return order, true, nil
	case errors.Is(err, models.ErrDataNotFound):
		logger.Log.Warn("webhook order not found",
			zap.String("event", event),
			zap.String("payment_id", p.ID),
			zap.String("gateway_order_id", p.OrderID))
		return nil, false, nil
	case errors.Is(err, errOrderMismatch):
		logger.Log.Error("webhook order mismatch",
			zap.String("event", event),
			zap.String("payment_id", p.ID),
			zap.String("gateway_order_id", p.OrderID))
		ws.notifier.Notify(ctx, nil, "Payment Reference Mismatch",
			fmt.Sprintf("Payment %s and gateway order %s point to different orders", p.ID, p.OrderID),
			models.EventWebhookMismatch)
		return nil, false, nil
	}
	return nil, false, err
}

func (ws *WebhookService) onCaptured(ctx context.Context, p PaymentEntity) error {
	order, ok, err := ws.lookup(ctx, EventPaymentCaptured, p)
	if err != nil || !ok {
		return err
	}
	return ws.capture(ctx, order, p.ID, p.OrderID)
}

// capture moves order to processing and consumes the buyer cart.
// A failed order has released its stock, so it is reserved again first.
// Replays change nothing.
func (ws *WebhookService) capture(ctx context.Context, order *models.Order, paymentID, gatewayOrderID string) error {
	if order.Status == models.OrderStatusCancelled {
		ws.refundRequired(ctx, order.ID, paymentID, "order is cancelled")
		return nil
	}

	var captured bool
	err := ws.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := ws.orders.GetOrderForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if locked.Status == models.OrderStatusFailed {
			if err := ws.moveStock(ctx, order.ID, ws.products.ReserveStock); err != nil {
				return err
			}
		}

		captured, err = ws.orders.MarkPaymentCaptured(ctx, order.ID, paymentID, gatewayOrderID)
		if err != nil || !captured {
			return err
		}
		_, err = ws.carts.DeactivateCartItems(ctx, order.UserID)
		return err
	})
	if errors.Is(err, models.ErrInsufficientStock) {
		ws.refundRequired(ctx, order.ID, paymentID, "stock released after payment failure is gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("capture payment of order %d: %w", order.ID, err)
	}

	if !captured {
		logger.Log.Info("payment already applied",
			zap.Uint64("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.String("status", order.Status))
		return nil
	}

	logger.Log.Info("payment captured",
		zap.Uint64("order_id", order.ID),
		zap.String("payment_id", paymentID))
	ws.notifier.Notify(ctx, nil, "Payment Received",
		fmt.Sprintf("Payment %s received for order #%d (Rs. %s)", paymentID, order.ID, order.TotalPrice.StringFixed(2)),
		models.EventPaymentReceived)

	return nil
}

func (ws *WebhookService) refundRequired(ctx context.Context, orderID uint64, paymentID, reason string) {
	logger.Log.Warn("payment captured for unfulfillable order",
		zap.Uint64("order_id", orderID),
		zap.String("payment_id", paymentID),
		zap.String("reason", reason))
	ws.notifier.Notify(ctx, nil, "Refund Required",
		fmt.Sprintf("Payment %s was captured for order #%d but %s. Manual refund required.", paymentID, orderID, reason),
		models.EventRefundRequired)
}

// moveStock applies move to every item of order
func (ws *WebhookService) moveStock(ctx context.Context, orderID uint64, move func(ctx context.Context, productID uint64, qty int) error) error {
	items, err := ws.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := move(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("stock of product %d: %w", item.ProductID, err)
		}
	}
	return nil
}

func (ws *WebhookService) onFailed(ctx context.Context, p PaymentEntity) error {
	order, ok, err := ws.lookup(ctx, EventPaymentFailed, p)
	if err != nil || !ok {
		return err
	}

	// the buyer keeps the cart and may check out again, so the held units go back on sale
	var failed bool
	err = ws.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		failed, err = ws.orders.MarkPaymentFailed(ctx, order.ID)
		if err != nil || !failed {
			return err
		}
		return ws.moveStock(ctx, order.ID, ws.products.ReleaseStock)
	})
	if err != nil {
		return fmt.Errorf("fail payment of order %d: %w", order.ID, err)
	}
	if !failed {
		logger.Log.Info("payment failure ignored",
			zap.Uint64("order_id", order.ID),
			zap.String("status", order.Status))
		return nil
	}

	logger.Log.Info("payment failed", zap.Uint64("order_id", order.ID), zap.String("payment_id", p.ID))
	ws.notifier.Notify(ctx, nil, "Payment Failed",
		fmt.Sprintf("Payment %s failed for order #%d", p.ID, order.ID),
		models.EventPaymentFailed)

	return nil
}

// VerifyPayment confirms a payment with the gateway and applies the capture.
// It agrees with the webhook path on the final state whichever runs first.
func (ws *WebhookService) VerifyPayment(ctx context.Context, actor *models.TokenPayload, orderID uint64, paymentID string) (*models.Order, error) {
	order, err := ws.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsOperator() {
		return nil, models.ErrForbidden
	}

	payment, err := ws.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentStatusCaptured {
		return nil, models.NewPreconditionError(fmt.Sprintf("Payment is %s", payment.Status))
	}
	if id, ok := razorpay.OrderIDFromNotes(payment.Notes); ok && id != order.ID {
		return nil, models.NewPreconditionError("Payment belongs to another order")
	}
	if !payment.Amount.Equal(order.TotalPrice) {
		return nil, models.NewPreconditionError("Payment amount does not match order total")
	}

	if err := ws.capture(ctx, order, payment.ID, payment.OrderID); err != nil {
		return nil, err
	}

	return ws.orders.GetOrder(ctx, orderID)
}
