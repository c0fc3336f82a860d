package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/marketplace/internal/models"
)

//go:generate mockgen -destination=mocks/order.go -package=mocks . OrderService
//go:generate mockgen -destination=mocks/payment.go -package=mocks . PaymentVerifier
//go:generate mockgen -destination=mocks/broadcaster.go -package=mocks . StatusBroadcaster

// OrderService drives orders from checkout to delivery
type OrderService interface {
	Checkout(ctx context.Context, userID uint64, shippingAddress string) ([]models.CheckoutOrder, error)
	GetOrder(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, status string) (*models.Order, error)
	AssignDeliveryPartner(ctx context.Context, actor *models.TokenPayload, orderID, partnerID uint64) (*models.Order, error)
}

// PaymentVerifier confirms a payment reported by the buyer
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, actor *models.TokenPayload, orderID uint64, paymentID string) (*models.Order, error)
}

// StatusBroadcaster announces order status changes to tracking clients
type StatusBroadcaster interface {
	BroadcastStatus(orderID uint64, status string, actorID uint64)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc      OrderService
	verifier PaymentVerifier
	tracking StatusBroadcaster
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService, verifier PaymentVerifier, tracking StatusBroadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, verifier: verifier, tracking: tracking}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=1000"`
}

// Checkout creates orders from the user cart
// 201 - orders created;
// 400 - bad request or empty cart;
// 409 - not enough stock.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req checkoutRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		orders, err := oh.svc.Checkout(r.Context(), payload.UserID, req.ShippingAddress)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, orders)
	}
}

// ListUserOrders returns list of user orders
// 200 - orders found;
// 204 - no orders.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// GetOrder returns order with items
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), payload, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves order status
// 200 - status changed;
// 400 - transition not allowed;
// 403 - actor may not change this order;
// 409 - concurrent change or not enough stock.
func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req statusRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.UpdateStatus(r.Context(), payload, id, req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		oh.tracking.BroadcastStatus(order.ID, order.Status, payload.UserID)

		writeJSON(w, http.StatusOK, order)
	}
}

type assignRequest struct {
	PartnerID uint64 `json:"partner_id" validate:"required"`
}

// AssignDeliveryPartner sets order delivery partner
func (oh *OrderHandler) AssignDeliveryPartner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req assignRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.AssignDeliveryPartner(r.Context(), payload, id, req.PartnerID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

type verifyPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

// VerifyPayment confirms payment with the gateway
func (oh *OrderHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req verifyPaymentRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.verifier.VerifyPayment(r.Context(), payload, id, req.PaymentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		oh.tracking.BroadcastStatus(order.ID, order.Status, payload.UserID)

		writeJSON(w, http.StatusOK, order)
	}
}
