package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/marketplace/internal/handler/http/mocks"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Checkout(t *testing.T) {
	vendorID := uint64(3)

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_201",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{"shipping_address":"12 MG Road, Bengaluru"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Checkout(gomock.Any(), uint64(1), "12 MG Road, Bengaluru").Return([]models.CheckoutOrder{{
					Order:      &models.Order{ID: 10, UserID: 1, VendorID: &vendorID, Status: models.OrderStatusPending},
					PaymentURL: "https://rzp.io/i/abc",
				}}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:  "missing_address_return_400",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "empty_cart_return_400",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{"shipping_address":"12 MG Road"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Checkout(gomock.Any(), uint64(1), gomock.Any()).Return(nil, models.ErrEmptyCart).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "insufficient_stock_return_409",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{"shipping_address":"12 MG Road"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Checkout(gomock.Any(), uint64(1), gomock.Any()).Return(nil, models.ErrInsufficientStock).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "unauthorized_request_return_401",
			body: `{"shipping_address":"12 MG Road"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodPost, "/api/orders/checkout", strings.NewReader(tt.body), tt.token, nil)
			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t), nil, nil)
			h := handler.Checkout()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_ListUserOrders(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       []models.Order
	}{
		{
			name:  "valid_request_return_200",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), uint64(1)).Return([]models.Order{
					{ID: 1, UserID: 1, Status: models.OrderStatusProcessing, SettlementStatus: models.SettlementStatusPending},
				}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []models.Order{
				{ID: 1, UserID: 1, Status: models.OrderStatusProcessing, SettlementStatus: models.SettlementStatusPending},
			},
		},
		{
			name:  "no_orders_return_204",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), uint64(1)).Return(nil, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "unauthorized_request_return_401",
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "/api/orders", nil, tt.token, nil)
			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t), nil, nil)
			h := handler.ListUserOrders()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got []models.Order
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) (*mocks.MockOrderService, *mocks.MockStatusBroadcaster)
		wantStatusCode int
	}{
		{
			name:  "shipped_return_200",
			token: &models.TokenPayload{UserID: 2, Role: models.RoleAdmin},
			body:  `{"status":"Shipped"}`,
			setup: func(t *testing.T) (*mocks.MockOrderService, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), uint64(5), models.OrderStatusShipped).
					Return(&models.Order{ID: 5, Status: models.OrderStatusShipped}, nil).Times(1)
				bcMock := mocks.NewMockStatusBroadcaster(ctrl)
				bcMock.EXPECT().BroadcastStatus(uint64(5), models.OrderStatusShipped, uint64(2)).Times(1)
				return svcMock, bcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "cancel_shipped_return_400",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{"status":"Cancelled"}`,
			setup: func(t *testing.T) (*mocks.MockOrderService, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), uint64(5), models.OrderStatusCancelled).
					Return(nil, models.ErrCancelNotAllowed).Times(1)
				bcMock := mocks.NewMockStatusBroadcaster(ctrl)
				bcMock.EXPECT().BroadcastStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock, bcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "concurrent_change_return_409",
			token: &models.TokenPayload{UserID: 2, Role: models.RoleAdmin},
			body:  `{"status":"Shipped"}`,
			setup: func(t *testing.T) (*mocks.MockOrderService, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), uint64(5), models.OrderStatusShipped).
					Return(nil, models.ErrInvalidStatusTransition).Times(1)
				return svcMock, mocks.NewMockStatusBroadcaster(ctrl)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:  "customer_ships_return_403",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer},
			body:  `{"status":"Shipped"}`,
			setup: func(t *testing.T) (*mocks.MockOrderService, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), uint64(5), models.OrderStatusShipped).
					Return(nil, models.ErrForbidden).Times(1)
				return svcMock, mocks.NewMockStatusBroadcaster(ctrl)
			},
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodPatch, "/api/orders/5/status", strings.NewReader(tt.body),
				tt.token, map[string]string{"id": "5"})
			w := httptest.NewRecorder()

			svc, bc := tt.setup(t)
			h := NewOrderHandler(svc, nil, bc).UpdateStatus()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_AssignDeliveryPartner(t *testing.T) {
	ctrl := gomock.NewController(t)
	partnerID := uint64(8)
	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().AssignDeliveryPartner(gomock.Any(), gomock.Any(), uint64(5), partnerID).
		Return(&models.Order{ID: 5, Status: models.OrderStatusShipped, DeliveryPartnerID: &partnerID}, nil).Times(1)

	req := newRequest(t, http.MethodPost, "/api/orders/5/assign", strings.NewReader(`{"partner_id":8}`),
		&models.TokenPayload{UserID: 2, Role: models.RoleAdmin}, map[string]string{"id": "5"})
	w := httptest.NewRecorder()

	h := NewOrderHandler(svcMock, nil, nil).AssignDeliveryPartner()
	h(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got models.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.NotNil(t, got.DeliveryPartnerID)
	assert.Equal(t, partnerID, *got.DeliveryPartnerID)
}

func TestOrderHandler_VerifyPayment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) (*mocks.MockPaymentVerifier, *mocks.MockStatusBroadcaster)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "captured_return_200",
			body: `{"payment_id":"pay_1"}`,
			setup: func(t *testing.T) (*mocks.MockPaymentVerifier, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				vMock := mocks.NewMockPaymentVerifier(ctrl)
				vMock.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), uint64(5), "pay_1").Return(&models.Order{
					ID:         5,
					Status:     models.OrderStatusProcessing,
					PaymentID:  "pay_1",
					TotalPrice: decimal.RequireFromString("499.00"),
				}, nil).Times(1)
				bcMock := mocks.NewMockStatusBroadcaster(ctrl)
				bcMock.EXPECT().BroadcastStatus(uint64(5), models.OrderStatusProcessing, uint64(1)).Times(1)
				return vMock, bcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "missing_payment_id_return_400",
			body: `{}`,
			setup: func(t *testing.T) (*mocks.MockPaymentVerifier, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				vMock := mocks.NewMockPaymentVerifier(ctrl)
				vMock.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return vMock, mocks.NewMockStatusBroadcaster(ctrl)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "amount_mismatch_return_400",
			body: `{"payment_id":"pay_1"}`,
			setup: func(t *testing.T) (*mocks.MockPaymentVerifier, *mocks.MockStatusBroadcaster) {
				ctrl := gomock.NewController(t)
				vMock := mocks.NewMockPaymentVerifier(ctrl)
				vMock.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), uint64(5), "pay_1").
					Return(nil, models.NewPreconditionError("Payment amount does not match order total")).Times(1)
				return vMock, mocks.NewMockStatusBroadcaster(ctrl)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Payment amount does not match order total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodPost, "/api/orders/5/verify-payment", strings.NewReader(tt.body),
				&models.TokenPayload{UserID: 1, Role: models.RoleCustomer}, map[string]string{"id": "5"})
			w := httptest.NewRecorder()

			verifier, bc := tt.setup(t)
			h := NewOrderHandler(nil, verifier, bc).VerifyPayment()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantError != "" {
				var got errorResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.wantError, got.Error)
			}
		})
	}
}
