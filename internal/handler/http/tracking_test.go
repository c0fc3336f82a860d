package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/marketplace/internal/handler/http/mocks"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/tracking"
	"github.com/stretchr/testify/assert"
)

func TestTrackingHandler_TrackOrder_Rejected(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		orderID        string
		err            error
		wantStatusCode int
	}{
		{name: "stranger_return_403", token: &models.TokenPayload{UserID: 9, Role: models.RoleCustomer}, orderID: "5", err: models.ErrForbidden, wantStatusCode: http.StatusForbidden},
		{name: "unknown_order_return_404", token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer}, orderID: "5", err: models.ErrDataNotFound, wantStatusCode: http.StatusNotFound},
		{name: "invalid_id_return_400", token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer}, orderID: "x", wantStatusCode: http.StatusBadRequest},
		{name: "anonymous_return_401", orderID: "5", wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := mocks.NewMockTrackingService(gomock.NewController(t))
			if tt.err != nil {
				svcMock.EXPECT().Subscribe(gomock.Any(), gomock.Any(), uint64(5)).Return(tt.err).Times(1)
			}

			req := newRequest(t, http.MethodGet, "/ws/track/"+tt.orderID, nil, tt.token, map[string]string{"id": tt.orderID})
			w := httptest.NewRecorder()

			h := NewTrackingHandler(svcMock, tracking.NewHub(), nil).TrackOrder()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
