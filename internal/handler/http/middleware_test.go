package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/marketplace/internal/handler/http/mocks"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	payload := &models.TokenPayload{UserID: 1, Role: models.RoleOwner}

	tests := []struct {
		name           string
		prepare        func(r *http.Request)
		setup          func(t *testing.T) *mocks.MockTokenService
		wantStatusCode int
	}{
		{
			name:    "bearer_header_return_200",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			setup: func(t *testing.T) *mocks.MockTokenService {
				tsMock := mocks.NewMockTokenService(gomock.NewController(t))
				tsMock.EXPECT().VerifyToken("good").Return(payload, nil).Times(1)
				return tsMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "cookie_return_200",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: authCookieName, Value: "good"}) },
			setup: func(t *testing.T) *mocks.MockTokenService {
				tsMock := mocks.NewMockTokenService(gomock.NewController(t))
				tsMock.EXPECT().VerifyToken("good").Return(payload, nil).Times(1)
				return tsMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "query_return_200",
			prepare: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", "good")
				r.URL.RawQuery = q.Encode()
			},
			setup: func(t *testing.T) *mocks.MockTokenService {
				tsMock := mocks.NewMockTokenService(gomock.NewController(t))
				tsMock.EXPECT().VerifyToken("good").Return(payload, nil).Times(1)
				return tsMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "no_token_return_401",
			prepare: func(r *http.Request) {},
			setup: func(t *testing.T) *mocks.MockTokenService {
				tsMock := mocks.NewMockTokenService(gomock.NewController(t))
				tsMock.EXPECT().VerifyToken(gomock.Any()).Times(0)
				return tsMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "invalid_token_return_401",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			setup: func(t *testing.T) *mocks.MockTokenService {
				tsMock := mocks.NewMockTokenService(gomock.NewController(t))
				tsMock.EXPECT().VerifyToken("bad").Return(nil, errors.New("invalid token")).Times(1)
				return tsMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := getAuthPayload(r.Context(), authPayloadKey)
				assert.True(t, ok)
				assert.Equal(t, payload, got)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()

			AuthMiddleware(tt.setup(t))(next).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		wantStatusCode int
	}{
		{name: "owner_return_200", token: &models.TokenPayload{UserID: 1, Role: models.RoleOwner}, wantStatusCode: http.StatusOK},
		{name: "staff_return_200", token: &models.TokenPayload{UserID: 1, Role: models.RoleStaff}, wantStatusCode: http.StatusOK},
		{name: "customer_return_403", token: &models.TokenPayload{UserID: 1, Role: models.RoleCustomer}, wantStatusCode: http.StatusForbidden},
		{name: "anonymous_return_401", wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := newRequest(t, http.MethodGet, "/api/settlements", nil, tt.token, nil)
			w := httptest.NewRecorder()

			RequireRole(models.RoleOwner, models.RoleStaff)(next).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
