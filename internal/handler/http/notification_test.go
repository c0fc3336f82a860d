package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/marketplace/internal/handler/http/mocks"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_ListNotifications(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(t *testing.T) *mocks.MockNotificationService
		wantStatusCode int
	}{
		{
			name:  "unread_return_200",
			query: "?unread=true&limit=10",
			setup: func(t *testing.T) *mocks.MockNotificationService {
				svcMock := mocks.NewMockNotificationService(gomock.NewController(t))
				svcMock.EXPECT().List(gomock.Any(), uint64(1), true, 10).Return([]models.Notification{
					{ID: 1, Title: "Settlement Failed", EventType: models.EventSettlementFailed},
				}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "defaults_return_200",
			setup: func(t *testing.T) *mocks.MockNotificationService {
				svcMock := mocks.NewMockNotificationService(gomock.NewController(t))
				svcMock.EXPECT().List(gomock.Any(), uint64(1), false, 0).Return(nil, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "/api/notifications"+tt.query, nil,
				&models.TokenPayload{UserID: 1, Role: models.RoleOwner}, nil)
			w := httptest.NewRecorder()

			h := NewNotificationHandler(tt.setup(t)).ListNotifications()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	svcMock := mocks.NewMockNotificationService(gomock.NewController(t))
	svcMock.EXPECT().MarkAllRead(gomock.Any(), uint64(1)).Return(int64(4), nil).Times(1)

	req := newRequest(t, http.MethodPost, "/api/notifications/read", nil,
		&models.TokenPayload{UserID: 1, Role: models.RoleStaff}, nil)
	w := httptest.NewRecorder()

	h := NewNotificationHandler(svcMock).MarkAllRead()
	h(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got markReadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, int64(4), got.Updated)
}
