package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/marketplace/internal/models"
)

// newRequest builds request carrying auth payload and chi URL parameters
func newRequest(t *testing.T, method, target string, body io.Reader, token *models.TokenPayload, params map[string]string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		t.Fatalf("cannot create request: %v", err)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	ctx := context.WithValue(req.Context(), authPayloadKey, token)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}
