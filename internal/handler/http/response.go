package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	dateLayout     = "2006-01-02"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service error to response status
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pe *models.PreconditionError
		ge *models.GatewayError
	)

	switch {
	case errors.As(err, &pe):
		writeError(w, http.StatusBadRequest, pe.Reason)
	case errors.Is(err, models.ErrDataNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, models.ErrInvalidSignature),
		errors.Is(err, models.ErrMalformedPayload),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidCommission),
		errors.Is(err, models.ErrNegativeAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidStatusTransition),
		errors.Is(err, models.ErrConflictData):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &ge):
		logger.Log.Warn("payment gateway declined request",
			zap.String("path", r.URL.Path),
			zap.Int("gateway_status", ge.StatusCode),
			zap.String("gateway_code", ge.Code))
		writeError(w, http.StatusBadGateway, "Payment gateway error: "+ge.Description)
	case errors.Is(err, models.ErrGatewayUnavailable):
		logger.Log.Error("payment gateway unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Payment gateway unavailable")
	default:
		logger.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes and validates JSON request body into v
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func urlParamID(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// parseDate accepts YYYY-MM-DD or RFC3339. A bare end date covers the whole day.
func parseDate(s string, end bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		if end {
			t = t.AddDate(0, 0, 1)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// paging reads page and per_page query parameters
func paging(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
