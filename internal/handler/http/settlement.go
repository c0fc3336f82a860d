package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rookgm/marketplace/internal/models"
)

//go:generate mockgen -destination=mocks/settlement.go -package=mocks . SettlementService

// SettlementService is the settlement engine as seen by HTTP handlers
type SettlementService interface {
	ProcessSettlement(ctx context.Context, orderID uint64) (*models.Settlement, error)
	RetryFailedSettlement(ctx context.Context, settlementID uint64) (*models.Settlement, error)
	AutoSettleDeliveredOrders(ctx context.Context) (*models.AutoSettleSummary, error)
	ReverseSettlement(ctx context.Context, settlementID uint64, reason string) (*models.ReversalResult, error)
	GetSettlement(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Settlement, error)
	ListSettlements(ctx context.Context, actor *models.TokenPayload, f models.SettlementFilter) ([]models.Settlement, int, error)
	GetTransferStatus(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Transfer, error)
	GetVendorSettlementSummary(ctx context.Context, actor *models.TokenPayload, vendorID uint64, start, end *time.Time) (*models.SettlementSummary, error)
}

// SettlementHandler represents HTTP handler for settlement-related requests
type SettlementHandler struct {
	svc SettlementService
}

// NewSettlementHandler creates new SettlementHandler instance
func NewSettlementHandler(svc SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

// InitiateSettlement settles delivered order
// 200 - settlement completed;
// 400 - precondition violated;
// 404 - order not found;
// 502 - payment gateway failed.
func (sh *SettlementHandler) InitiateSettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := urlParamID(r, "order_id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		settlement, err := sh.svc.ProcessSettlement(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, settlement)
	}
}

// RetrySettlement retries failed settlement
func (sh *SettlementHandler) RetrySettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid settlement id")
			return
		}

		settlement, err := sh.svc.RetryFailedSettlement(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, settlement)
	}
}

type reverseRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

// ReverseSettlement reverses completed settlement
func (sh *SettlementHandler) ReverseSettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid settlement id")
			return
		}

		// the body is optional
		var req reverseRequest
		if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		result, err := sh.svc.ReverseSettlement(r.Context(), id, req.Reason)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// AutoSettle settles every eligible delivered order
func (sh *SettlementHandler) AutoSettle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := sh.svc.AutoSettleDeliveredOrders(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

// GetSettlement returns settlement
func (sh *SettlementHandler) GetSettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid settlement id")
			return
		}

		settlement, err := sh.svc.GetSettlement(r.Context(), payload, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, settlement)
	}
}

// GetTransferStatus returns gateway state of settlement transfer
func (sh *SettlementHandler) GetTransferStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid settlement id")
			return
		}

		transfer, err := sh.svc.GetTransferStatus(r.Context(), payload, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, transfer)
	}
}

// ListSettlements returns page of settlements
// ?status=&vendor_id=&admin_id=&page=&per_page=
func (sh *SettlementHandler) ListSettlements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		q := r.URL.Query()
		f := models.SettlementFilter{Status: q.Get("status")}
		if f.Status != "" && !models.ValidSettlementStatus(f.Status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		for name, dst := range map[string]**uint64{"vendor_id": &f.VendorID, "admin_id": &f.AdminID} {
			if q.Get(name) == "" {
				continue
			}
			id, err := parseUint(q.Get(name))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid "+name)
				return
			}
			*dst = &id
		}

		page, perPage := paging(r)
		f.Limit = perPage
		f.Offset = (page - 1) * perPage

		settlements, count, err := sh.svc.ListSettlements(r.Context(), payload, f)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.SettlementPage{
			Settlements: settlements,
			Count:       count,
			Page:        page,
			PerPage:     perPage,
		})
	}
}

// GetVendorSummary aggregates vendor settlements
// ?start_date=&end_date= as YYYY-MM-DD or RFC3339
func (sh *SettlementHandler) GetVendorSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		vendorID, ok := urlParamID(r, "vendor_id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		start, err := parseDate(r.URL.Query().Get("start_date"), false)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		end, err := parseDate(r.URL.Query().Get("end_date"), true)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}

		summary, err := sh.svc.GetVendorSettlementSummary(r.Context(), payload, vendorID, start, end)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}
