package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/vendor.go -package=mocks . VendorService

// VendorService onboards vendors
type VendorService interface {
	Register(ctx context.Context, userID uint64, v *models.VendorAccount) (*models.VendorAccount, error)
	GetVendor(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.VendorAccount, error)
	CreateLinkedAccount(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.VendorAccount, error)
	SubmitKYC(ctx context.Context, actor *models.TokenPayload, id uint64, pan, gstin string) (*models.VendorAccount, error)
	ApproveKYC(ctx context.Context, id uint64) (*models.VendorAccount, error)
	SetAccountStatus(ctx context.Context, id uint64, status string) (*models.VendorAccount, error)
}

// VendorHandler represents HTTP handler for vendor-related requests
type VendorHandler struct {
	svc VendorService
}

// NewVendorHandler creates new VendorHandler instance
func NewVendorHandler(svc VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

type registerVendorRequest struct {
	BusinessName         string           `json:"business_name" validate:"required,max=255"`
	BusinessType         string           `json:"business_type" validate:"required,oneof=proprietorship partnership private_limited public_limited llp individual"`
	Email                string           `json:"email" validate:"required,email"`
	Phone                string           `json:"phone" validate:"required,min=10,max=15"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	BankAccountName      string           `json:"bank_account_name" validate:"max=255"`
	BankAccountNumber    string           `json:"bank_account_number" validate:"omitempty,numeric,min=6,max=20"`
	BankIFSC             string           `json:"bank_ifsc" validate:"omitempty,len=11"`
}

// Register creates vendor account operated by the current user
// 201 - created;
// 400 - bad request;
// 409 - user already operates a vendor.
func (vh *VendorHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req registerVendorRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		v := &models.VendorAccount{
			BusinessName:      req.BusinessName,
			BusinessType:      req.BusinessType,
			Email:             req.Email,
			Phone:             req.Phone,
			BankAccountName:   req.BankAccountName,
			BankAccountNumber: req.BankAccountNumber,
			BankIFSC:          req.BankIFSC,
		}
		if req.CommissionPercentage != nil {
			v.CommissionPercentage = *req.CommissionPercentage
		}

		created, err := vh.svc.Register(r.Context(), payload.UserID, v)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// GetVendor returns vendor account
func (vh *VendorHandler) GetVendor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		v, err := vh.svc.GetVendor(r.Context(), payload, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// CreateLinkedAccount registers vendor with the payment gateway
func (vh *VendorHandler) CreateLinkedAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		v, err := vh.svc.CreateLinkedAccount(r.Context(), payload, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

type kycRequest struct {
	PAN   string `json:"pan" validate:"required,len=10"`
	GSTIN string `json:"gstin" validate:"omitempty,len=15"`
}

// SubmitKYC stores vendor tax identifiers
func (vh *VendorHandler) SubmitKYC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		var req kycRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		v, err := vh.svc.SubmitKYC(r.Context(), payload, id, req.PAN, req.GSTIN)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// ApproveKYC verifies vendor
func (vh *VendorHandler) ApproveKYC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		v, err := vh.svc.ApproveKYC(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

type accountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended rejected"`
}

// SetAccountStatus changes vendor account status
func (vh *VendorHandler) SetAccountStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamID(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid vendor id")
			return
		}

		var req accountStatusRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		v, err := vh.svc.SetAccountStatus(r.Context(), id, req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}
