package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rookgm/marketplace/internal/commission"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

var (
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// VendorService onboards vendors and manages their payout accounts
type VendorService struct {
	vendors  VendorRepository
	accounts AccountGateway
	notifier Notifier
	now      func() time.Time
}

// NewVendorService creates new VendorService instance
func NewVendorService(vendors VendorRepository, accounts AccountGateway, notifier Notifier) *VendorService {
	return &VendorService{
		vendors:  vendors,
		accounts: accounts,
		notifier: notifier,
		now:      time.Now,
	}
}

// Register creates pending vendor account operated by userID
func (vs *VendorService) Register(ctx context.Context, userID uint64, v *models.VendorAccount) (*models.VendorAccount, error) {
	if v.CommissionPercentage.IsZero() {
		v.CommissionPercentage = commission.DefaultPercentage
	}
	if err := commission.ValidatePercentage(v.CommissionPercentage); err != nil {
		return nil, err
	}

	v.UserID = userID
	v.AccountStatus = models.VendorStatusPending
	v.KYCVerified = false
	v.LinkedAccountID = ""
	v.IsActive = true

	created, err := vs.vendors.CreateVendor(ctx, v)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("vendor registered", zap.Uint64("vendor_id", created.ID), zap.Uint64("user_id", userID))
	return created, nil
}

// GetVendor returns vendor visible to actor
func (vs *VendorService) GetVendor(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.VendorAccount, error) {
	v, err := vs.vendors.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator() && v.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}
	return v, nil
}

// CreateLinkedAccount registers vendor with the gateway so it can receive transfers
func (vs *VendorService) CreateLinkedAccount(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.VendorAccount, error) {
	v, err := vs.GetVendor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if v.LinkedAccountID != "" {
		return nil, models.ErrLinkedAccountExists
	}

	account, err := vs.accounts.CreateLinkedAccount(ctx, models.LinkedAccountRequest{
		Email:             v.Email,
		Phone:             v.Phone,
		LegalBusinessName: v.BusinessName,
		BusinessType:      v.BusinessType,
		ReferenceID:       fmt.Sprintf("vendor_%d", v.ID),
	})
	if err != nil {
		return nil, err
	}

	v.LinkedAccountID = account.ID
	v.LinkedAccountStatus = account.Status
	if err := vs.vendors.UpdateVendor(ctx, v); err != nil {
		logger.Log.Error("store linked account", zap.Uint64("vendor_id", v.ID), zap.String("account_id", account.ID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("linked account created", zap.Uint64("vendor_id", v.ID), zap.String("account_id", account.ID))
	return v, nil
}

// SubmitKYC stores vendor tax identifiers and forwards them to the linked account
func (vs *VendorService) SubmitKYC(ctx context.Context, actor *models.TokenPayload, id uint64, pan, gstin string) (*models.VendorAccount, error) {
	pan = strings.ToUpper(strings.TrimSpace(pan))
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if !panPattern.MatchString(pan) {
		return nil, models.NewPreconditionError("Invalid PAN")
	}
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return nil, models.NewPreconditionError("Invalid GSTIN")
	}

	v, err := vs.GetVendor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if v.LinkedAccountID != "" {
		account, err := vs.accounts.UpdateLinkedAccount(ctx, v.LinkedAccountID, models.KYCDetails{PAN: pan, GSTIN: gstin})
		if err != nil {
			return nil, err
		}
		v.LinkedAccountStatus = account.Status
	}

	v.PAN = pan
	v.GSTIN = gstin
	if err := vs.vendors.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}

	logger.Log.Info("vendor kyc submitted", zap.Uint64("vendor_id", v.ID))
	return v, nil
}

// ApproveKYC marks vendor verified and active
func (vs *VendorService) ApproveKYC(ctx context.Context, id uint64) (*models.VendorAccount, error) {
	v, err := vs.vendors.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.PAN == "" {
		return nil, models.ErrKYCIncomplete
	}

	now := vs.now()
	v.KYCVerified = true
	v.AccountStatus = models.VendorStatusActive
	v.VerifiedAt = &now
	if err := vs.vendors.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}

	logger.Log.Info("vendor kyc approved", zap.Uint64("vendor_id", v.ID))
	vs.notifier.Notify(ctx, &v.UserID, "KYC Approved",
		fmt.Sprintf("%s is verified and can receive settlements", v.BusinessName),
		models.EventKYCApproved)

	return v, nil
}

// SetAccountStatus changes vendor account status
func (vs *VendorService) SetAccountStatus(ctx context.Context, id uint64, status string) (*models.VendorAccount, error) {
	if !models.ValidVendorStatus(status) {
		return nil, models.NewPreconditionError(fmt.Sprintf("Invalid account status %q", status))
	}

	v, err := vs.vendors.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == models.VendorStatusActive && !v.KYCVerified {
		return nil, models.ErrKYCNotVerified
	}

	v.AccountStatus = status
	if err := vs.vendors.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}

	logger.Log.Info("vendor status changed", zap.Uint64("vendor_id", v.ID), zap.String("status", status))
	return v, nil
}
