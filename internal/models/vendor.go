package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// vendor account status
const (
	VendorStatusPending   = "pending"
	VendorStatusActive    = "active"
	VendorStatusSuspended = "suspended"
	VendorStatusRejected  = "rejected"
)

// VendorAccount is a vendor's payout identity
type VendorAccount struct {
	ID                   uint64          `json:"id"`
	UserID               uint64          `json:"user_id"`
	BusinessName         string          `json:"business_name"`
	BusinessType         string          `json:"business_type"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	LinkedAccountID      string          `json:"linked_account_id,omitempty"`
	LinkedAccountStatus  string          `json:"linked_account_status,omitempty"`
	KYCVerified          bool            `json:"kyc_verified"`
	PAN                  string          `json:"pan,omitempty"`
	GSTIN                string          `json:"gstin,omitempty"`
	AccountStatus        string          `json:"account_status"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	BankAccountName      string          `json:"bank_account_name,omitempty"`
	BankAccountNumber    string          `json:"bank_account_number,omitempty"`
	BankIFSC             string          `json:"bank_ifsc,omitempty"`
	IsActive             bool            `json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	VerifiedAt           *time.Time      `json:"verified_at,omitempty"`
}

// Payable reports the first reason a settlement cannot be paid to the vendor, or nil
func (v *VendorAccount) Payable() error {
	switch {
	case !v.KYCVerified:
		return ErrKYCNotVerified
	case v.LinkedAccountID == "":
		return ErrNoLinkedAccount
	case v.AccountStatus != VendorStatusActive:
		return ErrVendorInactive
	}
	return nil
}

// ValidVendorStatus reports whether status is a known vendor account status
func ValidVendorStatus(status string) bool {
	switch status {
	case VendorStatusPending, VendorStatusActive, VendorStatusSuspended, VendorStatusRejected:
		return true
	}
	return false
}
