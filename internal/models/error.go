package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData            = errors.New("data conflicts with existing data")
	ErrDataNotFound            = errors.New("data not found")
	ErrForbidden               = errors.New("access denied")
	ErrInvalidSignature        = errors.New("invalid webhook signature")
	ErrMalformedPayload        = errors.New("malformed payload")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidCommission       = errors.New("commission percentage must be between 0 and 100")
	ErrNegativeAmount          = errors.New("amount must not be negative")

	// ErrPrecondition is matched by every PreconditionError
	ErrPrecondition = errors.New("precondition failed")
	// ErrGatewayRejection is matched by every GatewayError
	ErrGatewayRejection = errors.New("payment gateway rejected the request")
	// ErrGatewayUnavailable wraps transport failures, 5xx answers and an open circuit breaker
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// PreconditionError is a rejected operation with an operator-facing reason.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NewPreconditionError creates new PreconditionError
func NewPreconditionError(reason string) *PreconditionError {
	return &PreconditionError{Reason: reason}
}

// settlement preconditions
var (
	ErrOrderNotDelivered    = NewPreconditionError("Can only settle delivered orders")
	ErrAlreadySettled       = NewPreconditionError("Order already settled")
	ErrNoVendor             = NewPreconditionError("Order has no vendor assigned")
	ErrNoVendorAccount      = NewPreconditionError("Vendor has no payout account")
	ErrKYCNotVerified       = NewPreconditionError("Vendor KYC not verified")
	ErrNoLinkedAccount      = NewPreconditionError("Vendor has no linked account")
	ErrVendorInactive       = NewPreconditionError("Vendor account is not active")
	ErrNoCapturedPayment    = NewPreconditionError("Order has no captured payment")
	ErrSettlementInProgress = NewPreconditionError("Settlement already in progress for this order")
	ErrRetryLimit           = NewPreconditionError(fmt.Sprintf("Maximum retry attempts (%d) reached. Manual intervention required.", MaxSettlementRetries))
	ErrNotRetryable         = NewPreconditionError("Can only retry failed settlements")
	ErrNotReversible        = NewPreconditionError("Can only reverse completed settlements")
	ErrNoTransferID         = NewPreconditionError("Settlement has no transfer id")
	ErrCancelNotAllowed     = NewPreconditionError("Cannot cancel an order that has been shipped or delivered")
	ErrLinkedAccountExists  = NewPreconditionError("Vendor already has a linked account")
	ErrKYCIncomplete        = NewPreconditionError("Vendor KYC details are incomplete")
)

// GatewayError is a 4xx answer of the payment gateway.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway error (%d): %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("gateway error (%d) %s: %s", e.StatusCode, e.Code, e.Description)
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayRejection
}
