package service

import (
	"time"

	"github.com/rookgm/marketplace/internal/models"
)

// ClaimKind tells how a settlement attempt obtained its row
type ClaimKind int

const (
	// ClaimCreated is a first attempt with a new row
	ClaimCreated ClaimKind = iota
	// ClaimReused takes over an existing failed, pending or retried row
	ClaimReused
	// ClaimConflict means another attempt owns the row or the order is settled
	ClaimConflict
)

func (k ClaimKind) String() string {
	switch k {
	case ClaimCreated:
		return "created"
	case ClaimReused:
		return "reused"
	default:
		return "conflict"
	}
}

// Claim is the outcome of claimSettlement
type Claim struct {
	Kind       ClaimKind
	Settlement *models.Settlement
	Reason     error
}

// claimSettlement decides how an attempt for order proceeds given the order's
// existing non-reversed settlement. retryOf is the id of a settlement the caller
// has just moved to processing for a retry, or zero.
// The returned settlement carries a fresh snapshot of the order amounts and is
// in processing status; it is not persisted.
func claimSettlement(existing *models.Settlement, order *models.Order, retryOf uint64, now time.Time) Claim {
	if existing == nil {
		s := &models.Settlement{
			OrderID: order.ID,
			Status:  models.SettlementProcessing,
		}
		snapshot(s, order, now)
		return Claim{Kind: ClaimCreated, Settlement: s}
	}

	switch existing.Status {
	case models.SettlementCompleted:
		return Claim{Kind: ClaimConflict, Reason: models.ErrAlreadySettled}
	case models.SettlementProcessing:
		if retryOf == 0 || existing.ID != retryOf {
			return Claim{Kind: ClaimConflict, Reason: models.ErrSettlementInProgress}
		}
	case models.SettlementFailed, models.SettlementPending:
	default:
		return Claim{Kind: ClaimConflict, Reason: models.ErrSettlementInProgress}
	}

	s := *existing
	s.Status = models.SettlementProcessing
	s.FailureReason = ""
	snapshot(&s, order, now)
	return Claim{Kind: ClaimReused, Settlement: &s}
}

func snapshot(s *models.Settlement, order *models.Order, now time.Time) {
	if order.VendorID != nil {
		s.VendorID = *order.VendorID
	}
	s.OrderAmount = order.TotalPrice
	s.CommissionAmount = order.CommissionAmount
	s.SettlementAmount = order.VendorSettlementAmount
	s.InitiatedAt = now
	s.CompletedAt = nil
}
