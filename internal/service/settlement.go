package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rookgm/marketplace/internal/commission"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/metrics"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

const defaultReversalReason = "Manual reversal"

// transferKeySpace namespaces idempotency keys of settlement transfers
var transferKeySpace = uuid.MustParse("6f1c55a2-8a43-4bb8-9f0e-4e1f3c0b7d21")

// SettlementService moves the vendor share of delivered orders to vendor linked accounts
type SettlementService struct {
	tx          Transactor
	orders      OrderRepository
	settlements SettlementRepository
	vendors     VendorRepository
	gateway     TransferGateway
	notifier    Notifier
	currency    string
	now         func() time.Time
}

// NewSettlementService creates new SettlementService instance
func NewSettlementService(tx Transactor, orders OrderRepository, settlements SettlementRepository, vendors VendorRepository,
	gateway TransferGateway, notifier Notifier, currency string) *SettlementService {
	return &SettlementService{
		tx:          tx,
		orders:      orders,
		settlements: settlements,
		vendors:     vendors,
		gateway:     gateway,
		notifier:    notifier,
		currency:    currency,
		now:         time.Now,
	}
}

// attempt is a claimed settlement ready for the gateway call
type attempt struct {
	order      *models.Order
	vendor     *models.VendorAccount
	settlement *models.Settlement
}

// ProcessSettlement transfers the vendor share of a delivered order.
// Preconditions are checked and the settlement row is claimed in one short
// transaction, the transfer is made outside of it and the outcome is recorded
// in a second transaction.
func (ss *SettlementService) ProcessSettlement(ctx context.Context, orderID uint64) (*models.Settlement, error) {
	return ss.settle(ctx, orderID, 0)
}

func (ss *SettlementService) settle(ctx context.Context, orderID, retryOf uint64) (*models.Settlement, error) {
	at, err := ss.claim(ctx, orderID, retryOf)
	if err != nil {
		if retryOf != 0 {
			ss.failAttempt(ctx, orderID, retryOf, nil, err)
		}
		if errors.Is(err, models.ErrPrecondition) {
			metrics.SettlementsTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	st := at.settlement
	logger.Log.Info("settlement claimed",
		zap.Uint64("order_id", orderID),
		zap.Uint64("settlement_id", st.ID),
		zap.Int("retry_count", st.RetryCount),
		zap.String("amount", st.SettlementAmount.StringFixed(2)))

	transfer, err := ss.gateway.CreateTransfer(ctx, models.TransferRequest{
		PaymentID: at.order.PaymentID,
		Account:   at.vendor.LinkedAccountID,
		Amount:    st.SettlementAmount,
		Currency:  ss.currency,
		Notes: map[string]string{
			"order_id":      strconv.FormatUint(at.order.ID, 10),
			"vendor_id":     strconv.FormatUint(at.vendor.ID, 10),
			"settlement_id": strconv.FormatUint(st.ID, 10),
			"commission":    st.CommissionAmount.StringFixed(2),
			"order_total":   st.OrderAmount.StringFixed(2),
		},
		IdempotencyKey: transferKey(st),
	})
	// the outcome must be recorded even if the caller went away
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		ss.failAttempt(ctx, orderID, st.ID, at.vendor, err)
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	completed, err := ss.complete(ctx, orderID, st.ID, transfer)
	if err != nil {
		logger.Log.Error("record completed transfer",
			zap.Uint64("order_id", orderID),
			zap.Uint64("settlement_id", st.ID),
			zap.String("transfer_id", transfer.ID),
			zap.Error(err))
		return nil, fmt.Errorf("record transfer %s: %w", transfer.ID, err)
	}

	metrics.SettlementsTotal.WithLabelValues("completed").Inc()
	logger.Log.Info("settlement completed",
		zap.Uint64("order_id", orderID),
		zap.Uint64("settlement_id", completed.ID),
		zap.String("transfer_id", transfer.ID))

	ss.notifier.Notify(ctx, &at.vendor.UserID, "Settlement Completed",
		fmt.Sprintf("Rs. %s transferred to %s for order #%d", completed.SettlementAmount.StringFixed(2), at.vendor.BusinessName, orderID),
		models.EventSettlementCompleted)

	return completed, nil
}

// transferKey is stable per settlement and retry count. A direct initiate on a
// failed row sends the same key again, so a transfer the gateway applied after a
// timeout is not paid twice. Only an explicit retry gets a new key.
func transferKey(st *models.Settlement) string {
	name := fmt.Sprintf("settlement:%d:attempt:%d", st.ID, st.RetryCount)
	return uuid.NewSHA1(transferKeySpace, []byte(name)).String()
}

// checkPreconditions returns vendor of order or the first violated precondition
func (ss *SettlementService) checkPreconditions(ctx context.Context, order *models.Order) (*models.VendorAccount, error) {
	switch {
	case order.Status != models.OrderStatusDelivered:
		return nil, models.ErrOrderNotDelivered
	case order.SettlementStatus == models.SettlementStatusCompleted:
		return nil, models.ErrAlreadySettled
	case order.VendorID == nil:
		return nil, models.ErrNoVendor
	}

	vendor, err := ss.vendors.GetVendor(ctx, *order.VendorID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrNoVendorAccount
		}
		return nil, err
	}

	if err := vendor.Payable(); err != nil {
		return nil, err
	}
	if order.PaymentID == "" {
		return nil, models.ErrNoCapturedPayment
	}

	return vendor, nil
}

// claim validates order and claims its settlement row in processing status
func (ss *SettlementService) claim(ctx context.Context, orderID, retryOf uint64) (*attempt, error) {
	var at attempt

	err := ss.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := ss.orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		vendor, err := ss.checkPreconditions(ctx, order)
		if err != nil {
			return err
		}

		// commission is frozen once computed
		if !order.CommissionComputed() {
			c, v, err := commission.Calculate(order.TotalPrice, vendor.CommissionPercentage)
			if err != nil {
				return err
			}
			order.CommissionAmount, order.VendorSettlementAmount = c, v
		}

		existing, err := ss.settlements.GetActiveSettlementByOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, models.ErrDataNotFound) {
			return err
		}

		claim := claimSettlement(existing, order, retryOf, ss.now())

		var st *models.Settlement
		switch claim.Kind {
		case ClaimConflict:
			return claim.Reason
		case ClaimCreated:
			st, err = ss.settlements.CreateSettlement(ctx, claim.Settlement)
			if err != nil {
				if errors.Is(err, models.ErrConflictData) {
					return models.ErrSettlementInProgress
				}
				return err
			}
		case ClaimReused:
			st = claim.Settlement
			if err := ss.settlements.UpdateSettlement(ctx, st); err != nil {
				return err
			}
		}

		order.SettlementStatus = models.SettlementStatusInitiated
		order.SettlementID = &st.ID
		if err := ss.orders.UpdateOrderSettlement(ctx, order); err != nil {
			return err
		}

		at = attempt{order: order, vendor: vendor, settlement: st}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &at, nil
}

// complete records a successful transfer
func (ss *SettlementService) complete(ctx context.Context, orderID, settlementID uint64, transfer *models.Transfer) (*models.Settlement, error) {
	var st *models.Settlement

	err := ss.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := ss.orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		st, err = ss.settlements.GetSettlementForUpdate(ctx, settlementID)
		if err != nil {
			return err
		}

		now := ss.now()
		st.TransferID = transfer.ID
		st.GatewayResponse = transfer.Raw
		st.Status = models.SettlementCompleted
		st.FailureReason = ""
		st.CompletedAt = &now
		if err := ss.settlements.UpdateSettlement(ctx, st); err != nil {
			return err
		}

		order.SettlementStatus = models.SettlementStatusCompleted
		order.TransferID = transfer.ID
		order.SettledAt = &now
		return ss.orders.UpdateOrderSettlement(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return st, nil
}

// failAttempt marks a processing settlement and its order failed with the cause
func (ss *SettlementService) failAttempt(ctx context.Context, orderID, settlementID uint64, vendor *models.VendorAccount, cause error) {
	ctx = context.WithoutCancel(ctx)
	reason := cause.Error()
	marked := false

	err := ss.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := ss.orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		st, err := ss.settlements.GetSettlementForUpdate(ctx, settlementID)
		if err != nil {
			return err
		}
		if st.Status != models.SettlementProcessing {
			return nil
		}

		st.Status = models.SettlementFailed
		st.FailureReason = reason
		if err := ss.settlements.UpdateSettlement(ctx, st); err != nil {
			return err
		}
		marked = true

		if order.SettlementID == nil || *order.SettlementID != st.ID ||
			!models.CanTransitionSettlement(order.SettlementStatus, models.SettlementStatusFailed) {
			return nil
		}
		order.SettlementStatus = models.SettlementStatusFailed
		return ss.orders.UpdateOrderSettlement(ctx, order)
	})
	if err != nil {
		logger.Log.Error("record failed settlement",
			zap.Uint64("order_id", orderID),
			zap.Uint64("settlement_id", settlementID),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	if !marked {
		return
	}

	metrics.SettlementsTotal.WithLabelValues("failed").Inc()
	logger.Log.Error("settlement failed",
		zap.Uint64("order_id", orderID),
		zap.Uint64("settlement_id", settlementID),
		zap.String("reason", reason))

	name := "vendor"
	if vendor != nil {
		name = vendor.BusinessName
	}
	ss.notifier.Notify(ctx, nil, "Settlement Failed",
		fmt.Sprintf("Settlement for order #%d to %s failed: %s", orderID, name, reason),
		models.EventSettlementFailed)
}

// RetryFailedSettlement retries a failed settlement at most MaxSettlementRetries times.
// The retry counter is incremented before the attempt and stays incremented if it fails.
func (ss *SettlementService) RetryFailedSettlement(ctx context.Context, settlementID uint64) (*models.Settlement, error) {
	var orderID uint64

	err := ss.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := ss.settlements.GetSettlementForUpdate(ctx, settlementID)
		if err != nil {
			return err
		}
		if st.Status != models.SettlementFailed {
			return models.ErrNotRetryable
		}
		if st.RetryCount >= models.MaxSettlementRetries {
			return models.ErrRetryLimit
		}

		st.RetryCount++
		st.FailureReason = ""
		st.Status = models.SettlementProcessing
		if err := ss.settlements.UpdateSettlement(ctx, st); err != nil {
			return err
		}

		orderID = st.OrderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("retrying settlement", zap.Uint64("settlement_id", settlementID), zap.Uint64("order_id", orderID))

	return ss.settle(ctx, orderID, settlementID)
}

// AutoSettleDeliveredOrders settles every delivered order pending settlement.
// Precondition violations are counted as skipped, other errors as failed; neither stops the run.
func (ss *SettlementService) AutoSettleDeliveredOrders(ctx context.Context) (*models.AutoSettleSummary, error) {
	orders, err := ss.orders.ListSettleableOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settleable orders: %w", err)
	}

	summary := &models.AutoSettleSummary{
		Total:  len(orders),
		Errors: []models.AutoSettleError{},
	}

	logger.Log.Info("starting auto-settlement", zap.Int("total", summary.Total))

	for _, order := range orders {
		if ctx.Err() != nil {
			break
		}

		_, err := ss.ProcessSettlement(ctx, order.ID)
		switch {
		case err == nil:
			summary.Successful++
			metrics.AutoSettleOrders.WithLabelValues("successful").Inc()
		case errors.Is(err, models.ErrPrecondition):
			summary.Skipped++
			metrics.AutoSettleOrders.WithLabelValues("skipped").Inc()
			logger.Log.Warn("auto-settlement skipped order", zap.Uint64("order_id", order.ID), zap.Error(err))
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, models.AutoSettleError{
				OrderID:  order.ID,
				VendorID: order.VendorID,
				Error:    err.Error(),
			})
			metrics.AutoSettleOrders.WithLabelValues("failed").Inc()
			logger.Log.Error("auto-settlement failed order", zap.Uint64("order_id", order.ID), zap.Error(err))
		}
	}

	if summary.Successful > 0 || summary.Failed > 0 {
		ss.notifier.Notify(ctx, nil, "Auto-Settlement Summary",
			fmt.Sprintf("Processed %d orders: %d successful, %d failed, %d skipped",
				summary.Total, summary.Successful, summary.Failed, summary.Skipped),
			models.EventAutoSettleSummary)
	}

	return summary, nil
}

// ReverseSettlement reverses the transfer of a completed settlement and makes
// its order eligible for settlement again. If the gateway refuses, nothing changes.
func (ss *SettlementService) ReverseSettlement(ctx context.Context, settlementID uint64, reason string) (*models.ReversalResult, error) {
	if reason == "" {
		reason = defaultReversalReason
	}

	st, err := ss.settlements.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if st.Status != models.SettlementCompleted {
		return nil, models.ErrNotReversible
	}
	if st.TransferID == "" {
		return nil, models.ErrNoTransferID
	}

	reversal, err := ss.gateway.ReverseTransfer(ctx, st.TransferID, nil)
	if err != nil {
		logger.Log.Error("reverse transfer",
			zap.Uint64("settlement_id", settlementID),
			zap.String("transfer_id", st.TransferID),
			zap.Error(err))
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	err = ss.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := ss.orders.GetOrderForUpdate(ctx, st.OrderID)
		if err != nil {
			return err
		}
		st, err = ss.settlements.GetSettlementForUpdate(ctx, settlementID)
		if err != nil {
			return err
		}
		if st.Status != models.SettlementCompleted {
			return models.ErrNotReversible
		}

		st.Status = models.SettlementReversed
		st.FailureReason = reason
		st.GatewayResponse = withReversal(st.GatewayResponse, reversal.Raw)
		if err := ss.settlements.UpdateSettlement(ctx, st); err != nil {
			return err
		}

		if order.SettlementID != nil && *order.SettlementID != st.ID {
			return nil
		}
		order.SettlementStatus = models.SettlementStatusPending
		order.TransferID = ""
		order.SettledAt = nil
		order.SettlementID = nil
		return ss.orders.UpdateOrderSettlement(ctx, order)
	})
	if err != nil {
		logger.Log.Error("record reversal",
			zap.Uint64("settlement_id", settlementID),
			zap.String("reversal_id", reversal.ID),
			zap.Error(err))
		return nil, err
	}

	metrics.SettlementReversals.Inc()
	logger.Log.Info("settlement reversed",
		zap.Uint64("settlement_id", settlementID),
		zap.String("reversal_id", reversal.ID),
		zap.String("reason", reason))

	ss.notifier.Notify(ctx, nil, "Settlement Reversed",
		fmt.Sprintf("Settlement #%d for order #%d reversed: %s", st.ID, st.OrderID, reason),
		models.EventSettlementReversed)

	return &models.ReversalResult{Settlement: st, Reversal: reversal}, nil
}

// withReversal keeps the transfer payload and adds the reversal payload next to it
func withReversal(transfer, reversal []byte) []byte {
	doc := map[string]json.RawMessage{}
	if len(transfer) > 0 {
		doc["transfer"] = transfer
	}
	if len(reversal) > 0 {
		doc["reversal"] = reversal
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return transfer
	}
	return b
}

// GetSettlement returns settlement visible to actor
func (ss *SettlementService) GetSettlement(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Settlement, error) {
	st, err := ss.settlements.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ss.checkVendorAccess(ctx, actor, st.VendorID); err != nil {
		return nil, err
	}
	return st, nil
}

// ListSettlements returns settlements visible to actor. Vendor operators only see their own.
func (ss *SettlementService) ListSettlements(ctx context.Context, actor *models.TokenPayload, f models.SettlementFilter) ([]models.Settlement, int, error) {
	if !actor.IsOperator() {
		f.AdminID = &actor.UserID
	}
	return ss.settlements.ListSettlements(ctx, f)
}

// GetTransferStatus returns gateway state of the settlement transfer
func (ss *SettlementService) GetTransferStatus(ctx context.Context, actor *models.TokenPayload, id uint64) (*models.Transfer, error) {
	st, err := ss.GetSettlement(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if st.TransferID == "" {
		return nil, models.ErrNoTransferID
	}
	return ss.gateway.GetTransfer(ctx, st.TransferID)
}

// GetVendorSettlementSummary aggregates vendor settlements initiated within [start, end)
func (ss *SettlementService) GetVendorSettlementSummary(ctx context.Context, actor *models.TokenPayload, vendorID uint64, start, end *time.Time) (*models.SettlementSummary, error) {
	vendor, err := ss.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator() && vendor.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}

	summary, err := ss.settlements.SummarizeSettlements(ctx, vendorID, start, end)
	if err != nil {
		return nil, err
	}
	summary.BusinessName = vendor.BusinessName
	return summary, nil
}

func (ss *SettlementService) checkVendorAccess(ctx context.Context, actor *models.TokenPayload, vendorID uint64) error {
	if actor.IsOperator() {
		return nil
	}
	vendor, err := ss.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor.UserID != actor.UserID {
		return models.ErrForbidden
	}
	return nil
}
