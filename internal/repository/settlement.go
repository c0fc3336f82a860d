package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
	"github.com/shopspring/decimal"
)

const settlementColumns = `
	s.id, s.order_id, s.vendor_id, s.order_amount, s.commission_amount, s.settlement_amount,
	s.transfer_id, s.gateway_response, s.status, s.failure_reason, s.retry_count,
	s.initiated_at, s.completed_at, s.updated_at`

const (
	insertSettlementQuery = `
						INSERT INTO settlements AS s (order_id, vendor_id, order_amount, commission_amount, settlement_amount, status, retry_count)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING` + settlementColumns

	selectSettlementQuery = `
						SELECT` + settlementColumns + ` FROM settlements s
						WHERE s.id = $1
`
	selectSettlementForUpdateQuery = selectSettlementQuery + ` FOR UPDATE`

	selectActiveSettlementByOrderQuery = `
						SELECT` + settlementColumns + ` FROM settlements s
						WHERE s.order_id = $1 AND s.status <> 'reversed'
						FOR UPDATE
`
	updateSettlementQuery = `
						UPDATE settlements
						SET order_amount = $2, commission_amount = $3, settlement_amount = $4, transfer_id = $5,
						    gateway_response = $6, status = $7, failure_reason = $8, retry_count = $9,
						    initiated_at = $10, completed_at = $11, updated_at = now()
						WHERE id = $1
`
	summarySettlementsQuery = `
						SELECT s.status, count(*), coalesce(sum(s.settlement_amount), 0),
						       coalesce(sum(s.commission_amount), 0), coalesce(sum(s.order_amount), 0)
						FROM settlements s
						WHERE s.vendor_id = $1
						  AND ($2::timestamptz IS NULL OR s.initiated_at >= $2)
						  AND ($3::timestamptz IS NULL OR s.initiated_at < $3)
						GROUP BY s.status
`
)

// SettlementRepository implements SettlementRepository interface
type SettlementRepository struct {
	db *postgres.DB
}

// NewSettlementRepository creates new SettlementRepository instance
func NewSettlementRepository(db *postgres.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var (
		s          models.Settlement
		transferID *string
		response   []byte
	)
	err := row.Scan(&s.ID, &s.OrderID, &s.VendorID, &s.OrderAmount, &s.CommissionAmount, &s.SettlementAmount,
		&transferID, &response, &s.Status, &s.FailureReason, &s.RetryCount,
		&s.InitiatedAt, &s.CompletedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	if transferID != nil {
		s.TransferID = *transferID
	}
	if len(response) > 0 {
		s.GatewayResponse = response
	}
	return &s, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// CreateSettlement inserts new settlement.
// It returns models.ErrConflictData when the order already has a settlement that is not reversed.
func (sr *SettlementRepository) CreateSettlement(ctx context.Context, s *models.Settlement) (*models.Settlement, error) {
	created, err := scanSettlement(sr.db.QueryRow(ctx, insertSettlementQuery, s.OrderID, s.VendorID, s.OrderAmount,
		s.CommissionAmount, s.SettlementAmount, s.Status, s.RetryCount))
	if err != nil {
		if errCode := sr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}
	return created, nil
}

// GetSettlement returns settlement by id
func (sr *SettlementRepository) GetSettlement(ctx context.Context, id uint64) (*models.Settlement, error) {
	return scanSettlement(sr.db.QueryRow(ctx, selectSettlementQuery, id))
}

// GetSettlementForUpdate returns settlement by id and locks its row
func (sr *SettlementRepository) GetSettlementForUpdate(ctx context.Context, id uint64) (*models.Settlement, error) {
	return scanSettlement(sr.db.QueryRow(ctx, selectSettlementForUpdateQuery, id))
}

// GetActiveSettlementByOrder returns the settlement of order that is not reversed
func (sr *SettlementRepository) GetActiveSettlementByOrder(ctx context.Context, orderID uint64) (*models.Settlement, error) {
	return scanSettlement(sr.db.QueryRow(ctx, selectActiveSettlementByOrderQuery, orderID))
}

// UpdateSettlement stores settlement.
// It returns models.ErrConflictData when the transfer id belongs to another settlement.
func (sr *SettlementRepository) UpdateSettlement(ctx context.Context, s *models.Settlement) error {
	cmd, err := sr.db.Exec(ctx, updateSettlementQuery, s.ID, s.OrderAmount, s.CommissionAmount, s.SettlementAmount,
		nullString(s.TransferID), nullJSON(s.GatewayResponse), s.Status, s.FailureReason, s.RetryCount,
		s.InitiatedAt, s.CompletedAt)
	if err != nil {
		if errCode := sr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// ListSettlements returns page of settlements and total count matching filter
func (sr *SettlementRepository) ListSettlements(ctx context.Context, f models.SettlementFilter) ([]models.Settlement, int, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("s.status = $%d", len(args)))
	}
	if f.VendorID != nil {
		args = append(args, *f.VendorID)
		where = append(where, fmt.Sprintf("s.vendor_id = $%d", len(args)))
	}
	if f.AdminID != nil {
		args = append(args, *f.AdminID)
		where = append(where, fmt.Sprintf("v.user_id = $%d", len(args)))
	}

	from := ` FROM settlements s JOIN vendor_accounts v ON v.id = s.vendor_id`
	if len(where) > 0 {
		from += ` WHERE ` + strings.Join(where, " AND ")
	}

	var count int
	if err := sr.db.QueryRow(ctx, `SELECT count(*)`+from, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := `SELECT` + settlementColumns + from +
		fmt.Sprintf(` ORDER BY s.initiated_at DESC, s.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := sr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, 0, err
		}
		settlements = append(settlements, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return settlements, count, nil
}

// SummarizeSettlements aggregates vendor settlements initiated within [start, end)
func (sr *SettlementRepository) SummarizeSettlements(ctx context.Context, vendorID uint64, start, end *time.Time) (*models.SettlementSummary, error) {
	rows, err := sr.db.Query(ctx, summarySettlementsQuery, vendorID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &models.SettlementSummary{
		VendorID: vendorID,
		ByStatus: map[string]int{
			models.SettlementPending:    0,
			models.SettlementProcessing: 0,
			models.SettlementCompleted:  0,
			models.SettlementFailed:     0,
			models.SettlementReversed:   0,
		},
		StartDate: start,
		EndDate:   end,
	}
	for rows.Next() {
		var (
			status                     string
			count                      int
			settled, commission, total decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &settled, &commission, &total); err != nil {
			return nil, err
		}
		summary.ByStatus[status] = count
		summary.Count += count
		summary.TotalSettled = summary.TotalSettled.Add(settled)
		summary.TotalCommission = summary.TotalCommission.Add(commission)
		summary.TotalOrders = summary.TotalOrders.Add(total)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
