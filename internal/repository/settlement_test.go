package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *postgres.DB) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, postgres.NewWithPool(mock)
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestSettlementQueries_LockRows(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "active_by_order",
			query: selectActiveSettlementByOrderQuery,
			want:  []string{`WHERE s\.order_id = \$1`, `s\.status <> 'reversed'`, `FOR UPDATE\s*$`},
		},
		{
			name:  "by_id",
			query: selectSettlementForUpdateQuery,
			want:  []string{`WHERE s\.id = \$1`, `FOR UPDATE$`},
		},
		{
			name:  "order",
			query: selectOrderForUpdateQuery,
			want:  []string{`FOR UPDATE$`},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, pattern := range test.want {
				assert.Regexp(t, regexp.MustCompile(pattern), test.query)
			}
		})
	}
}

func TestSettlementRepository_CreateSettlement(t *testing.T) {
	st := &models.Settlement{
		OrderID:          42,
		VendorID:         7,
		OrderAmount:      decimal.NewFromInt(1000),
		CommissionAmount: decimal.NewFromInt(20),
		SettlementAmount: decimal.NewFromInt(980),
		Status:           models.SettlementProcessing,
	}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "active_settlement_exists",
			dbErr:   &pgconn.PgError{Code: pgErrUniqueViolationCode, ConstraintName: "settlements_order_active_uidx"},
			wantErr: models.ErrConflictData,
		},
		{
			name:  "foreign_key_violation",
			dbErr: &pgconn.PgError{Code: "23503", ConstraintName: "settlements_order_id_fkey"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mock, db := newMockDB(t)
			repo := NewSettlementRepository(db)

			mock.ExpectQuery("INSERT INTO settlements").
				WithArgs(anyArgs(7)...).
				WillReturnError(test.dbErr)

			_, err := repo.CreateSettlement(context.Background(), st)
			require.Error(t, err)
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
			} else {
				assert.NotErrorIs(t, err, models.ErrConflictData)
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSettlementRepository_GetActiveSettlementByOrder_NotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSettlementRepository(db)

	mock.ExpectQuery(`WHERE s\.order_id = \$1 AND s\.status <> 'reversed'\s+FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetActiveSettlementByOrder(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementRepository_UpdateSettlement(t *testing.T) {
	st := &models.Settlement{ID: 3, TransferID: "trf_1", Status: models.SettlementCompleted}

	t.Run("transfer_taken", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectExec("UPDATE settlements").
			WithArgs(anyArgs(11)...).
			WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolationCode, ConstraintName: "settlements_transfer_uidx"})

		err := NewSettlementRepository(db).UpdateSettlement(context.Background(), st)
		assert.ErrorIs(t, err, models.ErrConflictData)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectExec("UPDATE settlements").
			WithArgs(anyArgs(11)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewSettlementRepository(db).UpdateSettlement(context.Background(), st)
		assert.ErrorIs(t, err, models.ErrDataNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_StockGuard(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(`SET reserved = reserved \+ \$2\s+WHERE id = \$1 AND stock - reserved >= \$2`).
		WithArgs(uint64(5), 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET reserved = reserved - \$2\s+WHERE id = \$1 AND reserved >= \$2`).
		WithArgs(uint64(5), 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.ReserveStock(context.Background(), 5, 3))
	assert.ErrorIs(t, repo.ReleaseStock(context.Background(), 5, 4), models.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
