package worker

import (
	"context"
	"time"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

// SettlementService settles delivered orders in bulk
type SettlementService interface {
	AutoSettleDeliveredOrders(ctx context.Context) (*models.AutoSettleSummary, error)
}

// SettlementSweeper is worker that periodically settles delivered orders
type SettlementSweeper struct {
	svc      SettlementService
	interval time.Duration
}

// NewSettlementSweeper create new settlement sweeper
func NewSettlementSweeper(svc SettlementService, interval time.Duration) *SettlementSweeper {
	return &SettlementSweeper{
		svc:      svc,
		interval: interval,
	}
}

// Run sweeps every interval until ctx is done
func (ss *SettlementSweeper) Run(ctx context.Context) error {
	if ss.interval <= 0 {
		logger.Log.Info("auto-settlement is disabled")
		return nil
	}

	ticker := time.NewTicker(ss.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("settlement sweeper is done")
			return nil
		case <-ticker.C:
			ss.sweep(ctx)
		}
	}
}

func (ss *SettlementSweeper) sweep(ctx context.Context) {
	start := time.Now()

	summary, err := ss.svc.AutoSettleDeliveredOrders(ctx)
	if err != nil {
		logger.Log.Error("auto-settlement run", zap.Error(err))
		return
	}

	logger.Log.Info("auto-settlement run finished",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", time.Since(start)))
}
