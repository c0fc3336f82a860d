package razorpay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/metrics"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerName = "razorpay-api"

// BreakerClient wraps Client with circuit breaker.
// Gateway rejections (4xx) count as successful calls: the gateway is healthy,
// it just refused the request.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
}

// BreakerSettings tunes the circuit breaker
type BreakerSettings struct {
	// MaxRequests allowed in half-open state
	MaxRequests uint32
	// Interval of the closed state after which counts are cleared
	Interval time.Duration
	// Timeout of the open state
	Timeout time.Duration
	// MinRequests before the failure ratio is considered
	MinRequests uint32
	// FailureRatio that opens the circuit
	FailureRatio float64
}

// DefaultBreakerSettings returns settings used in production
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// NewBreakerClient creates new BreakerClient instance
func NewBreakerClient(client *Client, bs BreakerSettings) *BreakerClient {
	metrics.GatewayBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bs.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("gateway circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.GatewayBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, models.ErrGatewayRejection)
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
	}
}

// State returns current breaker state
func (bc *BreakerClient) State() gobreaker.State {
	return bc.cb.State()
}

// execute runs gateway call with circuit breaker and records metrics
func (bc *BreakerClient) execute(op string, fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := bc.cb.Execute(fn)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.GatewayRequests.WithLabelValues(op, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.GatewayRequests.WithLabelValues(op, "rejected").Inc()
		logger.Log.Warn("gateway call rejected by circuit breaker", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("razorpay %s: %w: %w", op, models.ErrGatewayUnavailable, err)
	case errors.Is(err, models.ErrGatewayRejection):
		metrics.GatewayRequests.WithLabelValues(op, "declined").Inc()
	default:
		metrics.GatewayRequests.WithLabelValues(op, "failure").Inc()
	}

	return result, err
}

// castResult type-casts circuit breaker result
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// CreateTransfer calls Client.CreateTransfer through circuit breaker
func (bc *BreakerClient) CreateTransfer(ctx context.Context, tr models.TransferRequest) (*models.Transfer, error) {
	return castResult[models.Transfer](bc.execute("create_transfer", func() (any, error) {
		return bc.client.CreateTransfer(ctx, tr)
	}))
}

// ReverseTransfer calls Client.ReverseTransfer through circuit breaker
func (bc *BreakerClient) ReverseTransfer(ctx context.Context, transferID string, amount *decimal.Decimal) (*models.Reversal, error) {
	return castResult[models.Reversal](bc.execute("reverse_transfer", func() (any, error) {
		return bc.client.ReverseTransfer(ctx, transferID, amount)
	}))
}

// GetTransfer calls Client.GetTransfer through circuit breaker
func (bc *BreakerClient) GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error) {
	return castResult[models.Transfer](bc.execute("get_transfer", func() (any, error) {
		return bc.client.GetTransfer(ctx, transferID)
	}))
}

// CreateLinkedAccount calls Client.CreateLinkedAccount through circuit breaker
func (bc *BreakerClient) CreateLinkedAccount(ctx context.Context, ar models.LinkedAccountRequest) (*models.LinkedAccount, error) {
	return castResult[models.LinkedAccount](bc.execute("create_linked_account", func() (any, error) {
		return bc.client.CreateLinkedAccount(ctx, ar)
	}))
}

// UpdateLinkedAccount calls Client.UpdateLinkedAccount through circuit breaker
func (bc *BreakerClient) UpdateLinkedAccount(ctx context.Context, accountID string, kyc models.KYCDetails) (*models.LinkedAccount, error) {
	return castResult[models.LinkedAccount](bc.execute("update_linked_account", func() (any, error) {
		return bc.client.UpdateLinkedAccount(ctx, accountID, kyc)
	}))
}

// CreatePaymentLink calls Client.CreatePaymentLink through circuit breaker
func (bc *BreakerClient) CreatePaymentLink(ctx context.Context, pr models.PaymentLinkRequest) (*models.PaymentLink, error) {
	return castResult[models.PaymentLink](bc.execute("create_payment_link", func() (any, error) {
		return bc.client.CreatePaymentLink(ctx, pr)
	}))
}

// GetPayment calls Client.GetPayment through circuit breaker
func (bc *BreakerClient) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	return castResult[models.Payment](bc.execute("get_payment", func() (any, error) {
		return bc.client.GetPayment(ctx, paymentID)
	}))
}
