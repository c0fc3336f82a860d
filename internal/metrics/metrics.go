// Package metrics holds the Prometheus collectors of the marketplace.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementsTotal counts settlement attempts by outcome (completed, failed, rejected)
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_settlements_total",
			Help: "Settlement attempts by outcome",
		},
		[]string{"outcome"},
	)

	SettlementReversals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_settlement_reversals_total",
			Help: "Completed settlement reversals",
		},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_webhook_events_total",
			Help: "Payment gateway webhook deliveries by event and result",
		},
		[]string{"event", "result"},
	)

	AutoSettleOrders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_auto_settle_orders_total",
			Help: "Orders visited by auto-settlement runs by result",
		},
		[]string{"result"},
	)

	// GatewayBreakerState is 0 when closed, 1 when half-open and 2 when open
	GatewayBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketplace_gateway_breaker_state",
			Help: "Payment gateway circuit breaker state",
		},
		[]string{"name"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_gateway_requests_total",
			Help: "Payment gateway calls by operation and result",
		},
		[]string{"op", "result"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_gateway_request_seconds",
			Help:    "Payment gateway call latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	TrackingClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_tracking_clients",
			Help: "Connected order tracking clients",
		},
	)
)
