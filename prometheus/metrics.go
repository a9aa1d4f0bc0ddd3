package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Business operation metrics
	SalesCounter     *prometheus.CounterVec
	ReturnsCounter   *prometheus.CounterVec
	TransfersCounter *prometheus.CounterVec

	// Inventory metrics
	LowStockEventsCounter prometheus.Counter
)

// InitMetrics registers all collectors. Call once from main.
func InitMetrics(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	SalesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sales_total",
			Help: "Total number of sale attempts by outcome",
		},
		[]string{"outcome"},
	)

	ReturnsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_returns_total",
			Help: "Total number of return attempts by outcome",
		},
		[]string{"outcome"},
	)

	TransfersCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_transfers_total",
			Help: "Total number of transfer transitions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	LowStockEventsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_low_stock_events_total",
			Help: "Total number of low stock alerts published",
		},
	)
}

func RecordSale(outcome string) {
	if SalesCounter != nil {
		SalesCounter.WithLabelValues(outcome).Inc()
	}
}

func RecordReturn(outcome string) {
	if ReturnsCounter != nil {
		ReturnsCounter.WithLabelValues(outcome).Inc()
	}
}

func RecordTransfer(action, outcome string) {
	if TransfersCounter != nil {
		TransfersCounter.WithLabelValues(action, outcome).Inc()
	}
}

func RecordLowStockEvent() {
	if LowStockEventsCounter != nil {
		LowStockEventsCounter.Inc()
	}
}
