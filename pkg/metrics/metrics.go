package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreMetrics tracks the request surface and the checkout funnel.
type StoreMetrics struct {
	Requests        *prometheus.CounterVec
	Latency         *prometheus.HistogramVec
	OrdersPlaced    prometheus.Counter
	CheckoutFailed  *prometheus.CounterVec
	StockCommitTime prometheus.Histogram
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"handler"}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_placed_total",
			Help:      "Orders successfully journaled.",
		}),
		CheckoutFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_failures_total",
			Help:      "Checkout attempts that did not produce an order.",
		}, []string{"reason"}),
		StockCommitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "stock_commit_duration_ms",
			Help:      "Stock ledger commit latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.OrdersPlaced, m.CheckoutFailed, m.StockCommitTime)
	return m
}

// ObserveRequest records one finished request.
func (m *StoreMetrics) ObserveRequest(handler string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
