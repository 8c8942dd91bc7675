package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartActions counts dispatched cart actions by result (applied, rejected)
	CartActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_actions_total",
			Help: "Total number of cart actions dispatched",
		},
		[]string{"action", "result"},
	)

	// CheckoutTotal counts checkout attempts by outcome
	CheckoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"outcome"},
	)

	// CatalogFetchDuration tracks catalog page fetch latency
	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_catalog_fetch_duration_seconds",
			Help:    "Catalog page fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// StaleResponses counts catalog responses discarded because a newer request was issued
	StaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_catalog_stale_responses_total",
			Help: "Catalog responses discarded in favor of a newer request",
		},
	)

	// PersistenceErrors counts swallowed storage failures
	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persistence_errors_total",
			Help: "Storage failures swallowed by the cart persistence adapter",
		},
		[]string{"operation"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit"},
	)

	// CircuitBreakerFailures tracks calls that failed through a breaker
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_circuit_breaker_failures_total",
			Help: "Total number of calls failed through a circuit breaker",
		},
		[]string{"circuit"},
	)

	// RequestsTotal tracks local API requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks local API latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Middleware records request count and latency labelled by the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
