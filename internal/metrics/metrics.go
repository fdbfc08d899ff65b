// ABOUTME: Prometheus metrics collection for HTTP traffic, auth outcomes, and pizza sales
// ABOUTME: Exposed on a pull-based /metrics endpoint via promhttp

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records service metrics against a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	authSuccess     prometheus.Counter
	authFailure     prometheus.Counter
	pizzasSold      prometheus.Counter
	revenue         prometheus.Counter
	orderFailures   prometheus.Counter
	orderLatency    prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderd_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderd_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		authSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderd_auth_success_total",
			Help: "Successful logins and registrations",
		}),
		authFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderd_auth_failure_total",
			Help: "Rejected authentication attempts",
		}),
		pizzasSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderd_pizzas_sold_total",
			Help: "Pizzas sold across all orders",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderd_revenue_total",
			Help: "Revenue across all orders",
		}),
		orderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderd_order_fulfillment_failures_total",
			Help: "Orders the factory failed to fulfill",
		}),
		orderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderd_order_creation_latency_seconds",
			Help:    "Order creation latency in seconds, including the factory call",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.authSuccess,
		c.authFailure,
		c.pizzasSold,
		c.revenue,
		c.orderFailures,
		c.orderLatency,
	)

	return c
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RegisterActiveSessions exposes a gauge evaluated at scrape time. The count
// function should return the number of unexpired sessions; scrape errors
// surface as a zero reading rather than failing the whole scrape.
func (c *Collector) RegisterActiveSessions(count func() (int, error)) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "orderd_active_sessions",
		Help: "Sessions that are activated and not yet expired or revoked",
	}, func() float64 {
		n, err := count()
		if err != nil {
			return 0
		}
		return float64(n)
	}))
}

// RecordAuthSuccess records a successful login or registration.
func (c *Collector) RecordAuthSuccess() {
	c.authSuccess.Inc()
}

// RecordAuthFailure records a rejected authentication attempt.
func (c *Collector) RecordAuthFailure() {
	c.authFailure.Inc()
}

// RecordSale records a fulfilled order's item count and revenue.
func (c *Collector) RecordSale(items int, revenue float64) {
	c.pizzasSold.Add(float64(items))
	c.revenue.Add(revenue)
}

// RecordOrderFailure records an order the factory could not fulfill.
func (c *Collector) RecordOrderFailure() {
	c.orderFailures.Inc()
}

// RecordOrderLatency records how long an order creation took end to end.
func (c *Collector) RecordOrderLatency(d time.Duration) {
	c.orderLatency.Observe(d.Seconds())
}

// statusRecorder captures the response status code for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency for every request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		c.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		c.requestDuration.Observe(time.Since(start).Seconds())
	})
}
