package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute labels requests no route matched, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace prefixes every metric (default "pagefx").
	Namespace string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the latency histogram buckets.
	Buckets []float64

	// Registry receives the collectors (default prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets labels added to every metric.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the latency histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registry the collectors register on.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the pagefx collectors.
type Metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	broadcasts prometheus.Counter
	deliveries prometheus.Counter
	prefWrites *prometheus.CounterVec
	clients    prometheus.Gauge
	contacts   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. It panics if they are
// already registered on the chosen registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "pagefx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := promauto.With(cfg.Registry)

	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by route pattern, method and status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route", "method", "status"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency by route pattern and method.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"route", "method"}),

		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "requests_in_flight",
			Help:        "HTTP requests currently being served.",
			ConstLabels: cfg.ConstLabels,
		}),

		broadcasts: f.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toast_broadcasts_total",
			Help:        "Toasts broadcast to connected pages.",
			ConstLabels: cfg.ConstLabels,
		}),

		deliveries: f.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toast_deliveries_total",
			Help:        "Toast frames queued to individual clients.",
			ConstLabels: cfg.ConstLabels,
		}),

		prefWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "pref_writes_total",
			Help:        "Preference writes by operation and result.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op", "result"}),

		clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "toast_clients",
			Help:        "Connected toast WebSocket clients.",
			ConstLabels: cfg.ConstLabels,
		}),

		contacts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "contact_submissions_total",
			Help:        "Contact form submissions by result.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),
	}
}

// Handler is chi middleware recording request count, latency and
// in-flight requests by route pattern.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// Prometheus returns metrics middleware over a fresh Metrics.
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	return NewMetrics(opts...).Handler
}

// routePattern returns the matched chi pattern, read after the handler ran
// so sub-router patterns are complete.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}

// RecordBroadcast records one toast broadcast reaching delivered clients.
func (m *Metrics) RecordBroadcast(delivered int) {
	m.broadcasts.Inc()
	m.deliveries.Add(float64(delivered))
}

// RecordPrefWrite records a preference write. op is "set" or "delete".
func (m *Metrics) RecordPrefWrite(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.prefWrites.WithLabelValues(op, result).Inc()
}

// RecordPrefRejected records a write refused by the rate limiter.
func (m *Metrics) RecordPrefRejected(op string) {
	m.prefWrites.WithLabelValues(op, "limited").Inc()
}

// SetToastClients sets the connected toast client gauge.
func (m *Metrics) SetToastClients(n int) {
	m.clients.Set(float64(n))
}

// RecordContact records a contact form submission. Valid submissions are
// "accepted", the rest "invalid".
func (m *Metrics) RecordContact(valid bool) {
	result := "accepted"
	if !valid {
		result = "invalid"
	}
	m.contacts.WithLabelValues(result).Inc()
}
