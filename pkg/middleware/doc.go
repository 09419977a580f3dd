// Package middleware provides the HTTP observability layer for the pagefx
// server: Prometheus metrics and OpenTelemetry tracing, both as
// chi-compatible func(http.Handler) http.Handler middleware.
//
// # Prometheus Metrics
//
// NewMetrics registers the collectors on a registry and Handler records,
// per chi route pattern:
//   - pagefx_http_requests_total: requests by route, method and status
//   - pagefx_http_request_duration_seconds: latency histogram
//   - pagefx_http_requests_in_flight: requests currently being served
//
// The server records domain events through the same value:
//   - pagefx_toast_broadcasts_total and pagefx_toast_deliveries_total
//   - pagefx_pref_writes_total by operation and result
//   - pagefx_toast_clients: connected toast sockets
//   - pagefx_contact_submissions_total by result
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Tracing
//
// Tracing starts a server span per request, named after the route
// pattern, continuing any trace carried in the request headers:
//
//	r.Use(middleware.Tracing(middleware.WithFilter(func(r *http.Request) bool {
//	    return r.URL.Path != "/healthz"
//	})))
//
// Handlers reach the span with trace.SpanFromContext(r.Context()).
package middleware
