package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "pagefx"

// TracingConfig configures Tracing.
type TracingConfig struct {
	// TracerName names the tracer (default "pagefx").
	TracerName string

	// Provider supplies the tracer. Nil uses the global provider.
	Provider trace.TracerProvider

	// Propagator extracts incoming trace context. Nil uses the global
	// propagator.
	Propagator propagation.TextMapPropagator

	// Filter reports whether to trace a request. Nil traces everything.
	Filter func(r *http.Request) bool

	// Attributes adds custom attributes to each span.
	Attributes func(r *http.Request) []attribute.KeyValue
}

// TracingOption configures Tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithPropagator sets the propagator for incoming headers.
func WithPropagator(p propagation.TextMapPropagator) TracingOption {
	return func(c *TracingConfig) {
		c.Propagator = p
	}
}

// WithFilter skips requests for which fn returns false.
func WithFilter(fn func(r *http.Request) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = fn
	}
}

// WithAttributes adds per-request span attributes.
func WithAttributes(fn func(r *http.Request) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = fn
	}
}

// Tracing wraps each request in a server span. The span is renamed to
// "METHOD pattern" once chi has matched the route; 5xx responses mark it
// as an error.
func Tracing(opts ...TracingOption) func(http.Handler) http.Handler {
	cfg := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Provider == nil {
		cfg.Provider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Filter != nil && !cfg.Filter(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := cfg.Propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			}
			if cfg.Attributes != nil {
				attrs = append(attrs, cfg.Attributes(r)...)
			}
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName(r.Method + " " + route)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}
