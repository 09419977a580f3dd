package server

import (
	"context"
	"crypto/subtle"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/internal/site"
	"github.com/vango-dev/pagefx/pkg/assets"
	"github.com/vango-dev/pagefx/pkg/middleware"
	"github.com/vango-dev/pagefx/pkg/pref"
	"github.com/vango-dev/pagefx/pkg/toast"
)

const (
	staticPrefix = "/static/"
	maxFormBytes = 64 << 10
	maxJSONBytes = 8 << 10
)

// Server is the pagefx HTTP server.
type Server struct {
	cfg      *config.Config
	store    pref.Store
	hub      *toast.Hub
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
	static   fs.FS
	manifest atomic.Pointer[assets.Manifest]
	limits   *limiters
	tracing  []middleware.TracingOption
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the preference store. Default: an in-memory store.
func WithStore(store pref.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the registry metrics are recorded in and /metrics
// serves. Default: a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithStaticFS serves /static from fsys instead of the configured dir.
func WithStaticFS(fsys fs.FS) Option {
	return func(s *Server) {
		s.static = fsys
	}
}

// WithTracing passes options to the tracing middleware.
func WithTracing(opts ...middleware.TracingOption) Option {
	return func(s *Server) {
		s.tracing = append(s.tracing, opts...)
	}
}

// New creates a server for cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = pref.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = middleware.NewMetrics(middleware.WithRegistry(s.registry))
	s.limits = newLimiters(cfg.Server.WriteRate, cfg.Server.WriteBurst)

	if s.static == nil {
		dir := cfg.StaticPath()
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			s.static = os.DirFS(dir)
		} else {
			s.logger.Warn("static dir missing; /static will 404",
				"code", errors.CodeStaticDirMissing, "dir", dir)
		}
	}
	if err := s.ReloadManifest(); err != nil {
		return nil, err
	}

	s.hub = toast.NewHub(
		toast.WithLogger(s.logger),
		toast.WithCheckOrigin(s.checkOrigin),
		toast.OnClientCount(s.metrics.SetToastClients),
	)
	s.router = s.routes()
	return s, nil
}

// ReloadManifest rereads the asset manifest from the static dir. Pages
// rendered afterwards reference the new bundle names.
func (s *Server) ReloadManifest() error {
	m := assets.NewManifest()
	if s.static != nil {
		loaded, err := assets.LoadManifest(s.static)
		if err != nil {
			return errors.New(errors.CodeConfigParse).
				WithDetail("Could not read " + assets.ManifestName + " in the static dir.").
				Wrap(err)
		}
		m = loaded
	}
	s.manifest.Store(m)
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.Handler)
	r.Use(middleware.Tracing(append([]middleware.TracingOption{
		middleware.WithFilter(traced),
	}, s.tracing...)...))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Method(http.MethodGet, "/ws/toast", s.hub)
	r.Get(site.StylesheetPath, s.handleStylesheet)
	r.Get(staticPrefix+"*", s.handleStatic)

	r.Group(func(r chi.Router) {
		r.Use(s.visitor)
		r.Get("/", s.handlePage)
		r.Post("/contact", s.handleContact)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPost},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.With(s.visitor).Get("/pref/{key}", s.handlePrefGet)
		r.With(s.visitor).Put("/pref/{key}", s.handlePrefPut)
		r.With(s.visitor).Delete("/pref/{key}", s.handlePrefDelete)
		if s.cfg.Server.AnnounceToken != "" {
			r.With(s.requireToken).Post("/announce", s.handleAnnounce)
		}
	})
	return r
}

// traced skips probes and scrapes.
func traced(r *http.Request) bool {
	return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the toast hub.
func (s *Server) Hub() *toast.Hub {
	return s.hub
}

// Registry returns the metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errors.New(errors.CodeListen).
			WithDetail("Could not listen on " + s.cfg.Address() + ".").
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown closes toast subscribers and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	_ = s.hub.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// checkOrigin accepts same-host origins and the configured CORS origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// requireToken guards a route with the announce bearer token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	want := []byte(s.cfg.Server.AnnounceToken)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
