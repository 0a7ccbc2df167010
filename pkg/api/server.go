package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/observability/promhooks"
	"github.com/imfine/texwire/pkg/store"
)

// Server is the texwire HTTP API.
type Server struct {
	store      store.Provider
	logger     *log.Logger
	metrics    *promhooks.Registry
	classifier *channel.Classifier
	router     chi.Router

	locksMu sync.Mutex
	locks   map[string]*materialLock
}

// materialLock is a per-material mutex with the number of requests holding
// or waiting for it.
type materialLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics mounts the registry at /metrics.
func WithMetrics(r *promhooks.Registry) Option {
	return func(s *Server) { s.metrics = r }
}

// WithClassifier replaces the default filename classifier.
func WithClassifier(c *channel.Classifier) Option {
	return func(s *Server) { s.classifier = c }
}

// New creates a server over p.
func New(p store.Provider, opts ...Option) *Server {
	s := &Server{
		store:      p,
		logger:     log.New(io.Discard),
		classifier: channel.Default,
		locks:      make(map[string]*materialLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Get("/materials", s.handleListMaterials)
		r.Route("/materials/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetMaterial)
			r.Put("/", s.handlePutMaterial)
			r.Get("/trace", s.handleTrace)
			r.Get("/render", s.handleRender)
			r.Post("/setup", s.handleSetup)
			r.Post("/transform", s.handleTransform)
		})
	})
	return r
}

// lock serializes edits of one material. The entry is dropped once no
// request holds or waits for it.
func (s *Server) lock(material string) func() {
	s.locksMu.Lock()
	m, ok := s.locks[material]
	if !ok {
		m = &materialLock{}
		s.locks[material] = m
	}
	m.refs++
	s.locksMu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		s.locksMu.Lock()
		if m.refs--; m.refs == 0 {
			delete(s.locks, material)
		}
		s.locksMu.Unlock()
	}
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", strconv.Itoa(status), "duration", d)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
