// Package server exposes dashboards and exports over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockDash/internal/config"
	"StockDash/internal/dashboard"
	"StockDash/internal/metrics"
)

type ctxKey struct{}

// Server is the dashboard HTTP server.
type Server struct {
	router    *mux.Router
	server    *http.Server
	builder   *dashboard.Builder
	metrics   *metrics.Metrics
	ticker    string
	watchlist []string
}

// New creates a Server listening on cfg.Server.Addr.
func New(cfg *config.Config, b *dashboard.Builder, m *metrics.Metrics) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		builder:   b,
		metrics:   m,
		ticker:    cfg.Defaults.Ticker,
		watchlist: cfg.Watchlist,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/watchlist", s.handleWatchlist).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/{ticker}", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/export/{ticker}.{format:csv|xlsx}", s.handleExport).Methods(http.MethodGet)

	// Router middleware does not wrap the not-found handler.
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "the requested endpoint does not exist")
	})
	s.router.NotFoundHandler = s.requestIDMiddleware(s.requestLoggingMiddleware(notFound))
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}

// requestIDMiddleware tags every request with an ID and a request-scoped logger.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		logger := log.With().Str("request_id", id).Logger()
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("took", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(ctxKey{}).(string); ok {
		return id
	}
	return "unknown"
}

// responseWrapper captures the status code for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
