// Package httpapi exposes the ingest, search and answer services over a
// JSON HTTP API routed with chi.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/validation"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
)

// DefaultRequestTimeout bounds a request when Config leaves it unset.
const DefaultRequestTimeout = 60 * time.Second

// shutdownTimeout is how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 10 * time.Second

// StructValidator checks tagged request bodies.
type StructValidator interface {
	Struct(s any) error
}

// Metrics observes served requests and serves the exposition endpoint.
type Metrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

// Services groups the driving ports the API serves.
// Metrics is optional. A nil Validator uses validation.New.
type Services struct {
	Ingest    driving.IngestService
	Search    driving.SearchService
	Answer    driving.AnswerService
	Problems  driving.ProblemService
	Validator StructValidator
	Metrics   Metrics
}

// Config holds listener settings.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	CORSOrigins    []string

	// Retrieval fills n_results and similarity_threshold when a request omits them.
	Retrieval domain.RetrievalSettings
}

// Server is the HTTP API.
type Server struct {
	svc    Services
	cfg    Config
	log    *zap.Logger
	router chi.Router
}

// NewServer creates the server and builds its routes.
func NewServer(svc Services, cfg Config, log *zap.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	if svc.Validator == nil {
		svc.Validator = validation.New()
	}
	s := &Server{svc: svc, cfg: cfg, log: log}
	s.router = s.routes()
	return s
}

func (s *Server) withDefaults(o domain.SearchOptions) domain.SearchOptions {
	return o.WithDefaults(s.cfg.Retrieval.NResults, s.cfg.Retrieval.SimilarityThreshold)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	if s.svc.Metrics != nil {
		r.Use(instrument(s.svc.Metrics))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.svc.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/topics/ingest", s.handleIngestTopic)
		r.Post("/problems/ingest", s.handleIngestProblem)

		r.Route("/{partition}/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})

		r.Post("/search", s.handleSearch)
		r.Get("/search-simple", s.handleSearchSimple)
		r.Post("/ask", s.handleAsk)

		r.Get("/problems/search", s.handleSearchProblems)
		r.Get("/problems/{id}/hints", s.handleHints)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
