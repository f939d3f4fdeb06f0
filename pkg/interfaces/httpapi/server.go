// Package httpapi serves the planning calculators as a JSON API for the
// dashboards.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sportsprod/erp/pkg/application/services"
	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/infrastructure/events"
)

// Server routes API requests to the planning service
type Server struct {
	service   *services.PlanningService
	marketing repositories.MarketingRepository
	alerts    *events.AlertLog
	limiter   *rate.Limiter
	logger    logrus.FieldLogger
	router    *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithMarketingData serves GET /api/marketing/cac from stored records
func WithMarketingData(repo repositories.MarketingRepository) Option {
	return func(s *Server) {
		s.marketing = repo
	}
}

// WithAlertLog serves GET /api/alerts from the log
func WithAlertLog(log *events.AlertLog) Option {
	return func(s *Server) {
		s.alerts = log
	}
}

// WithRateLimit caps API requests at r per second with the given burst
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// NewServer creates a server and registers every route
func NewServer(service *services.PlanningService, logger logrus.FieldLogger, opts ...Option) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	if s.limiter != nil {
		api.Use(RateLimitMiddleware(s.limiter))
	}

	api.HandleFunc("/scenarios", s.ListScenarios).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", s.SaveScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/compare", s.CompareScenarios).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/{name}/report", s.ScenarioReport).Methods(http.MethodGet)

	api.HandleFunc("/cost", s.Cost).Methods(http.MethodPost)
	api.HandleFunc("/cogs", s.COGS).Methods(http.MethodPost)
	api.HandleFunc("/inventory", s.Inventory).Methods(http.MethodPost)
	api.HandleFunc("/marketing/cac", s.StoredMarketing).Methods(http.MethodGet)
	api.HandleFunc("/marketing/cac", s.Marketing).Methods(http.MethodPost)
	api.HandleFunc("/deposit", s.Deposit).Methods(http.MethodPost)
	api.HandleFunc("/deposit/sensitivity", s.DepositSensitivity).Methods(http.MethodPost)
	api.HandleFunc("/raise", s.Raise).Methods(http.MethodPost)
	api.HandleFunc("/tooling", s.Tooling).Methods(http.MethodPost)
	api.HandleFunc("/alerts", s.Alerts).Methods(http.MethodGet)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
