// Package server exposes the dashboard reports over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/config"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/metrics"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/reports"
	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// DatabaseStatus is the slice of the connection manager the server needs
// for the health and catalog endpoints.
type DatabaseStatus interface {
	HealthCheck(ctx context.Context) map[adapter.DatabaseType]bool
	AvailableDatabases() []adapter.DatabaseType
	PrimaryType() adapter.DatabaseType
}

// ReportService is implemented by *reports.Service.
type ReportService interface {
	SalesSummary(ctx context.Context, p reports.Period) (*reports.SalesSummary, error)
	DailySales(ctx context.Context, p reports.Period) ([]reports.DailySales, error)
	TopProducts(ctx context.Context, p reports.Period, limit int) ([]reports.ProductSales, error)
	BranchRanking(ctx context.Context, p reports.Period) ([]reports.BranchSales, error)
	PurchaseSummary(ctx context.Context, p reports.Period) (*reports.PurchaseSummary, error)
	StockBalance(ctx context.Context, warehouse string, limit int) ([]reports.StockBalance, error)
	ReceivableAging(ctx context.Context, limit int) ([]reports.AgingRow, error)
	PayableAging(ctx context.Context, limit int) ([]reports.AgingRow, error)
	Tables(ctx context.Context, dbType adapter.DatabaseType) ([]string, error)
}

// Server wires the router and the underlying http.Server.
type Server struct {
	http    *http.Server
	log     zerolog.Logger
	status  DatabaseStatus
	reports ReportService
	metrics *metrics.Metrics
}

// New builds the server. metrics may be nil, in which case the /metrics
// endpoint is not mounted.
func New(cfg config.ServerConfig, status DatabaseStatus, svc ReportService, m *metrics.Metrics, log zerolog.Logger) *Server {
	s := &Server{
		log:     log.With().Str("component", "server").Logger(),
		status:  status,
		reports: svc,
		metrics: m,
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router builds the route tree. Exposed separately so tests can drive it
// through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/databases", s.handleDatabases)
		r.Get("/schema/tables", s.handleTables)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales/summary", s.handleSalesSummary)
			r.Get("/sales/daily", s.handleDailySales)
			r.Get("/sales/top-products", s.handleTopProducts)
			r.Get("/sales/branches", s.handleBranchRanking)
			r.Get("/purchasing/summary", s.handlePurchaseSummary)
			r.Get("/inventory/balance", s.handleStockBalance)
			r.Get("/accounts/receivable-aging", s.handleReceivableAging)
			r.Get("/accounts/payable-aging", s.handlePayableAging)
		})
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Str("request_id", RequestID(r.Context())).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
