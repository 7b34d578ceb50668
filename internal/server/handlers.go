package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/reports"
	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const dateLayout = "2006-01-02"

// periodFromRequest reads from/to/branch query parameters. When absent
// the period defaults to the current month to date.
func periodFromRequest(r *http.Request) (reports.Period, error) {
	now := time.Now()
	p := reports.Period{
		From:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:     now,
		Branch: r.URL.Query().Get("branch"),
	}

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return p, fmt.Errorf("invalid 'from' date %q, want YYYY-MM-DD", v)
		}
		p.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return p, fmt.Errorf("invalid 'to' date %q, want YYYY-MM-DD", v)
		}
		p.To = t
	}
	if p.To.Before(p.From) {
		return p, fmt.Errorf("'to' date %s is before 'from' date %s", p.To.Format(dateLayout), p.From.Format(dateLayout))
	}
	return p, nil
}

func limitFromRequest(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid 'limit' %q, want a positive integer", v)
	}
	return n, nil
}

type healthResponse struct {
	Status    string          `json:"status"`
	Primary   string          `json:"primary"`
	Databases map[string]bool `json:"databases"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := s.status.HealthCheck(r.Context())

	resp := healthResponse{
		Status:    "ok",
		Primary:   s.status.PrimaryType().String(),
		Databases: make(map[string]bool, len(checks)),
	}
	for dbType, up := range checks {
		resp.Databases[dbType.String()] = up
		if s.metrics != nil {
			s.metrics.SetDatabaseUp(dbType.String(), up)
		}
		if !up {
			resp.Status = "degraded"
		}
	}
	if !checks[s.status.PrimaryType()] {
		resp.Status = "unavailable"
	}

	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	s.respond(w, r, status, resp)
}

type databasesResponse struct {
	Primary   string   `json:"primary"`
	Available []string `json:"available"`
}

func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request) {
	available := s.status.AvailableDatabases()
	resp := databasesResponse{
		Primary:   s.status.PrimaryType().String(),
		Available: make([]string, 0, len(available)),
	}
	for _, dbType := range available {
		resp.Available = append(resp.Available, dbType.String())
	}
	s.respond(w, r, http.StatusOK, resp)
}

type tablesResponse struct {
	Database string   `json:"database"`
	Tables   []string `json:"tables"`
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	var dbType adapter.DatabaseType
	if v := r.URL.Query().Get("database"); v != "" {
		t, ok := adapter.ParseType(v)
		if !ok {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown database type %q", v))
			return
		}
		dbType = t
	} else {
		dbType = s.status.PrimaryType()
	}

	tables, err := s.reports.Tables(r.Context(), dbType)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, tablesResponse{Database: dbType.String(), Tables: tables})
}

func (s *Server) handleSalesSummary(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromRequest(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.SalesSummary(r.Context(), p)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleDailySales(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromRequest(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.DailySales(r.Context(), p)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromRequest(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := limitFromRequest(r, 20)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.TopProducts(r.Context(), p, limit)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleBranchRanking(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromRequest(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.BranchRanking(r.Context(), p)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handlePurchaseSummary(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromRequest(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.PurchaseSummary(r.Context(), p)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleStockBalance(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFromRequest(r, 1000)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.StockBalance(r.Context(), r.URL.Query().Get("warehouse"), limit)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleReceivableAging(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFromRequest(r, 500)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.ReceivableAging(r.Context(), limit)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handlePayableAging(w http.ResponseWriter, r *http.Request) {
	limit, err := limitFromRequest(r, 500)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.reports.PayableAging(r.Context(), limit)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, out)
}
