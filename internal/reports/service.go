// Package reports implements the dashboard's data-access modules. Each
// report sends a raw SQL template through the adapter layer, decodes the
// uniform result into typed rows and returns pre-aggregated JSON-ready
// values to the HTTP handlers. Sales, purchasing and inventory facts
// live in ClickHouse; the receivable/payable ledgers live in PostgreSQL.
package reports

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/metrics"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/schema"
	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// Transaction flags in ic_trans, carried over from the POS schema.
const (
	transFlagSale     = 44
	transFlagPurchase = 12
)

// Querier is the slice of the connection manager the reports need.
type Querier interface {
	GetDatabase(ctx context.Context, dbType adapter.DatabaseType) (adapter.Adapter, error)
}

// Service executes the report queries.
type Service struct {
	db      Querier
	metrics *metrics.Metrics
	schema  *schema.Cache
	log     zerolog.Logger
}

// NewService creates the report service. metrics may be nil in tests.
func NewService(db Querier, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		db:      db,
		metrics: m,
		schema:  schema.NewCache(schema.DefaultTTL),
		log:     log.With().Str("component", "reports").Logger(),
	}
}

// Tables lists the table names of one store, memoized by the schema
// cache so the catalog endpoint stays off the system tables.
func (s *Service) Tables(ctx context.Context, dbType adapter.DatabaseType) ([]string, error) {
	adp, err := s.db.GetDatabase(ctx, dbType)
	if err != nil {
		return nil, err
	}
	return s.schema.Tables(ctx, adp)
}

// Period bounds a report to a date range and optionally one branch.
type Period struct {
	From   time.Time
	To     time.Time
	Branch string
}

// FromDate returns the inclusive lower bound formatted for SQL.
func (p Period) FromDate() string {
	return p.From.Format("2006-01-02")
}

// ToDate returns the inclusive upper bound formatted for SQL.
func (p Period) ToDate() string {
	return p.To.Format("2006-01-02")
}

// query runs one report query against the given store and records the
// observation.
func (s *Service) query(ctx context.Context, dbType adapter.DatabaseType, report string, opts adapter.QueryOptions) (*adapter.Result, error) {
	adp, err := s.db.GetDatabase(ctx, dbType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := adp.Query(ctx, opts)
	if s.metrics != nil {
		s.metrics.ObserveQuery(dbType.String(), report, time.Since(start), err)
	}
	if err != nil {
		s.log.Error().Err(err).Str("report", report).Msg("report query failed")
		return nil, err
	}
	return res, nil
}
