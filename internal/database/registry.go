package database

import (
	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/database/clickhouse"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/database/postgres"
	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// DefaultRegistry returns a registry with every supported store's
// adapter factory registered.
func DefaultRegistry(log zerolog.Logger) *adapter.Registry {
	r := adapter.NewRegistry()
	r.Register(adapter.ClickHouse, clickhouse.Factory(log))
	r.Register(adapter.PostgreSQL, postgres.Factory(log))
	return r
}
