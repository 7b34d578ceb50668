// Package clickhouse implements the adapter contract for ClickHouse,
// the column store holding the dashboard's sales and inventory facts.
package clickhouse

import (
	"context"
	"crypto/tls"
	"reflect"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const (
	defaultDialTimeout  = 10 * time.Second
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
)

// Adapter implements adapter.Adapter for ClickHouse. It owns at most one
// native driver connection; conn is nil while disconnected.
type Adapter struct {
	cfg adapter.ConnectionConfig
	log zerolog.Logger

	mu   sync.Mutex
	conn chdriver.Conn
}

// New constructs a disconnected ClickHouse adapter.
func New(cfg adapter.ConnectionConfig, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: log.With().Str("component", "clickhouse").Str("addr", cfg.Addr()).Logger(),
	}
}

// Factory adapts New to the registry's factory signature.
func Factory(log zerolog.Logger) adapter.Factory {
	return func(cfg adapter.ConnectionConfig) adapter.Adapter {
		return New(cfg, log)
	}
}

// Type returns the database type tag.
func (a *Adapter) Type() adapter.DatabaseType {
	return adapter.ClickHouse
}

// Config returns the configuration the adapter was constructed from.
func (a *Adapter) Config() adapter.ConnectionConfig {
	return a.cfg
}

// options builds the native client options from the adapter config.
func (a *Adapter) options() *clickhouse.Options {
	dialTimeout := a.cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	maxOpen := int(a.cfg.MaxConns)
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := maxOpen / 2
	if maxIdle < 1 {
		maxIdle = defaultMaxIdleConns
	}

	opts := &clickhouse.Options{
		Addr: []string{a.cfg.Addr()},
		Auth: clickhouse.Auth{
			Database: a.cfg.DatabaseName,
			Username: a.cfg.Username,
			Password: a.cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     dialTimeout,
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Hour,
	}

	if a.cfg.SSL {
		opts.TLS = &tls.Config{}
	}

	return opts
}

// Connect opens the native connection and verifies reachability with a
// ping. Idempotent; on failure the handle is discarded and the adapter
// stays disconnected.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return nil
	}

	conn, err := clickhouse.Open(a.options())
	if err != nil {
		return adapter.NewConnectionError(adapter.ClickHouse, a.cfg.Addr(), err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return adapter.NewConnectionError(adapter.ClickHouse, a.cfg.Addr(), err)
	}

	a.conn = conn
	a.log.Info().Str("database", a.cfg.DatabaseName).Msg("connected to ClickHouse")
	return nil
}

// Disconnect closes the native connection. A no-op when already
// disconnected.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}

	err := a.conn.Close()
	a.conn = nil
	if err != nil {
		return err
	}
	a.log.Info().Msg("disconnected from ClickHouse")
	return nil
}

// IsConnected probes the store with a fresh ping. Probe errors collapse
// to false.
func (a *Adapter) IsConnected(ctx context.Context) bool {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return false
	}
	return conn.Ping(ctx) == nil
}

// client returns the current handle, or a NotConnectedError.
func (a *Adapter) client(operation string) (chdriver.Conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil, adapter.NewNotConnectedError(adapter.ClickHouse, operation)
	}
	return a.conn, nil
}

// Query executes a read query and scans every row into a column-keyed
// map, normalizing the driver's result wrapper into the uniform shape.
func (a *Adapter) Query(ctx context.Context, opts adapter.QueryOptions) (*adapter.Result, error) {
	conn, err := a.client("query")
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, opts.Query, opts.Params...)
	if err != nil {
		a.log.Error().Err(err).Str("query", opts.Query).Msg("ClickHouse query failed")
		return nil, adapter.WrapQueryError(adapter.ClickHouse, opts.Query, err)
	}
	defer rows.Close()

	columnTypes := rows.ColumnTypes()
	columns := make([]string, len(columnTypes))
	for i, colType := range columnTypes {
		columns[i] = colType.Name()
	}

	data := make([]map[string]interface{}, 0)
	for rows.Next() {
		// The driver requires exactly typed scan destinations, so fresh
		// targets are allocated per row from each column's ScanType.
		scanTargets := make([]interface{}, len(columnTypes))
		for i, colType := range columnTypes {
			scanTargets[i] = reflect.New(colType.ScanType()).Interface()
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, adapter.WrapQueryError(adapter.ClickHouse, opts.Query, err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = reflect.ValueOf(scanTargets[i]).Elem().Interface()
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, adapter.WrapQueryError(adapter.ClickHouse, opts.Query, err)
	}

	return &adapter.Result{
		Data: data,
		Rows: int64(len(data)),
		Meta: adapter.ResultMeta{Columns: columns},
	}, nil
}

// Execute runs a statement for its side effects. ClickHouse's Exec
// carries no result payload, so the native result is nil.
func (a *Adapter) Execute(ctx context.Context, query string, params ...interface{}) (interface{}, error) {
	conn, err := a.client("execute")
	if err != nil {
		return nil, err
	}

	if err := conn.Exec(ctx, query, params...); err != nil {
		a.log.Error().Err(err).Str("query", query).Msg("ClickHouse execute failed")
		return nil, adapter.WrapQueryError(adapter.ClickHouse, query, err)
	}
	return nil, nil
}

// Client returns the native driver connection, or nil while disconnected.
func (a *Adapter) Client() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	return a.conn
}
