// Package postgres implements the adapter contract for PostgreSQL, the
// row store holding the dashboard's accounting ledgers (receivables,
// payables, branch master data).
package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const defaultMaxConns = 10

// Adapter implements adapter.Adapter for PostgreSQL. It owns at most one
// pgx pool; pool is nil while disconnected.
type Adapter struct {
	cfg adapter.ConnectionConfig
	log zerolog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New constructs a disconnected PostgreSQL adapter.
func New(cfg adapter.ConnectionConfig, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: log.With().Str("component", "postgres").Str("addr", cfg.Addr()).Logger(),
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
	return adapter.PostgreSQL
}

// Config returns the configuration the adapter was constructed from.
func (a *Adapter) Config() adapter.ConnectionConfig {
	return a.cfg
}

// connString builds the pool DSN from the adapter config.
func (a *Adapter) connString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "postgres://%s:%s@%s/%s",
		a.cfg.Username,
		a.cfg.Password,
		a.cfg.Addr(),
		a.cfg.DatabaseName)

	if a.cfg.SSL {
		sslMode := a.cfg.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		fmt.Fprintf(&b, "?sslmode=%s", sslMode)
	} else {
		b.WriteString("?sslmode=disable")
	}

	maxConns := a.cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	fmt.Fprintf(&b, "&pool_max_conns=%d", maxConns)

	return b.String()
}

// Connect creates the pgx pool and verifies reachability with a ping.
// Idempotent; on failure the pool is closed and the adapter stays
// disconnected.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, a.connString())
	if err != nil {
		return adapter.NewConnectionError(adapter.PostgreSQL, a.cfg.Addr(), err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return adapter.NewConnectionError(adapter.PostgreSQL, a.cfg.Addr(), err)
	}

	a.pool = pool
	a.log.Info().Str("database", a.cfg.DatabaseName).Msg("connected to PostgreSQL")
	return nil
}

// Disconnect closes the pool. A no-op when already disconnected.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil
	}

	a.pool.Close()
	a.pool = nil
	a.log.Info().Msg("disconnected from PostgreSQL")
	return nil
}

// IsConnected probes the store by acquiring and releasing a pooled
// connection via Ping. Probe errors collapse to false.
func (a *Adapter) IsConnected(ctx context.Context) bool {
	a.mu.Lock()
	pool := a.pool
	a.mu.Unlock()

	if pool == nil {
		return false
	}
	return pool.Ping(ctx) == nil
}

// client returns the current pool, or a NotConnectedError.
func (a *Adapter) client(operation string) (*pgxpool.Pool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil, adapter.NewNotConnectedError(adapter.PostgreSQL, operation)
	}
	return a.pool, nil
}

// Query executes a read query and scans every row into a column-keyed
// map, normalizing pgx row types into the uniform shape.
func (a *Adapter) Query(ctx context.Context, opts adapter.QueryOptions) (*adapter.Result, error) {
	pool, err := a.client("query")
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, opts.Query, opts.Params...)
	if err != nil {
		a.log.Error().Err(err).Str("query", opts.Query).Msg("PostgreSQL query failed")
		return nil, adapter.WrapQueryError(adapter.PostgreSQL, opts.Query, err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, desc := range fieldDescriptions {
		columns[i] = desc.Name
	}

	data := make([]map[string]interface{}, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, adapter.WrapQueryError(adapter.PostgreSQL, opts.Query, err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, adapter.WrapQueryError(adapter.PostgreSQL, opts.Query, err)
	}

	return &adapter.Result{
		Data: data,
		Rows: int64(len(data)),
		Meta: adapter.ResultMeta{Columns: columns},
	}, nil
}

// Execute runs a statement for its side effects and returns the native
// pgconn.CommandTag unmodified.
func (a *Adapter) Execute(ctx context.Context, query string, params ...interface{}) (interface{}, error) {
	pool, err := a.client("execute")
	if err != nil {
		return nil, err
	}

	tag, err := pool.Exec(ctx, query, params...)
	if err != nil {
		a.log.Error().Err(err).Str("query", query).Msg("PostgreSQL execute failed")
		return nil, adapter.WrapQueryError(adapter.PostgreSQL, query, err)
	}
	return tag, nil
}

// Client returns the native pgx pool, or nil while disconnected.
func (a *Adapter) Client() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil
	}
	return a.pool
}

// Transaction acquires one pooled connection, runs fn inside BEGIN/COMMIT
// and rolls back when fn returns an error or panics. The connection is
// released back to the pool on every exit path.
func (a *Adapter) Transaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	pool, err := a.client("transaction")
	if err != nil {
		return err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return adapter.WrapQueryError(adapter.PostgreSQL, "BEGIN", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return adapter.WrapQueryError(adapter.PostgreSQL, "BEGIN", err)
	}

	return runTx(ctx, tx, fn)
}

// runTx drives fn inside tx: commit on success, roll back exactly once
// when fn returns an error or panics (the panic is re-raised after the
// rollback).
func runTx(ctx context.Context, tx pgx.Tx, fn func(tx pgx.Tx) error) error {
	if err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback(ctx)
				panic(p)
			}
		}()
		return fn(tx)
	}(); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return adapter.WrapQueryError(adapter.PostgreSQL, "COMMIT", err)
	}
	return nil
}
