// Package database owns the lifecycle of the dashboard's backing store
// connections. A Manager lazily initializes one adapter per configured
// database type, serves them with a liveness check and reconnect on
// demand, and tears them all down on shutdown.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/config"
	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// Manager is the process-wide connection manager. It is constructed
// explicitly and passed down; "one manager per process" is an
// application convention, not a package-level singleton.
type Manager struct {
	databases *config.Databases
	registry  *adapter.Registry
	log       zerolog.Logger

	initGroup   singleflight.Group
	initialized atomic.Bool

	mu       sync.RWMutex
	adapters map[adapter.DatabaseType]adapter.Adapter
}

// NewManager creates a Manager for the loaded database selection.
// Adapters are not connected until the first access or an explicit
// Initialize call.
func NewManager(databases *config.Databases, registry *adapter.Registry, log zerolog.Logger) *Manager {
	return &Manager{
		databases: databases,
		registry:  registry,
		log:       log.With().Str("component", "database").Logger(),
		adapters:  make(map[adapter.DatabaseType]adapter.Adapter),
	}
}

// Initialize connects every configured database once. Concurrent callers
// share a single in-flight initialization; callers arriving later see
// the completed state and return immediately.
//
// A database that fails to connect is logged and skipped so that one
// unreachable store does not prevent the rest of the dashboard from
// starting. Initialize therefore only errors when initialization itself
// cannot run, never for per-database connection failures.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.initialized.Load() {
		return nil
	}

	_, err, _ := m.initGroup.Do("initialize", func() (interface{}, error) {
		if m.initialized.Load() {
			return nil, nil
		}
		m.initialize(ctx)
		m.initialized.Store(true)
		return nil, nil
	})
	return err
}

// initialize connects the configured databases sequentially in
// configuration order, keeping per-database failure attribution simple.
func (m *Manager) initialize(ctx context.Context) {
	for _, cfg := range m.databases.Configs {
		if err := cfg.Validate(); err != nil {
			m.log.Warn().Err(err).Str("database", cfg.Type.String()).
				Msg("skipping misconfigured database")
			continue
		}

		adp, err := m.registry.New(cfg)
		if err != nil {
			m.log.Warn().Err(err).Str("database", cfg.Type.String()).
				Msg("skipping database with no registered adapter")
			continue
		}

		if err := adp.Connect(ctx); err != nil {
			m.log.Error().Err(err).Str("database", cfg.Type.String()).
				Str("addr", cfg.Addr()).Msg("failed to connect database; continuing without it")
			continue
		}

		m.mu.Lock()
		m.adapters[cfg.Type] = adp
		m.mu.Unlock()

		m.log.Info().Str("database", cfg.Type.String()).Str("addr", cfg.Addr()).
			Msg("database connected")
	}
}

// GetDatabase returns the adapter for the given type, initializing the
// manager on first use. An empty type resolves to the primary database.
// The adapter has passed a liveness check in this call; a dead
// connection gets one transparent reconnect attempt before returning.
func (m *Manager) GetDatabase(ctx context.Context, dbType adapter.DatabaseType) (adapter.Adapter, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	if dbType == "" {
		dbType = m.databases.Primary
	}

	m.mu.RLock()
	adp, exists := m.adapters[dbType]
	m.mu.RUnlock()

	if !exists {
		return nil, adapter.NewConfigurationError(dbType, "",
			fmt.Sprintf("not available (available databases: %v)", m.AvailableDatabases()))
	}

	if !adp.IsConnected(ctx) {
		m.log.Warn().Str("database", dbType.String()).Msg("connection lost; reconnecting")
		if err := adp.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return adp, nil
}

// GetPrimaryDatabase returns the adapter for the primary database type.
func (m *Manager) GetPrimaryDatabase(ctx context.Context) (adapter.Adapter, error) {
	return m.GetDatabase(ctx, m.databases.Primary)
}

// GetSecondaryDatabase returns the adapter for the secondary database
// type, or (nil, nil) when no secondary was configured.
func (m *Manager) GetSecondaryDatabase(ctx context.Context) (adapter.Adapter, error) {
	if m.databases.Secondary == nil {
		return nil, nil
	}
	return m.GetDatabase(ctx, *m.databases.Secondary)
}

// IsAvailable reports whether an adapter is registered for the type.
// Pure introspection over the adapter map; no liveness probe.
func (m *Manager) IsAvailable(dbType adapter.DatabaseType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.adapters[dbType]
	return exists
}

// AvailableDatabases returns the types with a registered adapter, in
// stable order. No liveness probe.
func (m *Manager) AvailableDatabases() []adapter.DatabaseType {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]adapter.DatabaseType, 0, len(m.adapters))
	for _, t := range adapter.AllTypes {
		if _, exists := m.adapters[t]; exists {
			types = append(types, t)
		}
	}
	return types
}

// PrimaryType returns the configured primary database type.
func (m *Manager) PrimaryType() adapter.DatabaseType {
	return m.databases.Primary
}

// HealthCheck probes every registered adapter and returns a snapshot of
// type to liveness. Meant for readiness endpoints, not hot paths.
func (m *Manager) HealthCheck(ctx context.Context) map[adapter.DatabaseType]bool {
	m.mu.RLock()
	adapters := make(map[adapter.DatabaseType]adapter.Adapter, len(m.adapters))
	for t, adp := range m.adapters {
		adapters[t] = adp
	}
	m.mu.RUnlock()

	health := make(map[adapter.DatabaseType]bool, len(adapters))
	for t, adp := range adapters {
		health[t] = adp.IsConnected(ctx)
	}
	return health
}

// CloseAll disconnects every registered adapter, tolerating individual
// failures so one stuck adapter does not block the rest, clears the
// adapter map and resets the manager so a later access reinitializes
// from scratch.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	adapters := m.adapters
	m.adapters = make(map[adapter.DatabaseType]adapter.Adapter)
	m.mu.Unlock()

	m.initialized.Store(false)

	var errs []error
	for t, adp := range adapters {
		if err := adp.Disconnect(ctx); err != nil {
			m.log.Error().Err(err).Str("database", t.String()).Msg("failed to disconnect database")
			errs = append(errs, fmt.Errorf("disconnect %s: %w", t, err))
			continue
		}
		m.log.Info().Str("database", t.String()).Msg("database disconnected")
	}
	return errors.Join(errs...)
}
