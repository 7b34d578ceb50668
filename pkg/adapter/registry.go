package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps database types to adapter factories. The connection
// manager consults it when turning loaded configuration into live
// adapters; tests register fakes here.
type Registry struct {
	factories map[DatabaseType]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[DatabaseType]Factory),
	}
}

// Register registers a factory for a database type, replacing any
// previous registration for the same type.
func (r *Registry) Register(dbType DatabaseType, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[dbType] = factory
}

// Get retrieves the factory for a database type.
func (r *Registry) Get(dbType DatabaseType) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[dbType]
	if !exists {
		return nil, fmt.Errorf("no adapter registered for database type %q", dbType)
	}
	return factory, nil
}

// IsRegistered checks whether a factory exists for the given type.
func (r *Registry) IsRegistered(dbType DatabaseType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[dbType]
	return exists
}

// ListRegistered returns all registered database types in stable order.
func (r *Registry) ListRegistered() []DatabaseType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]DatabaseType, 0, len(r.factories))
	for dbType := range r.factories {
		types = append(types, dbType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// New constructs a disconnected adapter for cfg using the registered
// factory for cfg.Type.
func (r *Registry) New(cfg ConnectionConfig) (Adapter, error) {
	factory, err := r.Get(cfg.Type)
	if err != nil {
		return nil, err
	}
	return factory(cfg), nil
}
