package adapter

import "context"

// Adapter is the capability contract every backing store must satisfy.
// An adapter is a stateful object wrapping exactly one native client or
// pool; it is constructed disconnected and transitions via Connect.
type Adapter interface {
	// Type returns the database type tag.
	Type() DatabaseType

	// Config returns the configuration the adapter was constructed from.
	Config() ConnectionConfig

	// Connect establishes the native client/pool and performs one
	// lightweight round-trip to confirm reachability. Idempotent: a
	// second call on a connected adapter returns immediately. On failure
	// the adapter stays fully disconnected (no half-initialized handle).
	Connect(ctx context.Context) error

	// Disconnect releases the native client/pool. Idempotent; a no-op
	// when already disconnected.
	Disconnect(ctx context.Context) error

	// IsConnected performs a fresh liveness probe against the store.
	// Probe failures are reported as false, never as an error.
	IsConnected(ctx context.Context) bool

	// Query executes a read query and returns the uniform result shape.
	// Returns a NotConnectedError when the adapter is disconnected and a
	// QueryError when the store rejects the query.
	Query(ctx context.Context, opts QueryOptions) (*Result, error)

	// Execute runs a statement for its side effects and returns the
	// native result unmodified. Same preconditions as Query.
	Execute(ctx context.Context, query string, params ...interface{}) (interface{}, error)

	// Client returns the underlying native client/pool, or nil while
	// disconnected. Type assertion is required; use only for operations
	// the uniform surface does not cover.
	Client() interface{}
}

// Factory constructs a disconnected adapter from its configuration.
type Factory func(cfg ConnectionConfig) Adapter
