// Package adapter defines the unified contract for the dashboard's backing
// stores. Each database type (ClickHouse, PostgreSQL) provides an Adapter
// implementation that owns exactly one native client or pool and exposes a
// uniform query surface to the report modules.
//
// The package also carries the shared error taxonomy and the factory
// registry the connection manager uses to construct adapters from
// configuration.
package adapter
