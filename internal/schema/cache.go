// Package schema memoizes table discovery per database type so the
// report endpoints do not hit system catalogs on every request.
package schema

import (
	"context"
	"sync"
	"time"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// DefaultTTL is how long a cached table list stays fresh.
const DefaultTTL = 5 * time.Minute

// discoveryQueries maps each store to its table listing query.
var discoveryQueries = map[adapter.DatabaseType]string{
	adapter.ClickHouse: `SELECT name FROM system.tables WHERE database = currentDatabase() ORDER BY name`,
	adapter.PostgreSQL: `SELECT tablename AS name FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`,
}

type entry struct {
	tables    []string
	fetchedAt time.Time
}

// Cache is a TTL-memoized table list per database type.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[adapter.DatabaseType]entry
}

// NewCache creates a cache with the given TTL; ttl <= 0 uses DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[adapter.DatabaseType]entry),
	}
}

// Tables returns the table names of the adapter's database, served from
// cache while fresh.
func (c *Cache) Tables(ctx context.Context, adp adapter.Adapter) ([]string, error) {
	dbType := adp.Type()

	c.mu.Lock()
	cached, ok := c.entries[dbType]
	c.mu.Unlock()
	if ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.tables, nil
	}

	query, ok := discoveryQueries[dbType]
	if !ok {
		return nil, adapter.NewConfigurationError(dbType, "", "no table discovery query for this store")
	}

	res, err := adp.Query(ctx, adapter.QueryOptions{Query: query})
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, len(res.Data))
	for _, row := range res.Data {
		if name, ok := row["name"].(string); ok {
			tables = append(tables, name)
		}
	}

	c.mu.Lock()
	c.entries[dbType] = entry{tables: tables, fetchedAt: c.now()}
	c.mu.Unlock()

	return tables, nil
}

// Invalidate drops the cached entry for a database type. With no
// argument every entry is dropped.
func (c *Cache) Invalidate(types ...adapter.DatabaseType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(types) == 0 {
		c.entries = make(map[adapter.DatabaseType]entry)
		return
	}
	for _, t := range types {
		delete(c.entries, t)
	}
}
