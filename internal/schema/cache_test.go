package schema

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// countingAdapter serves a fixed table list and counts queries.
type countingAdapter struct {
	dbType  adapter.DatabaseType
	tables  []string
	queries int
}

func (c *countingAdapter) Type() adapter.DatabaseType { return c.dbType }
func (c *countingAdapter) Config() adapter.ConnectionConfig { return adapter.ConnectionConfig{} }
func (c *countingAdapter) Connect(context.Context) error { return nil }
func (c *countingAdapter) Disconnect(context.Context) error { return nil }
func (c *countingAdapter) IsConnected(context.Context) bool { return true }
func (c *countingAdapter) Client() interface{} { return nil }

func (c *countingAdapter) Query(context.Context, adapter.QueryOptions) (*adapter.Result, error) {
	c.queries++
	data := make([]map[string]interface{}, 0, len(c.tables))
	for _, name := range c.tables {
		data = append(data, map[string]interface{}{"name": name})
	}
	return &adapter.Result{Data: data, Rows: int64(len(data))}, nil
}

func (c *countingAdapter) Execute(context.Context, string, ...interface{}) (interface{}, error) {
	return nil, nil
}

func TestCacheTables(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from cache while fresh", func(t *testing.T) {
		adp := &countingAdapter{dbType: adapter.ClickHouse, tables: []string{"ic_trans", "ic_trans_detail"}}
		c := NewCache(time.Minute)

		first, err := c.Tables(ctx, adp)
		require.NoError(t, err)
		second, err := c.Tables(ctx, adp)
		require.NoError(t, err)

		assert.Equal(t, []string{"ic_trans", "ic_trans_detail"}, first)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, adp.queries)
	})

	t.Run("refetches after the ttl", func(t *testing.T) {
		adp := &countingAdapter{dbType: adapter.ClickHouse, tables: []string{"ic_trans"}}
		c := NewCache(time.Minute)

		clock := time.Now()
		c.now = func() time.Time { return clock }

		_, err := c.Tables(ctx, adp)
		require.NoError(t, err)

		clock = clock.Add(2 * time.Minute)
		_, err = c.Tables(ctx, adp)
		require.NoError(t, err)

		assert.Equal(t, 2, adp.queries)
	})

	t.Run("entries are independent per database type", func(t *testing.T) {
		ch := &countingAdapter{dbType: adapter.ClickHouse, tables: []string{"ic_trans"}}
		pg := &countingAdapter{dbType: adapter.PostgreSQL, tables: []string{"ar_trans"}}
		c := NewCache(time.Minute)

		chTables, err := c.Tables(ctx, ch)
		require.NoError(t, err)
		pgTables, err := c.Tables(ctx, pg)
		require.NoError(t, err)

		assert.Equal(t, []string{"ic_trans"}, chTables)
		assert.Equal(t, []string{"ar_trans"}, pgTables)
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		adp := &countingAdapter{dbType: adapter.PostgreSQL, tables: []string{"ar_trans"}}
		c := NewCache(time.Minute)

		_, err := c.Tables(ctx, adp)
		require.NoError(t, err)

		c.Invalidate(adapter.PostgreSQL)
		_, err = c.Tables(ctx, adp)
		require.NoError(t, err)

		assert.Equal(t, 2, adp.queries)
	})

	t.Run("invalidate without arguments clears everything", func(t *testing.T) {
		ch := &countingAdapter{dbType: adapter.ClickHouse, tables: []string{"ic_trans"}}
		pg := &countingAdapter{dbType: adapter.PostgreSQL, tables: []string{"ar_trans"}}
		c := NewCache(time.Minute)

		_, _ = c.Tables(ctx, ch)
		_, _ = c.Tables(ctx, pg)
		c.Invalidate()
		_, _ = c.Tables(ctx, ch)
		_, _ = c.Tables(ctx, pg)

		assert.Equal(t, 2, ch.queries)
		assert.Equal(t, 2, pg.queries)
	})
}
