package reports

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// replayAdapter returns a canned result and records the last query.
type replayAdapter struct {
	dbType   adapter.DatabaseType
	result   *adapter.Result
	err      error
	lastOpts adapter.QueryOptions
}

func (r *replayAdapter) Type() adapter.DatabaseType { return r.dbType }
func (r *replayAdapter) Config() adapter.ConnectionConfig { return adapter.ConnectionConfig{} }
func (r *replayAdapter) Connect(context.Context) error { return nil }
func (r *replayAdapter) Disconnect(context.Context) error { return nil }
func (r *replayAdapter) IsConnected(context.Context) bool { return true }
func (r *replayAdapter) Client() interface{} { return nil }

func (r *replayAdapter) Query(_ context.Context, opts adapter.QueryOptions) (*adapter.Result, error) {
	r.lastOpts = opts
	return r.result, r.err
}

func (r *replayAdapter) Execute(context.Context, string, ...interface{}) (interface{}, error) {
	return nil, nil
}

// routingQuerier hands out one adapter per database type.
type routingQuerier struct {
	adapters map[adapter.DatabaseType]adapter.Adapter
	err      error
}

func (q *routingQuerier) GetDatabase(_ context.Context, dbType adapter.DatabaseType) (adapter.Adapter, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.adapters[dbType], nil
}

func serviceWith(adapters map[adapter.DatabaseType]adapter.Adapter) *Service {
	return NewService(&routingQuerier{adapters: adapters}, nil, zerolog.Nop())
}

func testPeriod() Period {
	return Period{
		From:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Branch: "01",
	}
}

func TestSalesSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes totals", func(t *testing.T) {
		ch := &replayAdapter{
			dbType: adapter.ClickHouse,
			result: &adapter.Result{
				Data: []map[string]interface{}{{
					"total_amount": "125000.50",
					"total_qty":    420.0,
					"bill_count":   int64(87),
					"avg_per_bill": 1436.78,
				}},
				Rows: 1,
			},
		}
		svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.ClickHouse: ch})

		out, err := svc.SalesSummary(ctx, testPeriod())
		require.NoError(t, err)

		assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("125000.50")))
		assert.Equal(t, int64(87), out.BillCount)
		assert.Equal(t, []interface{}{transFlagSale, "2026-08-01", "2026-08-28", "01", "01"},
			ch.lastOpts.Params)
	})

	t.Run("empty result yields zero summary", func(t *testing.T) {
		ch := &replayAdapter{dbType: adapter.ClickHouse, result: &adapter.Result{}}
		svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.ClickHouse: ch})

		out, err := svc.SalesSummary(ctx, testPeriod())
		require.NoError(t, err)
		assert.True(t, out.TotalAmount.IsZero())
		assert.Zero(t, out.BillCount)
	})

	t.Run("unavailable database surfaces", func(t *testing.T) {
		svc := NewService(&routingQuerier{err: adapter.NewNotConnectedError(adapter.ClickHouse, "query")}, nil, zerolog.Nop())

		_, err := svc.SalesSummary(ctx, testPeriod())
		assert.True(t, adapter.IsNotConnected(err))
	})
}

func TestDailySales(t *testing.T) {
	ch := &replayAdapter{
		dbType: adapter.ClickHouse,
		result: &adapter.Result{
			Data: []map[string]interface{}{
				{"date": "2026-08-01", "amount": 1000.0, "bill_count": int64(4)},
				{"date": "2026-08-02", "amount": 2500.5, "bill_count": int64(9)},
			},
			Rows: 2,
		},
	}
	svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.ClickHouse: ch})

	out, err := svc.DailySales(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2026-08-01", out[0].Date)
	assert.True(t, out[1].Amount.Equal(decimal.RequireFromString("2500.5")))
}

func TestTopProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive limit", func(t *testing.T) {
		svc := serviceWith(nil)
		_, err := svc.TopProducts(ctx, testPeriod(), 0)
		assert.Error(t, err)
	})

	t.Run("passes limit through", func(t *testing.T) {
		ch := &replayAdapter{dbType: adapter.ClickHouse, result: &adapter.Result{}}
		svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.ClickHouse: ch})

		_, err := svc.TopProducts(ctx, testPeriod(), 15)
		require.NoError(t, err)
		require.NotEmpty(t, ch.lastOpts.Params)
		assert.Equal(t, 15, ch.lastOpts.Params[len(ch.lastOpts.Params)-1])
	})
}

func TestTables(t *testing.T) {
	ch := &replayAdapter{
		dbType: adapter.ClickHouse,
		result: &adapter.Result{
			Data: []map[string]interface{}{{"name": "ic_trans"}, {"name": "ic_trans_detail"}},
			Rows: 2,
		},
	}
	svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.ClickHouse: ch})

	tables, err := svc.Tables(context.Background(), adapter.ClickHouse)
	require.NoError(t, err)
	assert.Equal(t, []string{"ic_trans", "ic_trans_detail"}, tables)
}

func TestReceivableAgingRouting(t *testing.T) {
	pg := &replayAdapter{
		dbType: adapter.PostgreSQL,
		result: &adapter.Result{
			Data: []map[string]interface{}{{
				"code":    "C0001",
				"name":    "ลูกค้าทั่วไป",
				"current": 1000.0,
				"days_30": 500.0,
				"days_60": 0.0,
				"days_90": 0.0,
				"over_90": 250.0,
				"balance": 1750.0,
			}},
			Rows: 1,
		},
	}
	svc := serviceWith(map[adapter.DatabaseType]adapter.Adapter{adapter.PostgreSQL: pg})

	out, err := svc.ReceivableAging(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "C0001", out[0].Code)
	assert.True(t, out[0].Balance.Equal(decimal.RequireFromString("1750")))
	// The default limit applies when the caller passes zero.
	assert.Equal(t, []interface{}{500}, pg.lastOpts.Params)
}
