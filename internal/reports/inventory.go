package reports

import (
	"context"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const stockBalanceQuery = `
SELECT
    b.item_code      AS item_code,
    any(b.item_name) AS item_name,
    b.wh_code        AS warehouse,
    sum(b.balance_qty)    AS qty,
    sum(b.balance_amount) AS amount
FROM ic_balance AS b
WHERE (? = '' OR b.wh_code = ?)
GROUP BY b.item_code, b.wh_code
HAVING qty != 0
ORDER BY b.item_code, b.wh_code
LIMIT ?`

// StockBalance returns the current on-hand position per item and
// warehouse. An empty warehouse returns all warehouses.
func (s *Service) StockBalance(ctx context.Context, warehouse string, limit int) ([]StockBalance, error) {
	if limit <= 0 {
		limit = 1000
	}
	res, err := s.query(ctx, adapter.ClickHouse, "stock_balance", adapter.QueryOptions{
		Query:  stockBalanceQuery,
		Params: []interface{}{warehouse, warehouse, limit},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[StockBalance](res)
}
