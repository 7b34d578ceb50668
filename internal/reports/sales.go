package reports

import (
	"context"
	"fmt"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const salesSummaryQuery = `
SELECT
    sum(total_amount)                        AS total_amount,
    sum(total_qty)                           AS total_qty,
    count()                                  AS bill_count,
    if(count() = 0, 0, sum(total_amount) / count()) AS avg_per_bill
FROM ic_trans
WHERE trans_flag = ?
  AND doc_date BETWEEN ? AND ?
  AND (? = '' OR branch_code = ?)`

const dailySalesQuery = `
SELECT
    toString(doc_date)  AS date,
    sum(total_amount)   AS amount,
    count()             AS bill_count
FROM ic_trans
WHERE trans_flag = ?
  AND doc_date BETWEEN ? AND ?
  AND (? = '' OR branch_code = ?)
GROUP BY doc_date
ORDER BY doc_date`

const topProductsQuery = `
SELECT
    d.item_code         AS item_code,
    any(d.item_name)    AS item_name,
    sum(d.qty)          AS qty,
    sum(d.sum_amount)   AS amount
FROM ic_trans_detail AS d
WHERE d.trans_flag = ?
  AND d.doc_date BETWEEN ? AND ?
  AND (? = '' OR d.branch_code = ?)
GROUP BY d.item_code
ORDER BY amount DESC
LIMIT ?`

const branchRankingQuery = `
SELECT
    branch_code         AS branch_code,
    any(branch_name)    AS branch_name,
    sum(total_amount)   AS amount,
    count()             AS bill_count
FROM ic_trans
WHERE trans_flag = ?
  AND doc_date BETWEEN ? AND ?
GROUP BY branch_code
ORDER BY amount DESC`

// SalesSummary returns the period totals for sale documents.
func (s *Service) SalesSummary(ctx context.Context, p Period) (*SalesSummary, error) {
	res, err := s.query(ctx, adapter.ClickHouse, "sales_summary", adapter.QueryOptions{
		Query:  salesSummaryQuery,
		Params: []interface{}{transFlagSale, p.FromDate(), p.ToDate(), p.Branch, p.Branch},
	})
	if err != nil {
		return nil, err
	}

	rows, err := adapter.DecodeRows[SalesSummary](res)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &SalesSummary{}, nil
	}
	return &rows[0], nil
}

// DailySales returns the per-day sales series for the period.
func (s *Service) DailySales(ctx context.Context, p Period) ([]DailySales, error) {
	res, err := s.query(ctx, adapter.ClickHouse, "daily_sales", adapter.QueryOptions{
		Query:  dailySalesQuery,
		Params: []interface{}{transFlagSale, p.FromDate(), p.ToDate(), p.Branch, p.Branch},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[DailySales](res)
}

// TopProducts returns the best selling items of the period.
func (s *Service) TopProducts(ctx context.Context, p Period, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	res, err := s.query(ctx, adapter.ClickHouse, "top_products", adapter.QueryOptions{
		Query:  topProductsQuery,
		Params: []interface{}{transFlagSale, p.FromDate(), p.ToDate(), p.Branch, p.Branch, limit},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[ProductSales](res)
}

// BranchRanking ranks all branches by sales amount over the period. The
// branch filter of the period is ignored here.
func (s *Service) BranchRanking(ctx context.Context, p Period) ([]BranchSales, error) {
	res, err := s.query(ctx, adapter.ClickHouse, "branch_ranking", adapter.QueryOptions{
		Query:  branchRankingQuery,
		Params: []interface{}{transFlagSale, p.FromDate(), p.ToDate()},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[BranchSales](res)
}
