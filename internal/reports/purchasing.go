package reports

import (
	"context"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

const purchaseSummaryQuery = `
SELECT
    sum(total_amount) AS total_amount,
    count()           AS bill_count
FROM ic_trans
WHERE trans_flag = ?
  AND doc_date BETWEEN ? AND ?
  AND (? = '' OR branch_code = ?)`

// PurchaseSummary returns the period totals for purchase documents.
func (s *Service) PurchaseSummary(ctx context.Context, p Period) (*PurchaseSummary, error) {
	res, err := s.query(ctx, adapter.ClickHouse, "purchase_summary", adapter.QueryOptions{
		Query:  purchaseSummaryQuery,
		Params: []interface{}{transFlagPurchase, p.FromDate(), p.ToDate(), p.Branch, p.Branch},
	})
	if err != nil {
		return nil, err
	}

	rows, err := adapter.DecodeRows[PurchaseSummary](res)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &PurchaseSummary{}, nil
	}
	return &rows[0], nil
}
