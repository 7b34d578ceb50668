package reports

import (
	"context"

	"github.com/smlsoft/seaandhilldashboard-sub000/pkg/adapter"
)

// The ledgers live in PostgreSQL, so these templates use the pgx
// positional placeholder style.

const receivableAgingQuery = `
SELECT
    t.cust_code AS code,
    max(c.name_1) AS name,
    sum(CASE WHEN now()::date - t.due_date <= 0  THEN t.balance_amount ELSE 0 END) AS current,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 1  AND 30 THEN t.balance_amount ELSE 0 END) AS days_30,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 31 AND 60 THEN t.balance_amount ELSE 0 END) AS days_60,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 61 AND 90 THEN t.balance_amount ELSE 0 END) AS days_90,
    sum(CASE WHEN now()::date - t.due_date > 90  THEN t.balance_amount ELSE 0 END) AS over_90,
    sum(t.balance_amount) AS balance
FROM ar_trans t
JOIN ar_customer c ON c.code = t.cust_code
WHERE t.balance_amount <> 0
GROUP BY t.cust_code
ORDER BY balance DESC
LIMIT $1`

const payableAgingQuery = `
SELECT
    t.supplier_code AS code,
    max(s.name_1) AS name,
    sum(CASE WHEN now()::date - t.due_date <= 0  THEN t.balance_amount ELSE 0 END) AS current,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 1  AND 30 THEN t.balance_amount ELSE 0 END) AS days_30,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 31 AND 60 THEN t.balance_amount ELSE 0 END) AS days_60,
    sum(CASE WHEN now()::date - t.due_date BETWEEN 61 AND 90 THEN t.balance_amount ELSE 0 END) AS days_90,
    sum(CASE WHEN now()::date - t.due_date > 90  THEN t.balance_amount ELSE 0 END) AS over_90,
    sum(t.balance_amount) AS balance
FROM ap_trans t
JOIN ap_supplier s ON s.code = t.supplier_code
WHERE t.balance_amount <> 0
GROUP BY t.supplier_code
ORDER BY balance DESC
LIMIT $1`

// ReceivableAging buckets outstanding customer balances by days overdue.
func (s *Service) ReceivableAging(ctx context.Context, limit int) ([]AgingRow, error) {
	if limit <= 0 {
		limit = 500
	}
	res, err := s.query(ctx, adapter.PostgreSQL, "receivable_aging", adapter.QueryOptions{
		Query:  receivableAgingQuery,
		Params: []interface{}{limit},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[AgingRow](res)
}

// PayableAging buckets outstanding supplier balances by days overdue.
func (s *Service) PayableAging(ctx context.Context, limit int) ([]AgingRow, error) {
	if limit <= 0 {
		limit = 500
	}
	res, err := s.query(ctx, adapter.PostgreSQL, "payable_aging", adapter.QueryOptions{
		Query:  payableAgingQuery,
		Params: []interface{}{limit},
	})
	if err != nil {
		return nil, err
	}
	return adapter.DecodeRows[AgingRow](res)
}
