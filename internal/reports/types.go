package reports

import "github.com/shopspring/decimal"

// SalesSummary totals the sale documents in a period.
type SalesSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalQty    decimal.Decimal `json:"total_qty"`
	BillCount   int64           `json:"bill_count"`
	AvgPerBill  decimal.Decimal `json:"avg_per_bill"`
}

// DailySales is one point of the sales time series.
type DailySales struct {
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	BillCount int64           `json:"bill_count"`
}

// ProductSales ranks one product by sold amount.
type ProductSales struct {
	ItemCode string          `json:"item_code"`
	ItemName string          `json:"item_name"`
	Qty      decimal.Decimal `json:"qty"`
	Amount   decimal.Decimal `json:"amount"`
}

// BranchSales ranks one branch by sold amount.
type BranchSales struct {
	BranchCode string          `json:"branch_code"`
	BranchName string          `json:"branch_name"`
	Amount     decimal.Decimal `json:"amount"`
	BillCount  int64           `json:"bill_count"`
}

// PurchaseSummary totals the purchase documents in a period.
type PurchaseSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	BillCount   int64           `json:"bill_count"`
}

// StockBalance is the on-hand position of one item.
type StockBalance struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Warehouse string          `json:"warehouse"`
	Qty       decimal.Decimal `json:"qty"`
	Amount    decimal.Decimal `json:"amount"`
}

// AgingRow buckets one customer or vendor balance by days outstanding.
type AgingRow struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Current decimal.Decimal `json:"current"`
	Days30  decimal.Decimal `json:"days_30"`
	Days60  decimal.Decimal `json:"days_60"`
	Days90  decimal.Decimal `json:"days_90"`
	Over90  decimal.Decimal `json:"over_90"`
	Balance decimal.Decimal `json:"balance"`
}
