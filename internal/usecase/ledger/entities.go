package ledger

import "github.com/shopspring/decimal"

type ProfitLossDTO struct {
	Profits decimal.Decimal `json:"profits"`
	Losses  decimal.Decimal `json:"losses"`
}

type BalanceDTO struct {
	Balance decimal.Decimal `json:"balance"`
}

// ReportDTO counts loans by status. Approved includes active loans.
type ReportDTO struct {
	TotalLoans int `json:"total_loans"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Completed  int `json:"completed"`
	Defaulted  int `json:"defaulted"`
}

type CustomerAmount struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// DailyLoans groups loans by creation date (UTC, YYYY-MM-DD).
type DailyLoans struct {
	Date        string           `json:"date"`
	Count       int              `json:"count"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Customers   []CustomerAmount `json:"customers"`
}

type PaymentTrend struct {
	Date        string          `json:"date"`
	TotalRepaid decimal.Decimal `json:"total_repaid"`
}

type DetailedReportDTO struct {
	ByDate        []DailyLoans   `json:"by_date"`
	PaymentTrends []PaymentTrend `json:"payment_trends"`
}
