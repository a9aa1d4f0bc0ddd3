package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleFilters struct {
	StoreID    *string
	OperatorID string
	Type       string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// DailySales is one row of the per-day sales report.
type DailySales struct {
	Day          time.Time       `db:"day" json:"day"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Transactions int64           `db:"transactions" json:"transactions"`
}
