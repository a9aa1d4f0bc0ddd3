package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleType string

const (
	SaleTypeSale   SaleType = "sale"
	SaleTypeReturn SaleType = "return"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentMpesa PaymentMethod = "mpesa"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMpesa:
		return true
	}
	return false
}

// Sale is one committed transaction, either a sale or a return. Returns
// carry negative amounts and reference the sale they reverse. A committed
// row is never mutated.
type Sale struct {
	ID             string          `db:"id" json:"id"`
	ReceiptNumber  string          `db:"receipt_number" json:"receipt_number"`
	StoreID        string          `db:"store_id" json:"store_id"`
	OperatorID     string          `db:"operator_id" json:"operator_id"`
	Type           SaleType        `db:"sale_type" json:"sale_type"`
	OriginalSaleID *string         `db:"original_sale_id" json:"original_sale_id,omitempty"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATAmount      decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	Commission     decimal.Decimal `db:"commission" json:"commission"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	Items          []SaleItem      `db:"-" json:"items,omitempty"`
}

type SaleItem struct {
	ID         string          `db:"id" json:"id"`
	SaleID     string          `db:"sale_id" json:"sale_id"`
	ProductID  string          `db:"product_id" json:"product_id"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
}
