package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/model"
)

type SaleItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateSaleInput struct {
	StoreID       string
	OperatorID    string
	Items         []SaleItemInput
	PaymentMethod model.PaymentMethod
	IPAddress     *string
}

type ReturnItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ProcessReturnInput struct {
	SaleID     string
	OperatorID string
	Items      []ReturnItemInput
	IPAddress  *string
}
