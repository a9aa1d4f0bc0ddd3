package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/auth"
)

type CreateStoreInput struct {
	Actor            auth.UserContext
	Name             string
	Address          string
	Phone            string
	Email            string
	TaxID            string
	ReturnWindowDays int
}

type CreateCategoryInput struct {
	Actor       auth.UserContext
	Name        string
	Description string
}

type CreateProductInput struct {
	Actor       auth.UserContext
	CategoryID  string
	SKU         string
	Barcode     string
	Name        string
	Description string
	Price       decimal.Decimal
}

type UpdateProductInput struct {
	Actor       auth.UserContext
	ProductID   string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsActive    *bool
}
