package model

import "github.com/shopspring/decimal"

type Category struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}

type Product struct {
	BaseModel
	CategoryID  string          `db:"category_id" json:"category_id"`
	SKU         string          `db:"sku" json:"sku"`
	Barcode     *string         `db:"barcode" json:"barcode"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Category    *Category       `db:"-" json:"category,omitempty"` // joined data
}
