package model

import (
	"time"

	"github.com/dukapos/retail-core/internal/apperrors"
)

// Inventory is one (store, product) stock row. Quantity never goes below
// zero; Apply is the single place that rule is enforced.
type Inventory struct {
	ID           string    `db:"id" json:"id"`
	StoreID      string    `db:"store_id" json:"store_id"`
	ProductID    string    `db:"product_id" json:"product_id"`
	Quantity     int64     `db:"quantity" json:"quantity"`
	ReorderLevel int64     `db:"reorder_level" json:"reorder_level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const DefaultReorderLevel = 10

// Apply adds a signed delta to the quantity, refusing any change that
// would take it negative.
func (i *Inventory) Apply(delta int64) error {
	if i.Quantity+delta < 0 {
		return apperrors.ErrInsufficientStock
	}
	i.Quantity += delta
	return nil
}

func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
