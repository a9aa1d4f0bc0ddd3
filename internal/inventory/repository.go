package inventory

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/internal/model"
)

// Ledger is the single mutation path for stock quantities. Adjust runs
// against the caller's transaction handle and locks the row before the
// check-then-write, so concurrent operations on the same (store, product)
// serialize while unrelated keys proceed in parallel. A missing row is
// materialized at zero on first write.
type Ledger interface {
	Adjust(ctx context.Context, q sqlx.ExtContext, storeID, productID string, delta int64) (*model.Inventory, error)
	Get(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*model.Inventory, error)
}

type Repository interface {
	Ledger
	FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.InventoryFilters) ([]model.Inventory, int, error)
}
