package inventory

import (
	"context"

	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/internal/model"
)

type UseCase interface {
	GetStock(ctx context.Context, storeID, productID string) (*model.Inventory, error)
	ListLowStock(ctx context.Context, storeID *string, page, pageSize int) ([]model.Inventory, int, error)
	Adjust(ctx context.Context, input *dto.AdjustInput) (*model.Inventory, error)
}
