package sales

import (
	"context"
	"time"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales/dto"
)

type UseCase interface {
	// CreateSale validates and commits a sale atomically: every line
	// decrements the ledger or none do.
	CreateSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error)
	// ProcessReturn reverses sold quantities back into inventory, capped
	// cumulatively per line by the original sale.
	ProcessReturn(ctx context.Context, input *dto.ProcessReturnInput) (*model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error)
	DailySummary(ctx context.Context, actorID string, storeID *string, from, to time.Time) ([]dto.DailySales, error)
}
