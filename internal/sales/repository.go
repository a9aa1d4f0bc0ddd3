package sales

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales/dto"
)

type Repository interface {
	// InsertSale writes the sale header and its lines. Committed rows are
	// never updated; returns are separate rows referencing the original.
	InsertSale(ctx context.Context, q sqlx.ExtContext, sale *model.Sale, items []model.SaleItem) error
	// GetSale loads a sale with its items.
	GetSale(ctx context.Context, q sqlx.ExtContext, id string) (*model.Sale, error)
	FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.SaleFilters) ([]model.Sale, int, error)
	// SumReturnedQuantities reports, per product, how much of the given
	// sale has already been returned.
	SumReturnedQuantities(ctx context.Context, q sqlx.ExtContext, originalSaleID string) (map[string]int64, error)
	DailySummary(ctx context.Context, q sqlx.ExtContext, storeID *string, from, to time.Time) ([]dto.DailySales, error)
}
