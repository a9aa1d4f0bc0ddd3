package catalog

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/model"
)

type Repository interface {
	// Stores
	InsertStore(ctx context.Context, q sqlx.ExtContext, s *model.Store) error
	GetStore(ctx context.Context, q sqlx.ExtContext, id string) (*model.Store, error)
	ListStores(ctx context.Context, q sqlx.ExtContext) ([]model.Store, error)

	// Categories
	InsertCategory(ctx context.Context, q sqlx.ExtContext, c *model.Category) error
	GetCategory(ctx context.Context, q sqlx.ExtContext, id string) (*model.Category, error)
	ListCategories(ctx context.Context, q sqlx.ExtContext) ([]model.Category, error)

	// Products
	InsertProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error
	UpdateProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error
	// GetProduct loads the product with its category joined.
	GetProduct(ctx context.Context, q sqlx.ExtContext, id string) (*model.Product, error)
	IsSKUUnique(ctx context.Context, q sqlx.ExtContext, sku, excludeID string) (bool, error)
	IsBarcodeUnique(ctx context.Context, q sqlx.ExtContext, barcode, excludeID string) (bool, error)
	FindProducts(ctx context.Context, q sqlx.ExtContext, f *dto.ProductFilters) ([]model.Product, int, error)
}
