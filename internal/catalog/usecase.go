package catalog

import (
	"context"

	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/model"
)

type UseCase interface {
	CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error)
	GetStore(ctx context.Context, id string) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)

	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, query string, pageSize int) ([]dto.ProductDocument, error)
}
