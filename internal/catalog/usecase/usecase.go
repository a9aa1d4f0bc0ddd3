package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/catalog"
	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/pkg/search"
)

const productIndex = "products"

const productMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"sku": { "type": "keyword" },
			"barcode": { "type": "keyword" },
			"name": { "type": "text" },
			"price": { "type": "keyword" },
			"is_active": { "type": "boolean" }
		}
	}
}`

type catalogUseCase struct {
	repo   catalog.Repository
	db     *sqlx.DB
	es     *search.Client
	logger logger.Logger
}

func NewCatalogUseCase(repo catalog.Repository, db *sqlx.DB, es *search.Client, log logger.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		db:     db,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error) {
	if !auth.CanManageCatalog(input.Actor.Role) {
		return nil, apperrors.ErrPermissionDenied
	}
	if input.Name == "" {
		return nil, apperrors.Validationf("store name is required")
	}

	now := time.Now()
	s := &model.Store{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:             input.Name,
		Address:          input.Address,
		Phone:            input.Phone,
		Email:            input.Email,
		ReturnWindowDays: input.ReturnWindowDays,
	}
	if input.TaxID != "" {
		s.TaxID = &input.TaxID
	}

	if err := uc.repo.InsertStore(ctx, uc.db, s); err != nil {
		return nil, err
	}
	uc.logger.Info("store created", zap.String("store_id", s.ID), zap.String("name", s.Name))
	return s, nil
}

func (uc *catalogUseCase) GetStore(ctx context.Context, id string) (*model.Store, error) {
	return uc.repo.GetStore(ctx, uc.db, id)
}

func (uc *catalogUseCase) ListStores(ctx context.Context) ([]model.Store, error) {
	return uc.repo.ListStores(ctx, uc.db)
}

func (uc *catalogUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if !auth.CanManageCatalog(input.Actor.Role) {
		return nil, apperrors.ErrPermissionDenied
	}
	if input.Name == "" {
		return nil, apperrors.Validationf("category name is required")
	}

	now := time.Now()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		IsActive:  true,
	}
	if input.Description != "" {
		c.Description = &input.Description
	}

	if err := uc.repo.InsertCategory(ctx, uc.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.ListCategories(ctx, uc.db)
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if !auth.CanManageCatalog(input.Actor.Role) {
		return nil, apperrors.ErrPermissionDenied
	}
	if input.Name == "" || input.SKU == "" {
		return nil, apperrors.Validationf("product name and SKU are required")
	}
	if !input.Price.IsPositive() {
		return nil, apperrors.Validationf("price must be positive")
	}

	if _, err := uc.repo.GetCategory(ctx, uc.db, input.CategoryID); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsSKUUnique(ctx, uc.db, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.Validationf("SKU %s already exists", input.SKU)
	}

	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, uc.db, input.Barcode, "")
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperrors.Validationf("barcode %s already exists", input.Barcode)
		}
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID: input.CategoryID,
		SKU:        input.SKU,
		Name:       input.Name,
		Price:      input.Price,
		IsActive:   true,
	}
	if input.Barcode != "" {
		p.Barcode = &input.Barcode
	}
	if input.Description != "" {
		p.Description = &input.Description
	}

	if err := uc.repo.InsertProduct(ctx, uc.db, p); err != nil {
		return nil, err
	}

	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if !auth.CanManageCatalog(input.Actor.Role) {
		return nil, apperrors.ErrPermissionDenied
	}

	p, err := uc.repo.GetProduct(ctx, uc.db, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, apperrors.Validationf("price must be positive")
		}
		p.Price = *input.Price
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.UpdateProduct(ctx, uc.db, p); err != nil {
		return nil, err
	}

	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.GetProduct(ctx, uc.db, id)
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	return uc.repo.FindProducts(ctx, uc.db, f)
}

// SearchProducts queries the search index; with no index configured it
// falls back to a SQL ILIKE scan.
func (uc *catalogUseCase) SearchProducts(ctx context.Context, query string, pageSize int) ([]dto.ProductDocument, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	if uc.es == nil {
		products, _, err := uc.repo.FindProducts(ctx, uc.db, &dto.ProductFilters{
			Query:      query,
			ActiveOnly: true,
			Page:       1,
			PageSize:   pageSize,
		})
		if err != nil {
			return nil, err
		}
		docs := make([]dto.ProductDocument, 0, len(products))
		for i := range products {
			docs = append(docs, productDocument(&products[i]))
		}
		return docs, nil
	}

	body := map[string]interface{}{
		"size": pageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"fields": []string{"name", "sku", "barcode"},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
				},
			},
		},
	}

	hits, err := uc.es.Search(ctx, productIndex, body)
	if err != nil {
		return nil, err
	}

	docs := make([]dto.ProductDocument, 0, len(hits))
	for _, hit := range hits {
		var doc dto.ProductDocument
		if err := json.Unmarshal(hit, &doc); err != nil {
			uc.logger.Warn("skipping malformed search hit", zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (uc *catalogUseCase) syncToSearch(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	if err := uc.es.EnsureIndex(ctx, productIndex, productMapping); err != nil {
		uc.logger.Error("failed to ensure product index", zap.Error(err))
		return
	}

	// Search only serves active products; deactivation removes the document.
	if !p.IsActive {
		if err := uc.es.Delete(ctx, productIndex, p.ID); err != nil {
			uc.logger.Error("failed to remove product from search",
				zap.String("product_id", p.ID), zap.Error(err))
		}
		return
	}

	if err := uc.es.Index(ctx, productIndex, p.ID, productDocument(p)); err != nil {
		uc.logger.Error("failed to sync product to search",
			zap.String("product_id", p.ID), zap.Error(err))
	}
}

func productDocument(p *model.Product) dto.ProductDocument {
	doc := dto.ProductDocument{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		SKU:        p.SKU,
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		IsActive:   p.IsActive,
	}
	if p.Barcode != nil {
		doc.Barcode = *p.Barcode
	}
	return doc
}
