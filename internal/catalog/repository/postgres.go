package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/model"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) InsertStore(ctx context.Context, q sqlx.ExtContext, s *model.Store) error {
	query := `
        INSERT INTO stores (id, name, address, phone, email, tax_id, return_window_days, created_at, updated_at)
        VALUES (:id, :name, :address, :phone, :email, :tax_id, :return_window_days, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, s)
	return errors.Wrap(err, "insert store")
}

func (r *PGRepository) GetStore(ctx context.Context, q sqlx.ExtContext, id string) (*model.Store, error) {
	var s model.Store
	err := sqlx.GetContext(ctx, q, &s, `SELECT * FROM stores WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "store %s", id)
		}
		return nil, errors.Wrap(err, "get store")
	}
	return &s, nil
}

func (r *PGRepository) ListStores(ctx context.Context, q sqlx.ExtContext) ([]model.Store, error) {
	var stores []model.Store
	err := sqlx.SelectContext(ctx, q, &stores, `SELECT * FROM stores ORDER BY name`)
	return stores, errors.Wrap(err, "list stores")
}

func (r *PGRepository) InsertCategory(ctx context.Context, q sqlx.ExtContext, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, description, is_active, created_at, updated_at)
        VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, c)
	return errors.Wrap(err, "insert category")
}

func (r *PGRepository) GetCategory(ctx context.Context, q sqlx.ExtContext, id string) (*model.Category, error) {
	var c model.Category
	err := sqlx.GetContext(ctx, q, &c, `SELECT * FROM categories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "category %s", id)
		}
		return nil, errors.Wrap(err, "get category")
	}
	return &c, nil
}

func (r *PGRepository) ListCategories(ctx context.Context, q sqlx.ExtContext) ([]model.Category, error) {
	var categories []model.Category
	err := sqlx.SelectContext(ctx, q, &categories, `SELECT * FROM categories ORDER BY name`)
	return categories, errors.Wrap(err, "list categories")
}

func (r *PGRepository) InsertProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error {
	query := `
        INSERT INTO products (id, category_id, sku, barcode, name, description, price, is_active, created_at, updated_at)
        VALUES (:id, :category_id, :sku, :barcode, :name, :description, :price, :is_active, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, p)
	return errors.Wrap(err, "insert product")
}

func (r *PGRepository) UpdateProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name, description = :description, price = :price,
            is_active = :is_active, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, p)
	return errors.Wrap(err, "update product")
}

func (r *PGRepository) GetProduct(ctx context.Context, q sqlx.ExtContext, id string) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, q, &p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "product %s", id)
		}
		return nil, errors.Wrap(err, "get product")
	}

	category, err := r.GetCategory(ctx, q, p.CategoryID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	p.Category = category
	return &p, nil
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, q sqlx.ExtContext, sku, excludeID string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count,
		`SELECT count(*) FROM products WHERE sku = $1 AND id <> $2`, sku, excludeID)
	return count == 0, errors.Wrap(err, "check sku uniqueness")
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, q sqlx.ExtContext, barcode, excludeID string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count,
		`SELECT count(*) FROM products WHERE barcode = $1 AND id <> $2`, barcode, excludeID)
	return count == 0, errors.Wrap(err, "check barcode uniqueness")
}

func (r *PGRepository) FindProducts(ctx context.Context, q sqlx.ExtContext, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.Query != "" {
		conditions = append(conditions, "(name ILIKE :query OR sku ILIKE :query)")
		args["query"] = "%" + f.Query + "%"
	}
	if f.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, q, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan product count")
		}
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY name"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	productRows, err := sqlx.NamedQueryContext(ctx, q, query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer productRows.Close()

	var items []model.Product
	for productRows.Next() {
		var p model.Product
		if err := productRows.StructScan(&p); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, count, productRows.Err()
}
