package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/internal/model"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) Get(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := sqlx.GetContext(ctx, q, &inv,
		`SELECT * FROM inventory WHERE store_id = $1 AND product_id = $2`,
		storeID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // caller handles the zero-quantity default
		}
		return nil, errors.Wrap(err, "get inventory")
	}
	return &inv, nil
}

func (r *PGRepository) Adjust(ctx context.Context, q sqlx.ExtContext, storeID, productID string, delta int64) (*model.Inventory, error) {
	inv, err := r.getForUpdate(ctx, q, storeID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		// First write for this (store, product): materialize a zero row,
		// then take the lock. ON CONFLICT covers a concurrent creator.
		_, err = q.ExecContext(ctx, `
            INSERT INTO inventory (id, store_id, product_id, quantity, reorder_level, created_at, updated_at)
            VALUES ($1, $2, $3, 0, $4, now(), now())
            ON CONFLICT (store_id, product_id) DO NOTHING
        `, uuid.New().String(), storeID, productID, model.DefaultReorderLevel)
		if err != nil {
			return nil, errors.Wrap(err, "materialize inventory row")
		}
		inv, err = r.getForUpdate(ctx, q, storeID, productID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, errors.New("inventory row missing after insert")
		}
	}

	if err := inv.Apply(delta); err != nil {
		return nil, err
	}
	inv.UpdatedAt = time.Now()

	_, err = q.ExecContext(ctx,
		`UPDATE inventory SET quantity = $1, updated_at = $2 WHERE id = $3`,
		inv.Quantity, inv.UpdatedAt, inv.ID)
	if err != nil {
		return nil, errors.Wrap(err, "update inventory")
	}
	return inv, nil
}

func (r *PGRepository) getForUpdate(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := sqlx.GetContext(ctx, q, &inv,
		`SELECT * FROM inventory WHERE store_id = $1 AND product_id = $2 FOR UPDATE`,
		storeID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "lock inventory row")
	}
	return &inv, nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != nil && *f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = *f.StoreID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStock {
		conditions = append(conditions, "quantity <= reorder_level")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM inventory" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, q, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count inventory")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan inventory count")
		}
	}

	query := "SELECT * FROM inventory" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	invRows, err := sqlx.NamedQueryContext(ctx, q, query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list inventory")
	}
	defer invRows.Close()

	var items []model.Inventory
	for invRows.Next() {
		var inv model.Inventory
		if err := invRows.StructScan(&inv); err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, count, invRows.Err()
}
