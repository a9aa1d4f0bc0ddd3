package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales/dto"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) InsertSale(ctx context.Context, q sqlx.ExtContext, sale *model.Sale, items []model.SaleItem) error {
	query := `
        INSERT INTO sales (
            id, receipt_number, store_id, operator_id, sale_type, original_sale_id,
            subtotal, vat_amount, total_amount, commission, payment_method, created_at
        )
        VALUES (
            :id, :receipt_number, :store_id, :operator_id, :sale_type, :original_sale_id,
            :subtotal, :vat_amount, :total_amount, :commission, :payment_method, :created_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, q, query, sale); err != nil {
		return errors.Wrap(err, "insert sale")
	}

	itemQuery := `
        INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, total_price)
        VALUES (:id, :sale_id, :product_id, :quantity, :unit_price, :total_price)
    `
	for i := range items {
		if _, err := sqlx.NamedExecContext(ctx, q, itemQuery, &items[i]); err != nil {
			return errors.Wrap(err, "insert sale item")
		}
	}
	return nil
}

func (r *PGRepository) GetSale(ctx context.Context, q sqlx.ExtContext, id string) (*model.Sale, error) {
	var sale model.Sale
	err := sqlx.GetContext(ctx, q, &sale, `SELECT * FROM sales WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "sale %s", id)
		}
		return nil, errors.Wrap(err, "get sale")
	}

	err = sqlx.SelectContext(ctx, q, &sale.Items,
		`SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "get sale items")
	}
	return &sale, nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.SaleFilters) ([]model.Sale, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != nil && *f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = *f.StoreID
	}
	if f.OperatorID != "" {
		conditions = append(conditions, "operator_id = :operator_id")
		args["operator_id"] = f.OperatorID
	}
	if f.Type != "" {
		conditions = append(conditions, "sale_type = :sale_type")
		args["sale_type"] = f.Type
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at <= :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM sales" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, q, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count sales")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan sale count")
		}
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	saleRows, err := sqlx.NamedQueryContext(ctx, q, query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list sales")
	}
	defer saleRows.Close()

	var items []model.Sale
	for saleRows.Next() {
		var s model.Sale
		if err := saleRows.StructScan(&s); err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, count, saleRows.Err()
}

func (r *PGRepository) SumReturnedQuantities(ctx context.Context, q sqlx.ExtContext, originalSaleID string) (map[string]int64, error) {
	rows, err := q.QueryxContext(ctx, `
        SELECT si.product_id, COALESCE(SUM(si.quantity), 0) AS returned
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE s.original_sale_id = $1 AND s.sale_type = 'return'
        GROUP BY si.product_id
    `, originalSaleID)
	if err != nil {
		return nil, errors.Wrap(err, "sum returned quantities")
	}
	defer rows.Close()

	returned := map[string]int64{}
	for rows.Next() {
		var productID string
		var qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, err
		}
		returned[productID] = qty
	}
	return returned, rows.Err()
}

func (r *PGRepository) DailySummary(ctx context.Context, q sqlx.ExtContext, storeID *string, from, to time.Time) ([]dto.DailySales, error) {
	query := `
        SELECT date_trunc('day', created_at) AS day,
               COALESCE(SUM(total_amount), 0) AS total_amount,
               count(*) AS transactions
        FROM sales
        WHERE created_at >= $1 AND created_at <= $2
    `
	args := []interface{}{from, to}
	if storeID != nil && *storeID != "" {
		query += ` AND store_id = $3`
		args = append(args, *storeID)
	}
	query += ` GROUP BY day ORDER BY day`

	var summary []dto.DailySales
	err := sqlx.SelectContext(ctx, q, &summary, query, args...)
	return summary, errors.Wrap(err, "daily sales summary")
}
