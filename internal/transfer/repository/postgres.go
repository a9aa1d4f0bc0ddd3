package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/transfer/dto"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) Insert(ctx context.Context, q sqlx.ExtContext, t *model.TransferRequest) error {
	query := `
        INSERT INTO transfer_requests (
            id, product_id, from_store_id, to_store_id, quantity, status,
            requested_by, approved_by, reason, requested_at, resolved_at, applied_at
        )
        VALUES (
            :id, :product_id, :from_store_id, :to_store_id, :quantity, :status,
            :requested_by, :approved_by, :reason, :requested_at, :resolved_at, :applied_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, t)
	return errors.Wrap(err, "insert transfer request")
}

func (r *PGRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.TransferRequest, error) {
	return r.get(ctx, q, id, false)
}

func (r *PGRepository) GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id string) (*model.TransferRequest, error) {
	return r.get(ctx, q, id, true)
}

func (r *PGRepository) get(ctx context.Context, q sqlx.ExtContext, id string, forUpdate bool) (*model.TransferRequest, error) {
	query := `SELECT * FROM transfer_requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var t model.TransferRequest
	if err := sqlx.GetContext(ctx, q, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "transfer request %s", id)
		}
		return nil, errors.Wrap(err, "get transfer request")
	}
	return &t, nil
}

func (r *PGRepository) Update(ctx context.Context, q sqlx.ExtContext, t *model.TransferRequest) error {
	query := `
        UPDATE transfer_requests
        SET status = :status,
            approved_by = :approved_by,
            reason = :reason,
            resolved_at = :resolved_at,
            applied_at = :applied_at
        WHERE id = :id
    `
	res, err := sqlx.NamedExecContext(ctx, q, query, t)
	if err != nil {
		return errors.Wrap(err, "update transfer request")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update transfer request")
	}
	if affected == 0 {
		return errors.Wrapf(apperrors.ErrNotFound, "transfer request %s", t.ID)
	}
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.TransferFilters) ([]model.TransferRequest, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.FromStoreID != "" {
		conditions = append(conditions, "from_store_id = :from_store_id")
		args["from_store_id"] = f.FromStoreID
	}
	if f.ToStoreID != "" {
		conditions = append(conditions, "to_store_id = :to_store_id")
		args["to_store_id"] = f.ToStoreID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM transfer_requests" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, q, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count transfer requests")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan transfer request count")
		}
	}

	query := "SELECT * FROM transfer_requests" + whereClause + " ORDER BY requested_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	transferRows, err := sqlx.NamedQueryContext(ctx, q, query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list transfer requests")
	}
	defer transferRows.Close()

	var items []model.TransferRequest
	for transferRows.Next() {
		var t model.TransferRequest
		if err := transferRows.StructScan(&t); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, count, transferRows.Err()
}
