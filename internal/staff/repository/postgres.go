package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/model"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.User, error) {
	var u model.User
	err := sqlx.GetContext(ctx, q, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "operator %s", id)
		}
		return nil, errors.Wrap(err, "get operator")
	}
	return &u, nil
}

func (r *PGRepository) AddCommission(ctx context.Context, q sqlx.ExtContext, id string, amount decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE users SET total_commission = total_commission + $1, updated_at = now() WHERE id = $2`,
		amount, id)
	if err != nil {
		return errors.Wrap(err, "add commission")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(apperrors.ErrNotFound, "operator %s", id)
	}
	return nil
}
