package staff

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/model"
)

// Repository reads operator records. Account management itself belongs
// to the auth service; the core only needs role, home store and
// commission bookkeeping.
type Repository interface {
	GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.User, error)
	AddCommission(ctx context.Context, q sqlx.ExtContext, id string, amount decimal.Decimal) error
}
