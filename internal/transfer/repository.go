package transfer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/transfer/dto"
)

type Repository interface {
	Insert(ctx context.Context, q sqlx.ExtContext, t *model.TransferRequest) error
	GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.TransferRequest, error)
	// GetByIDForUpdate locks the transfer row so concurrent resolutions
	// of the same request serialize.
	GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id string) (*model.TransferRequest, error)
	Update(ctx context.Context, q sqlx.ExtContext, t *model.TransferRequest) error
	FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.TransferFilters) ([]model.TransferRequest, int, error)
}
