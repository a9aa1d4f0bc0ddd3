package transfer

import (
	"context"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/transfer/dto"
)

type UseCase interface {
	// Request records a pending transfer. Stock is checked at request
	// time as a sanity gate but only reserved when the transfer applies.
	Request(ctx context.Context, input *dto.RequestTransferInput) (*model.TransferRequest, error)
	// Approve resolves a pending request and immediately attempts to
	// apply it. If the source store no longer has the stock, the request
	// stays approved and the error is returned alongside it.
	Approve(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error)
	// Apply retries the stock movement for a transfer that was approved
	// but could not be applied at approval time.
	Apply(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error)
	Reject(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error)
	Get(ctx context.Context, id string) (*model.TransferRequest, error)
	List(ctx context.Context, f *dto.TransferFilters) ([]model.TransferRequest, int, error)
}
