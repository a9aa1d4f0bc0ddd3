package model

import (
	"time"

	"github.com/dukapos/retail-core/internal/apperrors"
)

type TransferStatus string

const (
	TransferRequested TransferStatus = "requested"
	TransferApproved  TransferStatus = "approved"
	TransferRejected  TransferStatus = "rejected"
	TransferApplied   TransferStatus = "applied"
)

// TransferRequest moves stock between stores through an approval
// workflow: requested -> approved -> applied, or requested -> rejected.
// Every transition is guarded here; there are no idempotent no-ops.
type TransferRequest struct {
	ID          string         `db:"id" json:"id"`
	ProductID   string         `db:"product_id" json:"product_id"`
	FromStoreID string         `db:"from_store_id" json:"from_store_id"`
	ToStoreID   string         `db:"to_store_id" json:"to_store_id"`
	Quantity    int64          `db:"quantity" json:"quantity"`
	Status      TransferStatus `db:"status" json:"status"`
	RequestedBy string         `db:"requested_by" json:"requested_by"`
	ApprovedBy  *string        `db:"approved_by" json:"approved_by,omitempty"`
	Reason      *string        `db:"reason" json:"reason,omitempty"`
	RequestedAt time.Time      `db:"requested_at" json:"requested_at"`
	ResolvedAt  *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
	AppliedAt   *time.Time     `db:"applied_at" json:"applied_at,omitempty"`
}

func (t *TransferRequest) Approve(approverID string, now time.Time) error {
	if t.Status != TransferRequested {
		return apperrors.ErrInvalidState
	}
	t.Status = TransferApproved
	t.ApprovedBy = &approverID
	t.ResolvedAt = &now
	return nil
}

func (t *TransferRequest) Reject(approverID, reason string, now time.Time) error {
	if t.Status != TransferRequested {
		return apperrors.ErrInvalidState
	}
	t.Status = TransferRejected
	t.ApprovedBy = &approverID
	if reason != "" {
		t.Reason = &reason
	}
	t.ResolvedAt = &now
	return nil
}

func (t *TransferRequest) MarkApplied(now time.Time) error {
	if t.Status != TransferApproved {
		return apperrors.ErrInvalidState
	}
	t.Status = TransferApplied
	t.AppliedAt = &now
	return nil
}
