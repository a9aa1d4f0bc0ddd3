package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/catalog"
	"github.com/dukapos/retail-core/internal/events"
	"github.com/dukapos/retail-core/internal/inventory"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/staff"
	"github.com/dukapos/retail-core/internal/transfer"
	"github.com/dukapos/retail-core/internal/transfer/dto"
	"github.com/dukapos/retail-core/pkg/database/postgres"
	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/prometheus"
)

type transferUseCase struct {
	repo    transfer.Repository
	ledger  inventory.Ledger
	catalog catalog.Repository
	staff   staff.Repository
	audit   audit.Repository
	txm     postgres.TxManager
	db      *sqlx.DB
	emitter *events.Emitter
	logger  logger.Logger
}

func NewTransferUseCase(
	repo transfer.Repository,
	ledger inventory.Ledger,
	catalogRepo catalog.Repository,
	staffRepo staff.Repository,
	auditRepo audit.Repository,
	txm postgres.TxManager,
	db *sqlx.DB,
	emitter *events.Emitter,
	log logger.Logger,
) transfer.UseCase {
	return &transferUseCase{
		repo:    repo,
		ledger:  ledger,
		catalog: catalogRepo,
		staff:   staffRepo,
		audit:   auditRepo,
		txm:     txm,
		db:      db,
		emitter: emitter,
		logger:  log,
	}
}

func (uc *transferUseCase) Request(ctx context.Context, input *dto.RequestTransferInput) (*model.TransferRequest, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.Validationf("transfer quantity must be positive")
	}
	if input.FromStoreID == input.ToStoreID {
		return nil, apperrors.Validationf("source and destination stores must differ")
	}

	var t *model.TransferRequest

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.ActorID)
		if err != nil {
			return err
		}
		if !auth.CanTransferInventory(operator.Role, operator.StoreID, input.FromStoreID) {
			return apperrors.ErrPermissionDenied
		}

		if _, err := uc.catalog.GetStore(ctx, q, input.FromStoreID); err != nil {
			return err
		}
		if _, err := uc.catalog.GetStore(ctx, q, input.ToStoreID); err != nil {
			return err
		}
		if _, err := uc.catalog.GetProduct(ctx, q, input.ProductID); err != nil {
			return err
		}

		// Sanity gate only. Stock is not reserved; the real check happens
		// when the approved transfer applies.
		inv, err := uc.ledger.Get(ctx, q, input.FromStoreID, input.ProductID)
		if err != nil {
			return err
		}
		if inv == nil || inv.Quantity < input.Quantity {
			return errors.Wrapf(apperrors.ErrInsufficientStock,
				"store %s holds fewer than %d of product %s", input.FromStoreID, input.Quantity, input.ProductID)
		}

		t = &model.TransferRequest{
			ID:          uuid.New().String(),
			ProductID:   input.ProductID,
			FromStoreID: input.FromStoreID,
			ToStoreID:   input.ToStoreID,
			Quantity:    input.Quantity,
			Status:      model.TransferRequested,
			RequestedBy: operator.ID,
			RequestedAt: time.Now(),
		}
		if err := uc.repo.Insert(ctx, q, t); err != nil {
			return err
		}

		desc := fmt.Sprintf("Transfer of %d x %s from store %s to store %s requested",
			t.Quantity, t.ProductID, t.FromStoreID, t.ToStoreID)
		entry := audit.NewEntry(operator.ID, model.AuditTransferRequested, "transfer_request", t.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		prometheus.RecordTransfer("request", "failed")
		uc.recordFailure(ctx, input.ActorID, model.AuditTransferRequested,
			fmt.Sprintf("Transfer request %s -> %s rejected: %v", input.FromStoreID, input.ToStoreID, err),
			err, input.IPAddress)
		return nil, err
	}

	prometheus.RecordTransfer("request", "success")
	uc.emitter.TransferRequested(ctx, events.TransferRequestedPayload{
		TransferID:  t.ID,
		ProductID:   t.ProductID,
		FromStoreID: t.FromStoreID,
		ToStoreID:   t.ToStoreID,
		Quantity:    t.Quantity,
		RequestedBy: t.RequestedBy,
	})

	uc.logger.Info("transfer requested",
		zap.String("transfer_id", t.ID),
		zap.String("from_store_id", t.FromStoreID),
		zap.String("to_store_id", t.ToStoreID))
	return t, nil
}

func (uc *transferUseCase) Approve(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error) {
	var t *model.TransferRequest

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.ActorID)
		if err != nil {
			return err
		}
		if !auth.CanApproveTransfers(operator.Role) {
			return apperrors.ErrPermissionDenied
		}

		t, err = uc.repo.GetByIDForUpdate(ctx, q, input.TransferID)
		if err != nil {
			return err
		}
		if err := t.Approve(operator.ID, time.Now()); err != nil {
			return errors.Wrapf(err, "transfer %s is %s", t.ID, t.Status)
		}
		if err := uc.repo.Update(ctx, q, t); err != nil {
			return err
		}

		desc := fmt.Sprintf("Transfer %s approved", t.ID)
		entry := audit.NewEntry(operator.ID, model.AuditTransferApproved, "transfer_request", t.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		prometheus.RecordTransfer("approve", "failed")
		uc.recordFailure(ctx, input.ActorID, model.AuditTransferApproved,
			fmt.Sprintf("Approval of transfer %s rejected: %v", input.TransferID, err),
			err, input.IPAddress)
		return nil, err
	}
	prometheus.RecordTransfer("approve", "success")

	// Application runs in its own transaction. If the source store no
	// longer covers the quantity, the approval stands and the stock
	// failure surfaces to the caller; the transfer can be applied later
	// once stock recovers, or rejected out of band.
	if err := uc.apply(ctx, t, input); err != nil {
		prometheus.RecordTransfer("apply", "failed")
		uc.recordFailure(ctx, input.ActorID, model.AuditTransferApplied,
			fmt.Sprintf("Application of transfer %s failed: %v", t.ID, err),
			err, input.IPAddress)
		return t, err
	}

	prometheus.RecordTransfer("apply", "success")
	uc.logger.Info("transfer applied",
		zap.String("transfer_id", t.ID),
		zap.String("from_store_id", t.FromStoreID),
		zap.String("to_store_id", t.ToStoreID))
	return t, nil
}

func (uc *transferUseCase) apply(ctx context.Context, approved *model.TransferRequest, input *dto.ResolveTransferInput) error {
	var lowStock *model.Inventory

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		t, err := uc.repo.GetByIDForUpdate(ctx, q, approved.ID)
		if err != nil {
			return err
		}
		if err := t.MarkApplied(time.Now()); err != nil {
			return errors.Wrapf(err, "transfer %s is %s", t.ID, t.Status)
		}

		// Inventory rows lock in store-id order so two opposing transfers
		// between the same pair of stores cannot deadlock.
		if t.FromStoreID < t.ToStoreID {
			source, err := uc.ledger.Adjust(ctx, q, t.FromStoreID, t.ProductID, -t.Quantity)
			if err != nil {
				return err
			}
			if source.IsLowStock() {
				lowStock = source
			}
			if _, err := uc.ledger.Adjust(ctx, q, t.ToStoreID, t.ProductID, t.Quantity); err != nil {
				return err
			}
		} else {
			if _, err := uc.ledger.Adjust(ctx, q, t.ToStoreID, t.ProductID, t.Quantity); err != nil {
				return err
			}
			source, err := uc.ledger.Adjust(ctx, q, t.FromStoreID, t.ProductID, -t.Quantity)
			if err != nil {
				return err
			}
			if source.IsLowStock() {
				lowStock = source
			}
		}

		if err := uc.repo.Update(ctx, q, t); err != nil {
			return err
		}
		*approved = *t

		desc := fmt.Sprintf("Transfer of %d x %s moved from store %s to store %s",
			t.Quantity, t.ProductID, t.FromStoreID, t.ToStoreID)
		entry := audit.NewEntry(input.ActorID, model.AuditTransferApplied, "transfer_request", t.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		return err
	}

	if lowStock != nil {
		uc.emitter.LowStock(ctx, events.LowStockPayload{
			StoreID:      lowStock.StoreID,
			ProductID:    lowStock.ProductID,
			Quantity:     lowStock.Quantity,
			ReorderLevel: lowStock.ReorderLevel,
		})
	}
	return nil
}

func (uc *transferUseCase) Apply(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error) {
	operator, err := uc.staff.GetByID(ctx, uc.db, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !auth.CanApproveTransfers(operator.Role) {
		return nil, apperrors.ErrPermissionDenied
	}

	t, err := uc.repo.GetByID(ctx, uc.db, input.TransferID)
	if err != nil {
		return nil, err
	}

	if err := uc.apply(ctx, t, input); err != nil {
		prometheus.RecordTransfer("apply", "failed")
		uc.recordFailure(ctx, input.ActorID, model.AuditTransferApplied,
			fmt.Sprintf("Application of transfer %s failed: %v", t.ID, err),
			err, input.IPAddress)
		return t, err
	}

	prometheus.RecordTransfer("apply", "success")
	uc.logger.Info("transfer applied",
		zap.String("transfer_id", t.ID),
		zap.String("from_store_id", t.FromStoreID),
		zap.String("to_store_id", t.ToStoreID))
	return t, nil
}

func (uc *transferUseCase) Reject(ctx context.Context, input *dto.ResolveTransferInput) (*model.TransferRequest, error) {
	var t *model.TransferRequest

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.ActorID)
		if err != nil {
			return err
		}
		if !auth.CanApproveTransfers(operator.Role) {
			return apperrors.ErrPermissionDenied
		}

		t, err = uc.repo.GetByIDForUpdate(ctx, q, input.TransferID)
		if err != nil {
			return err
		}
		if err := t.Reject(operator.ID, input.Reason, time.Now()); err != nil {
			return errors.Wrapf(err, "transfer %s is %s", t.ID, t.Status)
		}
		if err := uc.repo.Update(ctx, q, t); err != nil {
			return err
		}

		desc := fmt.Sprintf("Transfer %s rejected", t.ID)
		if input.Reason != "" {
			desc = fmt.Sprintf("Transfer %s rejected: %s", t.ID, input.Reason)
		}
		entry := audit.NewEntry(operator.ID, model.AuditTransferRejected, "transfer_request", t.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		prometheus.RecordTransfer("reject", "failed")
		uc.recordFailure(ctx, input.ActorID, model.AuditTransferRejected,
			fmt.Sprintf("Rejection of transfer %s failed: %v", input.TransferID, err),
			err, input.IPAddress)
		return nil, err
	}

	prometheus.RecordTransfer("reject", "success")
	uc.logger.Info("transfer rejected", zap.String("transfer_id", t.ID))
	return t, nil
}

func (uc *transferUseCase) Get(ctx context.Context, id string) (*model.TransferRequest, error) {
	return uc.repo.GetByID(ctx, uc.db, id)
}

func (uc *transferUseCase) List(ctx context.Context, f *dto.TransferFilters) ([]model.TransferRequest, int, error) {
	return uc.repo.FindAll(ctx, uc.db, f)
}

func (uc *transferUseCase) recordFailure(ctx context.Context, actorID string, action model.AuditAction, desc string, cause error, ip *string) {
	if !apperrors.IsRecoverable(cause) {
		return
	}
	entry := audit.NewEntry(actorID, action, "transfer_request", "", desc, model.AuditFailed, ip)
	if err := uc.audit.Insert(ctx, uc.db, entry); err != nil {
		uc.logger.Error("failed to record audit entry", zap.Error(err))
	}
}
