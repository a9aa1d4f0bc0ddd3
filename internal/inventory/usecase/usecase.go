package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/events"
	"github.com/dukapos/retail-core/internal/inventory"
	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/staff"
	"github.com/dukapos/retail-core/pkg/cache"
	"github.com/dukapos/retail-core/pkg/database/postgres"
	"github.com/dukapos/retail-core/pkg/logger"
)

type inventoryUseCase struct {
	repo    inventory.Repository
	staff   staff.Repository
	audit   audit.Repository
	txm     postgres.TxManager
	db      *sqlx.DB
	cache   *cache.RedisClient
	emitter *events.Emitter
	logger  logger.Logger
}

func NewInventoryUseCase(
	repo inventory.Repository,
	staffRepo staff.Repository,
	auditRepo audit.Repository,
	txm postgres.TxManager,
	db *sqlx.DB,
	cacheClient *cache.RedisClient,
	emitter *events.Emitter,
	log logger.Logger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		staff:   staffRepo,
		audit:   auditRepo,
		txm:     txm,
		db:      db,
		cache:   cacheClient,
		emitter: emitter,
		logger:  log,
	}
}

func (uc *inventoryUseCase) GetStock(ctx context.Context, storeID, productID string) (*model.Inventory, error) {
	inv, err := uc.repo.Get(ctx, uc.db, storeID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		// No record yet means zero stock, not an error.
		return &model.Inventory{
			StoreID:      storeID,
			ProductID:    productID,
			Quantity:     0,
			ReorderLevel: model.DefaultReorderLevel,
		}, nil
	}
	return inv, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, storeID *string, page, pageSize int) ([]model.Inventory, int, error) {
	return uc.repo.FindAll(ctx, uc.db, &dto.InventoryFilters{
		StoreID:  storeID,
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, input *dto.AdjustInput) (*model.Inventory, error) {
	if input.Delta == 0 {
		return nil, apperrors.Validationf("delta must be non-zero")
	}

	lockValue, err := uc.lock(ctx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}
	defer uc.unlock(ctx, input.StoreID, input.ProductID, lockValue)

	var inv *model.Inventory
	err = uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.ActorID)
		if err != nil {
			return err
		}
		if !auth.CanManageInventory(operator.Role, operator.StoreID, input.StoreID) {
			return apperrors.ErrPermissionDenied
		}

		inv, err = uc.repo.Adjust(ctx, q, input.StoreID, input.ProductID, input.Delta)
		if err != nil {
			return err
		}

		desc := fmt.Sprintf("Inventory adjusted from %d to %d. Reason: %s",
			inv.Quantity-input.Delta, inv.Quantity, input.Reason)
		entry := audit.NewEntry(input.ActorID, model.AuditInventoryAdjusted,
			"inventory", inv.ID, desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		uc.recordFailure(ctx, input, err)
		return nil, err
	}

	if input.Delta < 0 && inv.IsLowStock() {
		uc.emitter.LowStock(ctx, events.LowStockPayload{
			StoreID:      inv.StoreID,
			ProductID:    inv.ProductID,
			Quantity:     inv.Quantity,
			ReorderLevel: inv.ReorderLevel,
		})
	}

	uc.logger.Info("inventory adjusted",
		zap.String("store_id", input.StoreID),
		zap.String("product_id", input.ProductID),
		zap.Int64("delta", input.Delta),
		zap.Int64("quantity", inv.Quantity))
	return inv, nil
}

// lock serializes manual adjustments across service instances. The row
// lock inside the transaction is the actual correctness guard; this only
// keeps instances from piling up on the same row.
func (uc *inventoryUseCase) lock(ctx context.Context, storeID, productID string) (string, error) {
	if uc.cache == nil {
		return "", nil
	}

	key := fmt.Sprintf("lock:inventory:%s:%s", storeID, productID)
	value := uuid.New().String()

	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, key, value, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.Error(err))
		}
		if ok {
			return value, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return "", apperrors.Validationf("inventory busy, try again")
}

func (uc *inventoryUseCase) unlock(ctx context.Context, storeID, productID, value string) {
	if uc.cache == nil {
		return
	}
	key := fmt.Sprintf("lock:inventory:%s:%s", storeID, productID)
	if err := uc.cache.ReleaseLock(ctx, key, value); err != nil {
		uc.logger.Warn("failed to release inventory lock", zap.Error(err))
	}
}

func (uc *inventoryUseCase) recordFailure(ctx context.Context, input *dto.AdjustInput, cause error) {
	if !apperrors.IsRecoverable(cause) {
		return
	}
	desc := fmt.Sprintf("Inventory adjustment of %d rejected: %v", input.Delta, cause)
	entry := audit.NewEntry(input.ActorID, model.AuditInventoryAdjusted,
		"inventory", input.StoreID+":"+input.ProductID, desc, model.AuditFailed, input.IPAddress)
	if err := uc.audit.Insert(ctx, uc.db, entry); err != nil {
		uc.logger.Error("failed to record audit entry", zap.Error(err))
	}
}
