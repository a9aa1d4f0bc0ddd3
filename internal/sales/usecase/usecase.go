package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/catalog"
	"github.com/dukapos/retail-core/internal/events"
	"github.com/dukapos/retail-core/internal/inventory"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales"
	"github.com/dukapos/retail-core/internal/sales/dto"
	"github.com/dukapos/retail-core/internal/staff"
	"github.com/dukapos/retail-core/pkg/database/postgres"
	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/prometheus"
)

var oneHundred = decimal.NewFromInt(100)

// Config carries the fiscal rates as percentages.
type Config struct {
	VATRate               decimal.Decimal
	DefaultCommissionRate decimal.Decimal
}

type salesUseCase struct {
	repo    sales.Repository
	ledger  inventory.Ledger
	catalog catalog.Repository
	staff   staff.Repository
	audit   audit.Repository
	txm     postgres.TxManager
	db      *sqlx.DB
	emitter *events.Emitter
	cfg     Config
	logger  logger.Logger
}

func NewSalesUseCase(
	repo sales.Repository,
	ledger inventory.Ledger,
	catalogRepo catalog.Repository,
	staffRepo staff.Repository,
	auditRepo audit.Repository,
	txm postgres.TxManager,
	db *sqlx.DB,
	emitter *events.Emitter,
	cfg Config,
	log logger.Logger,
) sales.UseCase {
	return &salesUseCase{
		repo:    repo,
		ledger:  ledger,
		catalog: catalogRepo,
		staff:   staffRepo,
		audit:   auditRepo,
		txm:     txm,
		db:      db,
		emitter: emitter,
		cfg:     cfg,
		logger:  log,
	}
}

func (uc *salesUseCase) CreateSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		prometheus.RecordSale("rejected")
		return nil, err
	}

	var sale *model.Sale
	var lowStock []model.Inventory

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.OperatorID)
		if err != nil {
			return err
		}
		if !auth.CanProcessSales(operator.Role, operator.StoreID, input.StoreID) {
			return apperrors.ErrPermissionDenied
		}

		subtotal := decimal.Zero
		items := make([]model.SaleItem, 0, len(input.Items))

		for _, line := range input.Items {
			product, err := uc.catalog.GetProduct(ctx, q, line.ProductID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.Validationf("unknown product %s", line.ProductID)
				}
				return err
			}
			if !sellableAt(product) {
				return apperrors.Validationf("product %s is not sellable", product.SKU)
			}

			inv, err := uc.ledger.Adjust(ctx, q, input.StoreID, line.ProductID, -line.Quantity)
			if err != nil {
				// InsufficientStock on any line aborts the whole sale.
				return err
			}
			if inv.IsLowStock() {
				lowStock = append(lowStock, *inv)
			}

			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, model.SaleItem{
				ID:         uuid.New().String(),
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: lineTotal,
			})
		}

		vat := subtotal.Mul(uc.cfg.VATRate).Div(oneHundred).Round(2)
		total := subtotal.Add(vat)

		commission := decimal.Zero
		if auth.CommissionEligible(operator.Role) {
			rate := operator.CommissionRate
			if rate.IsZero() {
				rate = uc.cfg.DefaultCommissionRate
			}
			commission = total.Mul(rate).Div(oneHundred).Round(2)
		}

		now := time.Now()
		sale = &model.Sale{
			ID:            uuid.New().String(),
			ReceiptNumber: sales.GenerateReceiptNumber(now),
			StoreID:       input.StoreID,
			OperatorID:    operator.ID,
			Type:          model.SaleTypeSale,
			Subtotal:      subtotal,
			VATAmount:     vat,
			TotalAmount:   total,
			Commission:    commission,
			PaymentMethod: input.PaymentMethod,
			CreatedAt:     now,
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		sale.Items = items

		if err := uc.repo.InsertSale(ctx, q, sale, items); err != nil {
			return err
		}
		if commission.IsPositive() {
			if err := uc.staff.AddCommission(ctx, q, operator.ID, commission); err != nil {
				return err
			}
		}

		desc := fmt.Sprintf("Sale %s for %s", sale.ReceiptNumber, total.StringFixed(2))
		entry := audit.NewEntry(operator.ID, model.AuditSaleCreated, "sale", sale.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		prometheus.RecordSale("failed")
		uc.recordFailure(ctx, input.OperatorID, model.AuditSaleCreated, "sale",
			fmt.Sprintf("Sale at store %s rejected: %v", input.StoreID, err), err, input.IPAddress)
		return nil, err
	}

	prometheus.RecordSale("success")
	for _, inv := range lowStock {
		uc.emitter.LowStock(ctx, events.LowStockPayload{
			StoreID:      inv.StoreID,
			ProductID:    inv.ProductID,
			Quantity:     inv.Quantity,
			ReorderLevel: inv.ReorderLevel,
		})
	}

	uc.logger.Info("sale created",
		zap.String("receipt", sale.ReceiptNumber),
		zap.String("store_id", sale.StoreID),
		zap.String("total", sale.TotalAmount.StringFixed(2)))
	return sale, nil
}

func (uc *salesUseCase) ProcessReturn(ctx context.Context, input *dto.ProcessReturnInput) (*model.Sale, error) {
	if len(input.Items) == 0 {
		prometheus.RecordReturn("rejected")
		return nil, apperrors.Validationf("return must have at least one line")
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			prometheus.RecordReturn("rejected")
			return nil, apperrors.Validationf("return quantity must be positive")
		}
	}

	var ret *model.Sale

	err := uc.txm.InTx(ctx, func(q sqlx.ExtContext) error {
		operator, err := uc.staff.GetByID(ctx, q, input.OperatorID)
		if err != nil {
			return err
		}

		original, err := uc.repo.GetSale(ctx, q, input.SaleID)
		if err != nil {
			return err
		}
		if original.Type != model.SaleTypeSale {
			return apperrors.Validationf("only sales can be returned")
		}
		if !auth.CanProcessSales(operator.Role, operator.StoreID, original.StoreID) {
			return apperrors.ErrPermissionDenied
		}

		store, err := uc.catalog.GetStore(ctx, q, original.StoreID)
		if err != nil {
			return err
		}
		if store.ReturnWindowDays > 0 {
			deadline := original.CreatedAt.AddDate(0, 0, store.ReturnWindowDays)
			if time.Now().After(deadline) {
				return apperrors.Validationf("return window of %d days has elapsed", store.ReturnWindowDays)
			}
		}

		soldQty := map[string]int64{}
		soldPrice := map[string]decimal.Decimal{}
		for _, item := range original.Items {
			soldQty[item.ProductID] += item.Quantity
			soldPrice[item.ProductID] = item.UnitPrice
		}

		returned, err := uc.repo.SumReturnedQuantities(ctx, q, original.ID)
		if err != nil {
			return err
		}

		// Validate every line before touching the ledger so an
		// over-return applies nothing at all. Requested quantities
		// accumulate per product so the cap holds across duplicate
		// lines in the same request.
		requested := map[string]int64{}
		for _, line := range input.Items {
			sold, ok := soldQty[line.ProductID]
			if !ok {
				return errors.Wrapf(apperrors.ErrInvalidReturn,
					"product %s was not part of sale %s", line.ProductID, original.ReceiptNumber)
			}
			requested[line.ProductID] += line.Quantity
			if requested[line.ProductID]+returned[line.ProductID] > sold {
				return errors.Wrapf(apperrors.ErrInvalidReturn,
					"product %s: %d requested, %d returnable",
					line.ProductID, requested[line.ProductID], sold-returned[line.ProductID])
			}
		}

		subtotal := decimal.Zero
		items := make([]model.SaleItem, 0, len(input.Items))
		for _, line := range input.Items {
			if _, err := uc.ledger.Adjust(ctx, q, original.StoreID, line.ProductID, line.Quantity); err != nil {
				return err
			}
			lineTotal := soldPrice[line.ProductID].Mul(decimal.NewFromInt(line.Quantity))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, model.SaleItem{
				ID:         uuid.New().String(),
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  soldPrice[line.ProductID],
				TotalPrice: lineTotal,
			})
		}

		vat := subtotal.Mul(uc.cfg.VATRate).Div(oneHundred).Round(2)
		total := subtotal.Add(vat)

		now := time.Now()
		originalID := original.ID
		ret = &model.Sale{
			ID:             uuid.New().String(),
			ReceiptNumber:  sales.GenerateReceiptNumber(now),
			StoreID:        original.StoreID,
			OperatorID:     operator.ID,
			Type:           model.SaleTypeReturn,
			OriginalSaleID: &originalID,
			Subtotal:       subtotal.Neg(),
			VATAmount:      vat.Neg(),
			TotalAmount:    total.Neg(),
			Commission:     decimal.Zero,
			PaymentMethod:  original.PaymentMethod,
			CreatedAt:      now,
		}
		for i := range items {
			items[i].SaleID = ret.ID
		}
		ret.Items = items

		if err := uc.repo.InsertSale(ctx, q, ret, items); err != nil {
			return err
		}

		desc := fmt.Sprintf("Return %s against sale %s for %s",
			ret.ReceiptNumber, original.ReceiptNumber, total.StringFixed(2))
		entry := audit.NewEntry(operator.ID, model.AuditSaleReturned, "sale", ret.ID,
			desc, model.AuditSuccess, input.IPAddress)
		return uc.audit.Insert(ctx, q, entry)
	})
	if err != nil {
		prometheus.RecordReturn("failed")
		uc.recordFailure(ctx, input.OperatorID, model.AuditSaleReturned, "sale",
			fmt.Sprintf("Return against sale %s rejected: %v", input.SaleID, err), err, input.IPAddress)
		return nil, err
	}

	prometheus.RecordReturn("success")
	uc.logger.Info("return processed",
		zap.String("receipt", ret.ReceiptNumber),
		zap.String("original_sale_id", input.SaleID))
	return ret, nil
}

func (uc *salesUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	return uc.repo.GetSale(ctx, uc.db, id)
}

func (uc *salesUseCase) ListSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	return uc.repo.FindAll(ctx, uc.db, f)
}

func (uc *salesUseCase) DailySummary(ctx context.Context, actorID string, storeID *string, from, to time.Time) ([]dto.DailySales, error) {
	operator, err := uc.staff.GetByID(ctx, uc.db, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewReports(operator.Role, operator.StoreID, storeID) {
		return nil, apperrors.ErrPermissionDenied
	}
	return uc.repo.DailySummary(ctx, uc.db, storeID, from, to)
}

func validateSaleInput(input *dto.CreateSaleInput) error {
	if len(input.Items) == 0 {
		return apperrors.Validationf("sale must have at least one line")
	}
	if !input.PaymentMethod.Valid() {
		return apperrors.Validationf("unknown payment method %q", input.PaymentMethod)
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return apperrors.Validationf("quantity must be positive for product %s", line.ProductID)
		}
		if !line.UnitPrice.IsPositive() {
			return apperrors.Validationf("unit price must be positive for product %s", line.ProductID)
		}
	}
	return nil
}

func sellableAt(p *model.Product) bool {
	if !p.IsActive {
		return false
	}
	if p.Category != nil && !p.Category.IsActive {
		return false
	}
	return true
}

// recordFailure writes the audit entry for a rejected operation. The
// failed transaction already rolled back, so this goes straight to the
// pool. Infrastructure errors are not audited; they are not terminal
// business outcomes.
func (uc *salesUseCase) recordFailure(ctx context.Context, actorID string, action model.AuditAction, entityType, desc string, cause error, ip *string) {
	if !apperrors.IsRecoverable(cause) {
		return
	}
	entry := audit.NewEntry(actorID, action, entityType, "", desc, model.AuditFailed, ip)
	if err := uc.audit.Insert(ctx, uc.db, entry); err != nil {
		uc.logger.Error("failed to record audit entry", zap.Error(err))
	}
}
