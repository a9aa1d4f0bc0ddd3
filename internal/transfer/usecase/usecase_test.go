package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/model"
	salesdto "github.com/dukapos/retail-core/internal/sales/dto"
	salesuc "github.com/dukapos/retail-core/internal/sales/usecase"
	"github.com/dukapos/retail-core/internal/transfer/dto"
	"github.com/dukapos/retail-core/pkg/logger"
)

type fixture struct {
	uc      *transferUseCase
	ledger  *fakeLedger
	repo    *fakeTransferRepo
	staff   *fakeStaffRepo
	catalog *fakeCatalogRepo
	audit   *fakeAuditRepo
	txm     *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ledger := newFakeLedger()
	repo := newFakeTransferRepo()
	staff := newFakeStaffRepo()
	catalogRepo := newFakeCatalogRepo()
	auditRepo := &fakeAuditRepo{}
	txm := &fakeTxManager{ledger: ledger, transfers: repo}

	uc := NewTransferUseCase(
		repo, ledger, catalogRepo, staff, auditRepo, txm, nil, nil, logger.NewNop(),
	).(*transferUseCase)

	return &fixture{
		uc:      uc,
		ledger:  ledger,
		repo:    repo,
		staff:   staff,
		catalog: catalogRepo,
		audit:   auditRepo,
		txm:     txm,
	}
}

func (f *fixture) addStore(id string) {
	f.catalog.stores[id] = &model.Store{
		BaseModel: model.BaseModel{ID: id},
		Name:      "Store " + id,
	}
}

func (f *fixture) addProduct(id string) {
	f.catalog.products[id] = &model.Product{
		BaseModel: model.BaseModel{ID: id},
		SKU:       "SKU-" + id,
		Name:      "Product " + id,
		Price:     decimal.NewFromInt(100),
		IsActive:  true,
	}
}

func (f *fixture) addUser(id string, role model.Role, storeID string) {
	var store *string
	if storeID != "" {
		store = &storeID
	}
	f.staff.users[id] = &model.User{
		BaseModel: model.BaseModel{ID: id},
		Username:  id,
		Role:      role,
		StoreID:   store,
		IsActive:  true,
	}
}

func (f *fixture) request(t *testing.T, qty int64) *model.TransferRequest {
	t.Helper()
	tr, err := f.uc.Request(context.Background(), &dto.RequestTransferInput{
		ProductID:   "prod-a",
		FromStoreID: "store-a",
		ToStoreID:   "store-b",
		Quantity:    qty,
		ActorID:     "manager-a",
	})
	require.NoError(t, err)
	return tr
}

func setup(t *testing.T, stockA int64) *fixture {
	f := newFixture(t)
	f.addStore("store-a")
	f.addStore("store-b")
	f.addProduct("prod-a")
	f.addUser("manager-a", model.RoleManager, "store-a")
	f.addUser("boss", model.RoleDirector, "")
	f.ledger.set("store-a", "prod-a", stockA, 2)
	return f
}

func TestRequest(t *testing.T) {
	f := setup(t, 10)

	tr := f.request(t, 5)
	assert.Equal(t, model.TransferRequested, tr.Status)
	assert.Equal(t, "manager-a", tr.RequestedBy)

	// Stock is not reserved at request time.
	assert.Equal(t, int64(10), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, []model.AuditAction{model.AuditTransferRequested}, f.audit.actions())
}

func TestRequest_InsufficientStock(t *testing.T) {
	f := setup(t, 3)

	_, err := f.uc.Request(context.Background(), &dto.RequestTransferInput{
		ProductID:   "prod-a",
		FromStoreID: "store-a",
		ToStoreID:   "store-b",
		Quantity:    5,
		ActorID:     "manager-a",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestRequest_Validation(t *testing.T) {
	f := setup(t, 10)

	_, err := f.uc.Request(context.Background(), &dto.RequestTransferInput{
		ProductID: "prod-a", FromStoreID: "store-a", ToStoreID: "store-b",
		Quantity: 0, ActorID: "manager-a",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.uc.Request(context.Background(), &dto.RequestTransferInput{
		ProductID: "prod-a", FromStoreID: "store-a", ToStoreID: "store-a",
		Quantity: 5, ActorID: "manager-a",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRequest_PermissionDenied(t *testing.T) {
	f := setup(t, 10)
	f.addUser("manager-b", model.RoleManager, "store-b")

	// Managers may only move stock out of their own store.
	_, err := f.uc.Request(context.Background(), &dto.RequestTransferInput{
		ProductID:   "prod-a",
		FromStoreID: "store-a",
		ToStoreID:   "store-b",
		Quantity:    5,
		ActorID:     "manager-b",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestApprove_Applies(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	got, err := f.uc.Approve(context.Background(), &dto.ResolveTransferInput{
		TransferID: tr.ID,
		ActorID:    "boss",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransferApplied, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "boss", *got.ApprovedBy)
	require.NotNil(t, got.AppliedAt)

	assert.Equal(t, int64(5), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, int64(5), f.ledger.quantity("store-b", "prod-a"))

	assert.Equal(t, []model.AuditAction{
		model.AuditTransferRequested,
		model.AuditTransferApproved,
		model.AuditTransferApplied,
	}, f.audit.actions())
}

func TestApprove_OnlyDirectorsAndAdmins(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	_, err := f.uc.Approve(context.Background(), &dto.ResolveTransferInput{
		TransferID: tr.ID,
		ActorID:    "manager-a",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, int64(10), f.ledger.quantity("store-a", "prod-a"))
}

func TestApprove_StockDrainedAfterRequest(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	// Sales drained the source store between request and approval.
	_, err := f.ledger.Adjust(context.Background(), nil, "store-a", "prod-a", -8)
	require.NoError(t, err)

	got, err := f.uc.Approve(context.Background(), &dto.ResolveTransferInput{
		TransferID: tr.ID,
		ActorID:    "boss",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	// Approval stands; only the application failed.
	require.NotNil(t, got)
	assert.Equal(t, model.TransferApproved, got.Status)
	stored, _ := f.repo.GetByID(context.Background(), nil, tr.ID)
	assert.Equal(t, model.TransferApproved, stored.Status)

	assert.Equal(t, int64(2), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, int64(0), f.ledger.quantity("store-b", "prod-a"))
}

func TestApply_RetryAfterStockRecovers(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	_, err := f.ledger.Adjust(context.Background(), nil, "store-a", "prod-a", -8)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	// A delivery restocks the source store; the approved transfer can now apply.
	_, err = f.ledger.Adjust(context.Background(), nil, "store-a", "prod-a", 6)
	require.NoError(t, err)

	got, err := f.uc.Apply(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferApplied, got.Status)
	assert.Equal(t, int64(3), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, int64(5), f.ledger.quantity("store-b", "prod-a"))
}

func TestApply_NotApproved(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	_, err := f.uc.Apply(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, int64(10), f.ledger.quantity("store-a", "prod-a"))
}

func TestApprove_Twice(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	_, err := f.uc.Approve(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// No double movement.
	assert.Equal(t, int64(5), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, int64(5), f.ledger.quantity("store-b", "prod-a"))
}

func TestReject(t *testing.T) {
	f := setup(t, 10)
	tr := f.request(t, 5)

	got, err := f.uc.Reject(context.Background(), &dto.ResolveTransferInput{
		TransferID: tr.ID,
		ActorID:    "boss",
		Reason:     "needed for weekend promotion",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransferRejected, got.Status)
	require.NotNil(t, got.Reason)

	assert.Equal(t, int64(10), f.ledger.quantity("store-a", "prod-a"))

	_, err = f.uc.Approve(context.Background(), &dto.ResolveTransferInput{TransferID: tr.ID, ActorID: "boss"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

// Walks a full trading day across two stores: sell, take a return, then
// rebalance the remaining stock.
func TestStockFlowAcrossStores(t *testing.T) {
	f := setup(t, 10)
	f.addUser("cashier", model.RoleStaff, "store-a")

	salesRepo := newFakeSalesRepo()
	salesUC := salesuc.NewSalesUseCase(
		salesRepo, f.ledger, f.catalog, f.staff, f.audit, f.txm, nil, nil,
		salesuc.Config{
			VATRate:               decimal.NewFromInt(16),
			DefaultCommissionRate: decimal.NewFromInt(5),
		},
		logger.NewNop(),
	)

	sale, err := salesUC.CreateSale(context.Background(), &salesdto.CreateSaleInput{
		StoreID:    "store-a",
		OperatorID: "cashier",
		Items: []salesdto.SaleItemInput{
			{ProductID: "prod-a", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.ledger.quantity("store-a", "prod-a"))

	_, err = salesUC.ProcessReturn(context.Background(), &salesdto.ProcessReturnInput{
		SaleID:     sale.ID,
		OperatorID: "cashier",
		Items:      []salesdto.ReturnItemInput{{ProductID: "prod-a", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.ledger.quantity("store-a", "prod-a"))

	tr := f.request(t, 5)
	_, err = f.uc.Approve(context.Background(), &dto.ResolveTransferInput{
		TransferID: tr.ID,
		ActorID:    "boss",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.ledger.quantity("store-a", "prod-a"))
	assert.Equal(t, int64(5), f.ledger.quantity("store-b", "prod-a"))
}
