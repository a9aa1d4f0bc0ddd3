package usecase

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/pkg/logger"
)

type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) InTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	snapshot := m.repo.snapshot()
	if err := fn(nil); err != nil {
		m.repo.restore(snapshot)
		return err
	}
	return nil
}

type fakeRepo struct {
	rows map[string]*model.Inventory
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*model.Inventory{}}
}

func key(storeID, productID string) string { return storeID + ":" + productID }

func (r *fakeRepo) set(storeID, productID string, qty, reorder int64) {
	r.rows[key(storeID, productID)] = &model.Inventory{
		ID:           key(storeID, productID),
		StoreID:      storeID,
		ProductID:    productID,
		Quantity:     qty,
		ReorderLevel: reorder,
	}
}

func (r *fakeRepo) Adjust(ctx context.Context, q sqlx.ExtContext, storeID, productID string, delta int64) (*model.Inventory, error) {
	inv, ok := r.rows[key(storeID, productID)]
	if !ok {
		inv = &model.Inventory{
			ID:           key(storeID, productID),
			StoreID:      storeID,
			ProductID:    productID,
			ReorderLevel: model.DefaultReorderLevel,
		}
		r.rows[key(storeID, productID)] = inv
	}
	if err := inv.Apply(delta); err != nil {
		return nil, err
	}
	out := *inv
	return &out, nil
}

func (r *fakeRepo) Get(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*model.Inventory, error) {
	inv, ok := r.rows[key(storeID, productID)]
	if !ok {
		return nil, nil
	}
	out := *inv
	return &out, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var out []model.Inventory
	for _, inv := range r.rows {
		if f.LowStock && !inv.IsLowStock() {
			continue
		}
		if f.StoreID != nil && inv.StoreID != *f.StoreID {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (r *fakeRepo) snapshot() map[string]model.Inventory {
	snap := make(map[string]model.Inventory, len(r.rows))
	for k, v := range r.rows {
		snap[k] = *v
	}
	return snap
}

func (r *fakeRepo) restore(snap map[string]model.Inventory) {
	r.rows = make(map[string]*model.Inventory, len(snap))
	for k, v := range snap {
		row := v
		r.rows[k] = &row
	}
}

type fakeStaffRepo struct {
	users map[string]*model.User
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "user %s", id)
	}
	out := *u
	return &out, nil
}

func (r *fakeStaffRepo) AddCommission(ctx context.Context, q sqlx.ExtContext, id string, amount decimal.Decimal) error {
	return nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLogEntry
}

func (r *fakeAuditRepo) Insert(ctx context.Context, q sqlx.ExtContext, entry *model.AuditLogEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) FindAll(ctx context.Context, q sqlx.ExtContext, f *audit.Filters) ([]model.AuditLogEntry, int, error) {
	return nil, 0, nil
}

func newTestUseCase(repo *fakeRepo, staff *fakeStaffRepo, auditRepo *fakeAuditRepo) *inventoryUseCase {
	return NewInventoryUseCase(
		repo, staff, auditRepo, &fakeTxManager{repo: repo}, nil, nil, nil, logger.NewNop(),
	).(*inventoryUseCase)
}

func manager(id, storeID string) *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: id},
		Role:      model.RoleManager,
		StoreID:   &storeID,
	}
}

func TestAdjust(t *testing.T) {
	repo := newFakeRepo()
	repo.set("store-1", "prod-a", 10, 2)
	staff := &fakeStaffRepo{users: map[string]*model.User{"mgr": manager("mgr", "store-1")}}
	auditRepo := &fakeAuditRepo{}
	uc := newTestUseCase(repo, staff, auditRepo)

	inv, err := uc.Adjust(context.Background(), &dto.AdjustInput{
		StoreID:   "store-1",
		ProductID: "prod-a",
		Delta:     5,
		Reason:    "stock delivery",
		ActorID:   "mgr",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), inv.Quantity)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, model.AuditInventoryAdjusted, entry.Action)
	assert.Equal(t, model.AuditSuccess, entry.Outcome)
	assert.Contains(t, entry.Description, "from 10 to 15")
	assert.Contains(t, entry.Description, "stock delivery")
}

func TestAdjust_MaterializesMissingRow(t *testing.T) {
	repo := newFakeRepo()
	staff := &fakeStaffRepo{users: map[string]*model.User{"mgr": manager("mgr", "store-1")}}
	uc := newTestUseCase(repo, staff, &fakeAuditRepo{})

	inv, err := uc.Adjust(context.Background(), &dto.AdjustInput{
		StoreID:   "store-1",
		ProductID: "prod-new",
		Delta:     7,
		Reason:    "initial stock",
		ActorID:   "mgr",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), inv.Quantity)
	assert.Equal(t, int64(model.DefaultReorderLevel), inv.ReorderLevel)
}

func TestAdjust_CannotGoNegative(t *testing.T) {
	repo := newFakeRepo()
	repo.set("store-1", "prod-a", 3, 2)
	staff := &fakeStaffRepo{users: map[string]*model.User{"mgr": manager("mgr", "store-1")}}
	auditRepo := &fakeAuditRepo{}
	uc := newTestUseCase(repo, staff, auditRepo)

	_, err := uc.Adjust(context.Background(), &dto.AdjustInput{
		StoreID:   "store-1",
		ProductID: "prod-a",
		Delta:     -5,
		Reason:    "shrinkage",
		ActorID:   "mgr",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, int64(3), repo.rows[key("store-1", "prod-a")].Quantity)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.AuditFailed, auditRepo.entries[0].Outcome)
}

func TestAdjust_PermissionDenied(t *testing.T) {
	repo := newFakeRepo()
	repo.set("store-1", "prod-a", 10, 2)
	staff := &fakeStaffRepo{users: map[string]*model.User{
		"mgr-2": manager("mgr-2", "store-2"),
		"clerk": {BaseModel: model.BaseModel{ID: "clerk"}, Role: model.RoleStaff, StoreID: strPtr("store-1")},
	}}
	uc := newTestUseCase(repo, staff, &fakeAuditRepo{})

	for _, actor := range []string{"mgr-2", "clerk"} {
		_, err := uc.Adjust(context.Background(), &dto.AdjustInput{
			StoreID:   "store-1",
			ProductID: "prod-a",
			Delta:     1,
			Reason:    "count",
			ActorID:   actor,
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	}
}

func TestAdjust_ZeroDelta(t *testing.T) {
	repo := newFakeRepo()
	staff := &fakeStaffRepo{users: map[string]*model.User{"mgr": manager("mgr", "store-1")}}
	uc := newTestUseCase(repo, staff, &fakeAuditRepo{})

	_, err := uc.Adjust(context.Background(), &dto.AdjustInput{
		StoreID:   "store-1",
		ProductID: "prod-a",
		Delta:     0,
		ActorID:   "mgr",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetStock_MissingRowIsZero(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, &fakeStaffRepo{}, &fakeAuditRepo{})

	inv, err := uc.GetStock(context.Background(), "store-1", "prod-x")
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
	assert.Equal(t, int64(model.DefaultReorderLevel), inv.ReorderLevel)
}

func strPtr(s string) *string { return &s }
