package usecase

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/model"
	salesdto "github.com/dukapos/retail-core/internal/sales/dto"
)

// fakeTxManager runs the unit of work without a database. On failure it
// restores the ledger snapshot, mirroring a rollback.
type fakeTxManager struct {
	ledger *fakeLedger
}

func (m *fakeTxManager) InTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	snapshot := m.ledger.snapshot()
	if err := fn(nil); err != nil {
		m.ledger.restore(snapshot)
		return err
	}
	return nil
}

type fakeLedger struct {
	rows map[string]*model.Inventory
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]*model.Inventory{}}
}

func key(storeID, productID string) string { return storeID + ":" + productID }

func (l *fakeLedger) set(storeID, productID string, qty, reorder int64) {
	l.rows[key(storeID, productID)] = &model.Inventory{
		ID:           key(storeID, productID),
		StoreID:      storeID,
		ProductID:    productID,
		Quantity:     qty,
		ReorderLevel: reorder,
	}
}

func (l *fakeLedger) quantity(storeID, productID string) int64 {
	if inv, ok := l.rows[key(storeID, productID)]; ok {
		return inv.Quantity
	}
	return 0
}

func (l *fakeLedger) Adjust(ctx context.Context, q sqlx.ExtContext, storeID, productID string, delta int64) (*model.Inventory, error) {
	inv, ok := l.rows[key(storeID, productID)]
	if !ok {
		inv = &model.Inventory{
			ID:           key(storeID, productID),
			StoreID:      storeID,
			ProductID:    productID,
			ReorderLevel: model.DefaultReorderLevel,
		}
		l.rows[key(storeID, productID)] = inv
	}
	if err := inv.Apply(delta); err != nil {
		return nil, err
	}
	out := *inv
	return &out, nil
}

func (l *fakeLedger) Get(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*model.Inventory, error) {
	inv, ok := l.rows[key(storeID, productID)]
	if !ok {
		return nil, nil
	}
	out := *inv
	return &out, nil
}

func (l *fakeLedger) snapshot() map[string]model.Inventory {
	snap := make(map[string]model.Inventory, len(l.rows))
	for k, v := range l.rows {
		snap[k] = *v
	}
	return snap
}

func (l *fakeLedger) restore(snap map[string]model.Inventory) {
	l.rows = make(map[string]*model.Inventory, len(snap))
	for k, v := range snap {
		row := v
		l.rows[k] = &row
	}
}

type fakeStaffRepo struct {
	users map[string]*model.User
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{users: map[string]*model.User{}}
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
	u, ok := r.users[id]
	if !ok {
		return errors.Wrapf(apperrors.ErrNotFound, "user %s", id)
	}
	u.TotalCommission = u.TotalCommission.Add(amount)
	return nil
}

type fakeSalesRepo struct {
	sales map[string]*model.Sale
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{sales: map[string]*model.Sale{}}
}

func (r *fakeSalesRepo) InsertSale(ctx context.Context, q sqlx.ExtContext, sale *model.Sale, items []model.SaleItem) error {
	stored := *sale
	stored.Items = append([]model.SaleItem(nil), items...)
	r.sales[sale.ID] = &stored
	return nil
}

func (r *fakeSalesRepo) GetSale(ctx context.Context, q sqlx.ExtContext, id string) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "sale %s", id)
	}
	out := *s
	return &out, nil
}

func (r *fakeSalesRepo) FindAll(ctx context.Context, q sqlx.ExtContext, f *salesdto.SaleFilters) ([]model.Sale, int, error) {
	var out []model.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (r *fakeSalesRepo) SumReturnedQuantities(ctx context.Context, q sqlx.ExtContext, originalSaleID string) (map[string]int64, error) {
	returned := map[string]int64{}
	for _, s := range r.sales {
		if s.Type != model.SaleTypeReturn || s.OriginalSaleID == nil || *s.OriginalSaleID != originalSaleID {
			continue
		}
		for _, item := range s.Items {
			returned[item.ProductID] += item.Quantity
		}
	}
	return returned, nil
}

func (r *fakeSalesRepo) DailySummary(ctx context.Context, q sqlx.ExtContext, storeID *string, from, to time.Time) ([]salesdto.DailySales, error) {
	return nil, nil
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

func (r *fakeAuditRepo) last() *model.AuditLogEntry {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

type fakeCatalogRepo struct {
	stores   map[string]*model.Store
	products map[string]*model.Product
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		stores:   map[string]*model.Store{},
		products: map[string]*model.Product{},
	}
}

func (r *fakeCatalogRepo) InsertStore(ctx context.Context, q sqlx.ExtContext, s *model.Store) error {
	r.stores[s.ID] = s
	return nil
}

func (r *fakeCatalogRepo) GetStore(ctx context.Context, q sqlx.ExtContext, id string) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "store %s", id)
	}
	out := *s
	return &out, nil
}

func (r *fakeCatalogRepo) ListStores(ctx context.Context, q sqlx.ExtContext) ([]model.Store, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) InsertCategory(ctx context.Context, q sqlx.ExtContext, c *model.Category) error {
	return nil
}

func (r *fakeCatalogRepo) GetCategory(ctx context.Context, q sqlx.ExtContext, id string) (*model.Category, error) {
	return nil, errors.Wrapf(apperrors.ErrNotFound, "category %s", id)
}

func (r *fakeCatalogRepo) ListCategories(ctx context.Context, q sqlx.ExtContext) ([]model.Category, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) InsertProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) UpdateProduct(ctx context.Context, q sqlx.ExtContext, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) GetProduct(ctx context.Context, q sqlx.ExtContext, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "product %s", id)
	}
	out := *p
	return &out, nil
}

func (r *fakeCatalogRepo) IsSKUUnique(ctx context.Context, q sqlx.ExtContext, sku, excludeID string) (bool, error) {
	return true, nil
}

func (r *fakeCatalogRepo) IsBarcodeUnique(ctx context.Context, q sqlx.ExtContext, barcode, excludeID string) (bool, error) {
	return true, nil
}

func (r *fakeCatalogRepo) FindProducts(ctx context.Context, q sqlx.ExtContext, f *dto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}
