package dto

type InventoryFilters struct {
	StoreID   *string
	ProductID string
	LowStock  bool
	Page      int
	PageSize  int
}
