package dto

import "github.com/dukapos/retail-core/internal/model"

type TransferFilters struct {
	Status      model.TransferStatus
	ProductID   string
	FromStoreID string
	ToStoreID   string
	Page        int
	PageSize    int
}
