package dto

type ProductFilters struct {
	CategoryID string
	Query      string // matches name or SKU
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ProductDocument is the shape indexed into the product search index.
type ProductDocument struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	SKU        string `json:"sku"`
	Barcode    string `json:"barcode,omitempty"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	IsActive   bool   `json:"is_active"`
}
