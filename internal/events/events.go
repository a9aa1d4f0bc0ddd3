package events

import "time"

const (
	TypeLowStock          = "InventoryLowStock"
	TypeTransferRequested = "TransferRequested"
)

type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type LowStockPayload struct {
	StoreID      string `json:"store_id"`
	ProductID    string `json:"product_id"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
}

type TransferRequestedPayload struct {
	TransferID  string `json:"transfer_id"`
	ProductID   string `json:"product_id"`
	FromStoreID string `json:"from_store_id"`
	ToStoreID   string `json:"to_store_id"`
	Quantity    int64  `json:"quantity"`
	RequestedBy string `json:"requested_by"`
}
