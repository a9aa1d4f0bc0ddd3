package dto

type RequestTransferInput struct {
	ProductID   string  `json:"product_id"`
	FromStoreID string  `json:"from_store_id"`
	ToStoreID   string  `json:"to_store_id"`
	Quantity    int64   `json:"quantity"`
	ActorID     string  `json:"-"`
	IPAddress   *string `json:"-"`
}

type ResolveTransferInput struct {
	TransferID string
	ActorID    string
	Reason     string
	IPAddress  *string
}
