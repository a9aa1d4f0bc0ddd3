package dto

type AdjustInput struct {
	StoreID   string
	ProductID string
	Delta     int64
	Reason    string
	ActorID   string
	IPAddress *string
}
