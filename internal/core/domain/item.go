package domain

type InventoryItem struct {
	ID             uint32  `json:"id"`
	Name           string  `json:"name"`
	Quantity       uint32  `json:"quantity"`
	Price          float64 `json:"price"`
	ExpirationDate uint64  `json:"expiration_date"` // seconds since epoch
}
