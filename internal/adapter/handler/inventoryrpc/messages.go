package inventoryrpc

type Item struct {
	Id             uint32  `json:"id"`
	Name           string  `json:"name"`
	Quantity       uint32  `json:"quantity"`
	Price          float64 `json:"price"`
	ExpirationDate uint64  `json:"expiration_date"`
}

type AddItemRequest struct {
	Item *Item `json:"item"`
}

type GetItemRequest struct {
	Id uint32 `json:"id"`
}

type GetItemResponse struct {
	Found bool  `json:"found"`
	Item  *Item `json:"item,omitempty"`
}

type UpdateItemQuantityRequest struct {
	Id       uint32 `json:"id"`
	Quantity uint32 `json:"quantity"`
}

type RemoveItemRequest struct {
	Id uint32 `json:"id"`
}

type GetLogsRequest struct{}

type GetLogsResponse struct {
	Logs []string `json:"logs"`
}

type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (x *Item) GetId() uint32 {
	if x == nil {
		return 0
	}
	return x.Id
}

func (x *AddItemRequest) GetItem() *Item {
	if x == nil {
		return nil
	}
	return x.Item
}

func (x *GetItemRequest) GetId() uint32 {
	if x == nil {
		return 0
	}
	return x.Id
}

func (x *UpdateItemQuantityRequest) GetId() uint32 {
	if x == nil {
		return 0
	}
	return x.Id
}

func (x *UpdateItemQuantityRequest) GetQuantity() uint32 {
	if x == nil {
		return 0
	}
	return x.Quantity
}

func (x *RemoveItemRequest) GetId() uint32 {
	if x == nil {
		return 0
	}
	return x.Id
}
