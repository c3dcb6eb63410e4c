package domain

// Cart 是购物车上游返回的当前购物车快照。
type Cart struct {
	UserID   string          `json:"userId"`
	Products []CartedProduct `json:"products"`
}

// CartedProduct 是购物车中的一个条目。
type CartedProduct struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
