package domain

// FeedProduct 是外部商品 feed 返回的一条商品记录。
type FeedProduct struct {
	ID          int64   `json:"id" bson:"_id"`
	Title       string  `json:"title" bson:"title"`
	Price       float64 `json:"price" bson:"price"`
	Description string  `json:"description" bson:"description"`
	Category    string  `json:"category" bson:"category"`
	Image       string  `json:"image" bson:"image"`
	Rating      Rating  `json:"rating" bson:"rating"`
}

// Rating 是 feed 自带的评分摘要。
type Rating struct {
	Rate  float64 `json:"rate" bson:"rate"`
	Count int     `json:"count" bson:"count"`
}
