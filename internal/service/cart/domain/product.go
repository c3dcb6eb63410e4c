package domain

import "time"

// Product 是商品目录上游返回的描述性记录。
type Product struct {
	ProductID      string                 `json:"productId" bson:"product_id"`
	CreatedAt      time.Time              `json:"createdAt" bson:"created_at"`
	Name           string                 `json:"name" bson:"name"`
	Brand          string                 `json:"brand" bson:"brand"`
	SKU            string                 `json:"sku" bson:"sku"`
	Category       string                 `json:"category" bson:"category"`
	SubCategory    string                 `json:"subCategory" bson:"sub_category"`
	Tags           []string               `json:"tags" bson:"tags"`
	Media          Media                  `json:"media" bson:"media"`
	Specifications map[string]interface{} `json:"specifications" bson:"specifications"`
	AdditionalInfo map[string]interface{} `json:"additionalInfo" bson:"additional_info"`
}

// Media 聚合一个商品的展示资源。
type Media struct {
	Images []string `json:"images" bson:"images"`
	Videos []string `json:"videos" bson:"videos"`
}

// StockOffers 是库存/报价上游返回的单个商品记录。
// 同一请求内会被两个下游步骤消费（价格、优惠 ID 列表），因此取数必须多路复用。
type StockOffers struct {
	ProductID string   `json:"productId"`
	OfferIDs  []string `json:"offerIds"`
	Stock     int      `json:"stock"`
	Price     float64  `json:"price"`
}
