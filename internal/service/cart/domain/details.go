package domain

// OfferCalculations 是一条优惠在某个商品价格下的结算结果。
// 不适用时 FinalOfferPrice 为空，由 OfferText 给出原因。
type OfferCalculations struct {
	OfferID         string   `json:"offerId" bson:"offer_id"`
	FinalOfferPrice *float64 `json:"finalOfferPrice,omitempty" bson:"final_offer_price,omitempty"`
	OfferText       string   `json:"offerText,omitempty" bson:"offer_text,omitempty"`
}

// ProductDetails 是一个商品加上计算出的优惠上下文。
type ProductDetails struct {
	Product        `bson:",inline"`
	BestOffers     []OfferCalculations `json:"bestOffers" bson:"best_offers"`
	UserCardOffers []OfferCalculations `json:"userCardOffers" bson:"user_card_offers"`
}

// CartDetails 是最终持久化并返回给调用方的聚合结果。
// 每次请求整体生成，按 user_id 覆盖写入，写后不可变。
type CartDetails struct {
	UserID         string           `json:"userId" bson:"user_id"`
	ProductDetails []ProductDetails `json:"productDetails" bson:"product_details"`
}
