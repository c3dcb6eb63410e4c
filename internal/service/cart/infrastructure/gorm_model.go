package infrastructure

// OfferModel 是 Offer 领域对象在 offers 表中的表示。
type OfferModel struct {
	OfferID      string  `gorm:"column:offer_id;primaryKey"`
	OfferDetails string  `gorm:"column:offer_details"`
	CardType     string  `gorm:"column:card_type"`
	BankName     string  `gorm:"column:bank_name"`
	ProviderType string  `gorm:"column:provider_type"`
	EMIAvailable bool    `gorm:"column:emi_available"`
	CashBack     float64 `gorm:"column:cashback_value"`
	CashbackType string  `gorm:"column:cashback_type"`
	MaxCashBack  float64 `gorm:"column:cashback_max"`
}

func (OfferModel) TableName() string {
	return "offers"
}
