package domain

// CashbackType 区分固定金额与百分比两种折扣口径。
type CashbackType string

const (
	CashbackFlat    CashbackType = "FLAT"
	CashbackPercent CashbackType = "PERCENT"
)

// CardType 标记一条优惠面向的卡种。
type CardType string

const (
	CardTypeCredit CardType = "CREDIT"
	CardTypeDebit  CardType = "DEBIT"
)

// Offer 是关系库中的一条银行/卡组织折扣规则，只读参考数据。
type Offer struct {
	OfferID      string
	Details      string
	CardType     CardType
	BankName     string
	Provider     string
	EMIAvailable bool
	CashBack     float64
	CashbackType CashbackType
	MaxCashBack  float64
}
