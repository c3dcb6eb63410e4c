package domain

// Payment 是支付上游返回的用户存储支付方式。
type Payment struct {
	UserID      string      `json:"userId"`
	Address     Address     `json:"address"`
	PaymentInfo PaymentInfo `json:"paymentInfo"`
}

// Address 是账单地址。
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentInfo 持有用户的借记卡与信用卡列表。
type PaymentInfo struct {
	DebitCards  []CardInfo   `json:"debitCards"`
	CreditCards []CreditCard `json:"creditCards"`
}

// CardInfo 是一张已存储卡片在请求生命周期内的不可变快照。
type CardInfo struct {
	Number    string `json:"number"`
	Name      string `json:"name"`
	ValidTill string `json:"validTill"`
	CVV       string `json:"cvv"`
	BankName  string `json:"bankName"`
	Provider  string `json:"provider"`
}

// Identity 返回发卡行与卡组织，优惠匹配只看这两个维度。
func (c CardInfo) Identity() (bankName, provider string) {
	return c.BankName, c.Provider
}

// CreditCard 在普通卡片之上带有分期资质与额度。
type CreditCard struct {
	CardInfo
	EMIAvailable bool `json:"emiAvailable"`
	CreditLimit  int  `json:"creditLimit"`
}
