package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartview/internal/service/cart/domain"
)

func flatOffer(id, bank, provider string, cashback float64) domain.Offer {
	return domain.Offer{
		OfferID:      id,
		BankName:     bank,
		Provider:     provider,
		CashBack:     cashback,
		CashbackType: domain.CashbackFlat,
	}
}

func percentOffer(id string, percent, cap float64) domain.Offer {
	return domain.Offer{
		OfferID:      id,
		CashBack:     percent,
		MaxCashBack:  cap,
		CashbackType: domain.CashbackPercent,
	}
}

func TestCalculateOfferFlat(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		cashback  float64
		wantPrice *float64
		wantText  bool
	}{
		{name: "applicable", price: 100, cashback: 20, wantPrice: ptr(80.0)},
		{name: "discount exceeds price", price: 50, cashback: 60, wantText: true},
		{name: "discount equals price", price: 50, cashback: 50, wantText: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := calculateOffer(flatOffer("o1", "HDFC", "VISA", tt.cashback), tt.price)

			assert.Equal(t, "o1", calc.OfferID)
			if tt.wantText {
				require.Nil(t, calc.FinalOfferPrice)
				assert.NotEmpty(t, calc.OfferText)
			} else {
				require.NotNil(t, calc.FinalOfferPrice)
				assert.Equal(t, *tt.wantPrice, *calc.FinalOfferPrice)
				assert.Empty(t, calc.OfferText)
			}
		})
	}
}

// 百分比口径：finalPrice = price - max(price*percent/100, cap)。
// cap 在这里实际是折扣下限，沿用既有数据的历史行为。
func TestCalculateOfferPercent(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		percent float64
		cap     float64
		want    float64
	}{
		{name: "cap exceeds percent amount", price: 200, percent: 10, cap: 30, want: 170},
		{name: "percent amount exceeds cap", price: 200, percent: 25, cap: 30, want: 150},
		{name: "zero cap", price: 200, percent: 10, cap: 0, want: 180},
		{name: "zero percent", price: 200, percent: 0, cap: 0, want: 200},
		{name: "zero percent nonzero cap", price: 200, percent: 0, cap: 15, want: 185},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := calculateOffer(percentOffer("o1", tt.percent, tt.cap), tt.price)

			require.NotNil(t, calc.FinalOfferPrice)
			assert.Equal(t, tt.want, *calc.FinalOfferPrice)
		})
	}
}

func TestCuratedOffersMatchCardsAgainstProductOffers(t *testing.T) {
	productOffers := []domain.Offer{
		flatOffer("o1", "HDFC", "VISA", 20),
		flatOffer("o2", "ICICI", "MASTERCARD", 500), // 在 price=100 下不适用
		flatOffer("o3", "HDFC", "VISA", 10),         // 与 o1 同行同卡组织，永远不会先被选中
	}
	best := make([]domain.OfferCalculations, 0, len(productOffers))
	for _, o := range productOffers {
		best = append(best, calculateOffer(o, 100))
	}

	info := domain.PaymentInfo{
		DebitCards: []domain.CardInfo{
			{BankName: "HDFC", Provider: "VISA"},
			{BankName: "SBI", Provider: "RUPAY"}, // 无匹配，贡献为空
		},
		CreditCards: []domain.CreditCard{
			{CardInfo: domain.CardInfo{BankName: "ICICI", Provider: "MASTERCARD"}, EMIAvailable: true},
		},
	}

	curated := curatedOffers(best, productOffers, info)
	require.Len(t, curated, 2)

	// 借记卡匹配到第一条 HDFC/VISA 的优惠，引用的是已计算的结果
	assert.Equal(t, "o1", curated[0].OfferID)
	require.NotNil(t, curated[0].FinalOfferPrice)
	assert.Equal(t, 80.0, *curated[0].FinalOfferPrice)

	// 信用卡匹配到的优惠本身不适用，但仍然原样纳入
	assert.Equal(t, "o2", curated[1].OfferID)
	assert.Nil(t, curated[1].FinalOfferPrice)
	assert.NotEmpty(t, curated[1].OfferText)

	// 精选列表必须是 best offers 的按 ID 子集
	bestIDs := make(map[string]struct{})
	for _, b := range best {
		bestIDs[b.OfferID] = struct{}{}
	}
	for _, c := range curated {
		_, ok := bestIDs[c.OfferID]
		assert.True(t, ok, "curated offer %s missing from best offers", c.OfferID)
	}
}

func TestCuratedOffersEmptyWallet(t *testing.T) {
	productOffers := []domain.Offer{flatOffer("o1", "HDFC", "VISA", 20)}
	best := []domain.OfferCalculations{calculateOffer(productOffers[0], 100)}

	curated := curatedOffers(best, productOffers, domain.PaymentInfo{})
	assert.Empty(t, curated)
}

func ptr(f float64) *float64 { return &f }
