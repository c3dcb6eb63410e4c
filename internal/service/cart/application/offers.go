package application

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"cartview/internal/pkg/logger"
	"cartview/internal/service/cart/domain"
)

const offerNotApplicableText = "offer is not applicable as the discount is greater than price"

// buildProductDetails 逐商品运行优惠计算引擎，输出顺序与购物车首次引用顺序一致。
func (s *CartService) buildProductDetails(
	ctx context.Context,
	productIDs []string,
	products []*domain.Product,
	offers []domain.Offer,
	stocks []*domain.StockOffers,
	payment *domain.Payment,
) ([]domain.ProductDetails, error) {
	offerMap := make(map[string]domain.Offer, len(offers))
	for _, o := range offers {
		offerMap[o.OfferID] = o
	}
	stockMap := make(map[string]*domain.StockOffers, len(stocks))
	for _, so := range stocks {
		if so != nil {
			stockMap[so.ProductID] = so
		}
	}

	details := make([]domain.ProductDetails, 0, len(productIDs))
	for i, pid := range productIDs {
		stock, ok := stockMap[pid]
		if !ok {
			// 没有库存报价就没有可信的价格，宁可失败也不用 0 价计算折扣
			return nil, errors.Wrapf(domain.ErrNotFound, "no stock/offer record for product %s", pid)
		}

		productOffers := s.offersForProduct(ctx, pid, stock.OfferIDs, offerMap)
		best := make([]domain.OfferCalculations, 0, len(productOffers))
		for _, offer := range productOffers {
			best = append(best, calculateOffer(offer, stock.Price))
		}

		details = append(details, domain.ProductDetails{
			Product:        *products[i],
			BestOffers:     best,
			UserCardOffers: curatedOffers(best, productOffers, payment.PaymentInfo),
		})
	}
	return details, nil
}

// offersForProduct 把商品挂载的优惠 ID 解析成已落库的优惠定义，保持发现顺序。
// 解析不到的 ID 属于数据一致性缺陷：记日志并丢弃该条优惠，不让它拖垮整个请求。
func (s *CartService) offersForProduct(ctx context.Context, productID string, offerIDs []string, offerMap map[string]domain.Offer) []domain.Offer {
	seen := make(map[string]struct{}, len(offerIDs))
	out := make([]domain.Offer, 0, len(offerIDs))
	for _, id := range offerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		offer, ok := offerMap[id]
		if !ok {
			logger.Ctx(ctx).Warn().
				Str("offer_id", id).
				Str("product_id", productID).
				Msg("offer referenced by product was not resolved, dropping it")
			continue
		}
		out = append(out, offer)
	}
	return out
}

// calculateOffer 计算一条优惠在给定价格下的最终价。
//
// PERCENT 口径沿用既有数据的历史行为：max(price*percent/100, cashback_max)
// 让 cashback_max 实际成为折扣的下限而非常规的上限。疑似源头缺陷，
// 在业务澄清之前保持与线上结果一致。
func calculateOffer(offer domain.Offer, price float64) domain.OfferCalculations {
	calc := domain.OfferCalculations{OfferID: offer.OfferID}
	if offer.CashbackType == domain.CashbackFlat {
		if price > offer.CashBack {
			final := price - offer.CashBack
			calc.FinalOfferPrice = &final
		} else {
			calc.OfferText = offerNotApplicableText
		}
		return calc
	}

	cashbackAmount := math.Max(price*offer.CashBack/100, offer.MaxCashBack)
	final := price - cashbackAmount
	calc.FinalOfferPrice = &final
	return calc
}

// cardIdentity 抽象“一张卡”的优惠匹配维度，借记卡与信用卡共用同一条匹配路径。
type cardIdentity interface {
	Identity() (bankName, provider string)
}

// curatedOffers 为用户的每张卡挑出第一条发卡行与卡组织都匹配的优惠，
// 并引用其在 best offers 中已经算好的结果。精选列表永远是 best offers
// 的按引用子集，不会独立计算。
func curatedOffers(best []domain.OfferCalculations, productOffers []domain.Offer, info domain.PaymentInfo) []domain.OfferCalculations {
	out := appendCardOffers([]domain.OfferCalculations{}, best, productOffers, info.DebitCards)
	return appendCardOffers(out, best, productOffers, info.CreditCards)
}

func appendCardOffers[C cardIdentity](dst, best []domain.OfferCalculations, productOffers []domain.Offer, cards []C) []domain.OfferCalculations {
	for _, card := range cards {
		bank, provider := card.Identity()
		var matched string
		for _, offer := range productOffers {
			if offer.BankName == bank && offer.Provider == provider {
				matched = offer.OfferID
				break
			}
		}
		if matched == "" {
			continue
		}
		// 匹配到的优惠即便本身不适用（只有说明文案），也原样纳入
		for _, calc := range best {
			if calc.OfferID == matched {
				dst = append(dst, calc)
				break
			}
		}
	}
	return dst
}
