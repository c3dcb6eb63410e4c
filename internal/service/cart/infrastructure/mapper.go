package infrastructure

import "cartview/internal/service/cart/domain"

// ToDomainOffer 将数据库模型转换为领域模型。
func ToDomainOffer(model *OfferModel) domain.Offer {
	return domain.Offer{
		OfferID:      model.OfferID,
		Details:      model.OfferDetails,
		CardType:     domain.CardType(model.CardType),
		BankName:     model.BankName,
		Provider:     model.ProviderType,
		EMIAvailable: model.EMIAvailable,
		CashBack:     model.CashBack,
		CashbackType: domain.CashbackType(model.CashbackType),
		MaxCashBack:  model.MaxCashBack,
	}
}

// FromDomainOffer 将领域模型转换为数据库模型。
func FromDomainOffer(offer domain.Offer) *OfferModel {
	return &OfferModel{
		OfferID:      offer.OfferID,
		OfferDetails: offer.Details,
		CardType:     string(offer.CardType),
		BankName:     offer.BankName,
		ProviderType: offer.Provider,
		EMIAvailable: offer.EMIAvailable,
		CashBack:     offer.CashBack,
		CashbackType: string(offer.CashbackType),
		MaxCashBack:  offer.MaxCashBack,
	}
}
