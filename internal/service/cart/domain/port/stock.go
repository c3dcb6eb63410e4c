package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// StockOfferFetcher 是库存/报价上游的出站端口。
type StockOfferFetcher interface {
	FetchStockOffers(ctx context.Context, productID string) (*domain.StockOffers, error)
}
