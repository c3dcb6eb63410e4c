package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// ProductFetcher 是商品目录上游的出站端口。
type ProductFetcher interface {
	FetchProduct(ctx context.Context, productID string) (*domain.Product, error)
}
