package port

import (
	"context"

	"cartview/internal/service/catalog/domain"
)

// ProductFeed 是外部商品 feed 的出站端口。
type ProductFeed interface {
	ListProducts(ctx context.Context) ([]domain.FeedProduct, error)
}
