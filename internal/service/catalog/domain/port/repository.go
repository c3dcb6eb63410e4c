package port

import (
	"context"

	"cartview/internal/service/catalog/domain"
)

// ProductRepository 持久化从 feed 同步下来的商品。
type ProductRepository interface {
	SaveAll(ctx context.Context, products []domain.FeedProduct) error
}
