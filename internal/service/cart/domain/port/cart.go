package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// CartFetcher 是购物车上游的出站端口。
type CartFetcher interface {
	FetchCart(ctx context.Context, userID string) (*domain.Cart, error)
}
