package adapter

import (
	"context"
	"time"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/service/cart/domain"
)

// CartHTTPAdapter 实现了 port.CartFetcher。
type CartHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewCartHTTPAdapter 创建购物车上游适配器。baseURL 形如 http://host/api/v1/cart/。
func NewCartHTTPAdapter(client *httpclient.Client, baseURL string) *CartHTTPAdapter {
	return &CartHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *CartHTTPAdapter) FetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	start := time.Now()
	var cart domain.Cart
	err := a.client.GetJSON(ctx, a.baseURL+userID, &cart)
	if err := observe("cart", start, err); err != nil {
		return nil, err
	}
	return &cart, nil
}
