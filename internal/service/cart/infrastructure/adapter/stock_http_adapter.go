package adapter

import (
	"context"
	"time"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/service/cart/domain"
)

// StockHTTPAdapter 实现了 port.StockOfferFetcher。
// 同一商品的结果在一次请求里会被读取两次，去重由应用层的 flight.Group 负责，
// 适配器本身每次调用都是一次真实的上游请求。
type StockHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewStockHTTPAdapter(client *httpclient.Client, baseURL string) *StockHTTPAdapter {
	return &StockHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *StockHTTPAdapter) FetchStockOffers(ctx context.Context, productID string) (*domain.StockOffers, error) {
	start := time.Now()
	var so domain.StockOffers
	err := a.client.GetJSON(ctx, a.baseURL+productID, &so)
	if err := observe("stock", start, err); err != nil {
		return nil, err
	}
	return &so, nil
}
