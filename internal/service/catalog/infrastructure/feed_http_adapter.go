package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/service/catalog/domain"
)

// FeedHTTPAdapter 实现了 port.ProductFeed。
type FeedHTTPAdapter struct {
	client *httpclient.Client
	url    string
}

func NewFeedHTTPAdapter(client *httpclient.Client, url string) *FeedHTTPAdapter {
	return &FeedHTTPAdapter{client: client, url: url}
}

func (a *FeedHTTPAdapter) ListProducts(ctx context.Context) ([]domain.FeedProduct, error) {
	var products []domain.FeedProduct
	if err := a.client.GetJSON(ctx, a.url, &products); err != nil {
		return nil, errors.WithMessage(err, "fetch product feed")
	}
	return products, nil
}
