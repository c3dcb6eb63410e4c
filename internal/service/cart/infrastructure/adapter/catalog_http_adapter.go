package adapter

import (
	"context"
	"time"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/service/cart/domain"
)

// CatalogHTTPAdapter 实现了 port.ProductFetcher。
type CatalogHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewCatalogHTTPAdapter(client *httpclient.Client, baseURL string) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *CatalogHTTPAdapter) FetchProduct(ctx context.Context, productID string) (*domain.Product, error) {
	start := time.Now()
	var product domain.Product
	err := a.client.GetJSON(ctx, a.baseURL+productID, &product)
	if err := observe("product", start, err); err != nil {
		return nil, err
	}
	return &product, nil
}
