package adapter

import (
	"context"
	"time"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/service/cart/domain"
)

// PaymentHTTPAdapter 实现了 port.PaymentFetcher。
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *PaymentHTTPAdapter) FetchPayment(ctx context.Context, userID string) (*domain.Payment, error) {
	start := time.Now()
	var payment domain.Payment
	err := a.client.GetJSON(ctx, a.baseURL+userID, &payment)
	if err := observe("payment", start, err); err != nil {
		return nil, err
	}
	return &payment, nil
}
