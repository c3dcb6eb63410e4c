package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// PaymentFetcher 是支付方式上游的出站端口。
type PaymentFetcher interface {
	FetchPayment(ctx context.Context, userID string) (*domain.Payment, error)
}
