package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// AggregateEventProducer 在聚合结果持久化成功后对外发布事件。
// 发布失败不影响请求结果。
type AggregateEventProducer interface {
	AggregateStored(ctx context.Context, details *domain.CartDetails) error
}
