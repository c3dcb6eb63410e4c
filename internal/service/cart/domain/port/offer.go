package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// OfferRepository 按 ID 批量解析优惠定义。
// 实现是同步阻塞的（非响应式驱动），调用方必须经由隔离的工作池执行，
// 单次批量不超过 500 个 ID。
type OfferRepository interface {
	FindByIDs(ctx context.Context, offerIDs []string) ([]domain.Offer, error)
}
