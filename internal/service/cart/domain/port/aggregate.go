package port

import (
	"context"

	"cartview/internal/service/cart/domain"
)

// AggregateRepository 把装配完成的聚合结果写入文档库。
// 按 user_id 覆盖写（last-write-wins），成功时原样返回存储的值。
type AggregateRepository interface {
	Save(ctx context.Context, details *domain.CartDetails) (*domain.CartDetails, error)
}
