package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cartview/internal/service/cart/domain"
)

// GormOfferRepository 是 port.OfferRepository 的 GORM 实现。
// 底层驱动是同步阻塞的，按端口契约只应经由隔离工作池调用。
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository 创建一个新的 GORM 仓储实例。
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByIDs 批量解析优惠定义。未命中的 ID 不报错，直接缺席于结果。
func (r *GormOfferRepository) FindByIDs(ctx context.Context, offerIDs []string) ([]domain.Offer, error) {
	if len(offerIDs) == 0 {
		return nil, nil
	}
	var models []OfferModel
	err := r.db.WithContext(ctx).Where("offer_id IN ?", offerIDs).Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstream, "query offers: %v", err)
	}

	offers := make([]domain.Offer, 0, len(models))
	for i := range models {
		offers = append(offers, ToDomainOffer(&models[i]))
	}
	return offers, nil
}
