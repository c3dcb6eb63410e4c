package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cartview/internal/pkg/logger"
	"cartview/internal/pkg/metrics"
	"cartview/internal/service/cart/domain"
	"cartview/internal/service/cart/domain/port"
)

// CachedOfferRepository 在关系库仓储之前加一层 Redis 读穿缓存。
// 优惠定义是只读参考数据，适合按 ID 缓存；Redis 故障时直接回源，不影响请求。
// 注意这与请求内的 flight 多路复用无关：后者只活在单次请求里。
type CachedOfferRepository struct {
	inner port.OfferRepository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedOfferRepository 用给定 TTL 包装一个底层仓储。
func NewCachedOfferRepository(inner port.OfferRepository, rdb *redis.Client, ttl time.Duration) *CachedOfferRepository {
	return &CachedOfferRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func offerKey(id string) string {
	return fmt.Sprintf("offer:{%s}", id)
}

func (c *CachedOfferRepository) FindByIDs(ctx context.Context, offerIDs []string) ([]domain.Offer, error) {
	if len(offerIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(offerIDs))
	for i, id := range offerIDs {
		keys[i] = offerKey(id)
	}

	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		// 缓存不可用时降级回源
		logger.Ctx(ctx).Warn().Err(err).Msg("offer cache unavailable, falling back to store")
		return c.inner.FindByIDs(ctx, offerIDs)
	}

	offers := make([]domain.Offer, 0, len(offerIDs))
	var misses []string
	for i, raw := range cached {
		s, ok := raw.(string)
		if !ok {
			misses = append(misses, offerIDs[i])
			continue
		}
		var offer domain.Offer
		if err := json.Unmarshal([]byte(s), &offer); err != nil {
			misses = append(misses, offerIDs[i])
			continue
		}
		offers = append(offers, offer)
	}
	metrics.OfferCacheHits.WithLabelValues("hit").Add(float64(len(offers)))
	metrics.OfferCacheHits.WithLabelValues("miss").Add(float64(len(misses)))

	if len(misses) == 0 {
		return offers, nil
	}

	fetched, err := c.inner.FindByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	c.backfill(ctx, fetched)
	return append(offers, fetched...), nil
}

func (c *CachedOfferRepository) backfill(ctx context.Context, offers []domain.Offer) {
	if len(offers) == 0 {
		return
	}
	pipe := c.rdb.Pipeline()
	for _, offer := range offers {
		data, err := json.Marshal(offer)
		if err != nil {
			continue
		}
		pipe.Set(ctx, offerKey(offer.OfferID), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to backfill offer cache")
	}
}
