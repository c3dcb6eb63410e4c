package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cartview/internal/pkg/blockpool"
	"cartview/internal/pkg/flight"
	"cartview/internal/pkg/logger"
	"cartview/internal/pkg/metrics"
	"cartview/internal/service/cart/domain"
	"cartview/internal/service/cart/domain/port"
)

// offerBatchSize 限制单次关系库查询携带的优惠 ID 数量，
// 超出的 ID 集合会被切成多个独立隔离的子批。
const offerBatchSize = 500

// CartService 驱动整个聚合流水线：
// 购物车与支付并行取数 → 按商品扇出目录与库存报价（多路复用）→
// 优惠 ID 去重分批走隔离池查关系库 → 汇合后逐商品计算优惠 → 持久化。
// 任一必需分支失败则整个请求失败，不返回部分结果。
type CartService struct {
	carts     port.CartFetcher
	payments  port.PaymentFetcher
	catalog   port.ProductFetcher
	stock     port.StockOfferFetcher
	offerRepo port.OfferRepository
	store     port.AggregateRepository
	events    port.AggregateEventProducer // 可为 nil（feature flag 关闭时）

	offerPool *blockpool.Pool
	tracer    trace.Tracer
}

// NewCartService 创建聚合服务。events 传 nil 表示不发布聚合事件。
func NewCartService(
	carts port.CartFetcher,
	payments port.PaymentFetcher,
	catalog port.ProductFetcher,
	stock port.StockOfferFetcher,
	offerRepo port.OfferRepository,
	store port.AggregateRepository,
	events port.AggregateEventProducer,
	offerPool *blockpool.Pool,
	tracer trace.Tracer,
) *CartService {
	return &CartService{
		carts:     carts,
		payments:  payments,
		catalog:   catalog,
		stock:     stock,
		offerRepo: offerRepo,
		store:     store,
		events:    events,
		offerPool: offerPool,
		tracer:    tracer,
	}
}

// GetCartDetails 为一个用户装配完整的购物车聚合视图并持久化。
func (s *CartService) GetCartDetails(ctx context.Context, userID string) (*domain.CartDetails, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetCartDetails")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	details, err := s.buildCartDetails(ctx, userID)
	metrics.AggregateBuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.AggregateRequests.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	stored, err := s.store.Save(ctx, details)
	if err != nil {
		span.RecordError(err)
		metrics.AggregateRequests.WithLabelValues("storage_error").Inc()
		return nil, errors.WithMessage(err, "persist cart aggregate")
	}
	metrics.AggregateRequests.WithLabelValues("success").Inc()

	// 事件发布在持久化成功之后，失败只记日志，不影响响应
	if s.events != nil {
		if err := s.events.AggregateStored(ctx, stored); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("failed to publish aggregate event")
		}
	}
	return stored, nil
}

func (s *CartService) buildCartDetails(ctx context.Context, userID string) (*domain.CartDetails, error) {
	g, gctx := errgroup.WithContext(ctx)

	// 购物车与支付相互独立，最先并行发起
	var payment *domain.Payment
	g.Go(func() error {
		p, err := s.payments.FetchPayment(gctx, userID)
		if err != nil {
			return errors.WithMessagef(err, "fetch payment for user %s", userID)
		}
		payment = p
		return nil
	})

	var (
		productIDs []string
		products   []*domain.Product
		stocks     []*domain.StockOffers
		offers     []domain.Offer
	)
	g.Go(func() error {
		cart, err := s.carts.FetchCart(gctx, userID)
		if err != nil {
			return errors.WithMessagef(err, "fetch cart for user %s", userID)
		}
		productIDs = distinctProductIDs(cart)

		products, stocks, offers, err = s.fanOutProducts(gctx, productIDs)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	productDetails, err := s.buildProductDetails(ctx, productIDs, products, offers, stocks, payment)
	if err != nil {
		return nil, err
	}
	return &domain.CartDetails{UserID: userID, ProductDetails: productDetails}, nil
}

// fanOutProducts 在购物车解析后展开两路并行扇出：
// 每个商品的目录详情取数，以及经多路复用的库存报价取数。
// 库存报价被两个消费方读取（价格、优惠 ID 列表），底层取数每个商品只发生一次。
func (s *CartService) fanOutProducts(ctx context.Context, productIDs []string) ([]*domain.Product, []*domain.StockOffers, []domain.Offer, error) {
	var mux flight.Group[string, *domain.StockOffers]
	fetchStock := func(c context.Context, pid string) (*domain.StockOffers, error) {
		return mux.Do(c, pid, func(fc context.Context) (*domain.StockOffers, error) {
			return s.stock.FetchStockOffers(fc, pid)
		})
	}

	products := make([]*domain.Product, len(productIDs))
	stocks := make([]*domain.StockOffers, len(productIDs))
	var offers []domain.Offer

	g, gctx := errgroup.WithContext(ctx)
	for i, pid := range productIDs {
		g.Go(func() error {
			p, err := s.catalog.FetchProduct(gctx, pid)
			if err != nil {
				return errors.WithMessagef(err, "fetch product %s", pid)
			}
			products[i] = p
			return nil
		})
		g.Go(func() error {
			// 价格/库存消费方
			so, err := fetchStock(gctx, pid)
			if err != nil {
				return errors.WithMessagef(err, "fetch stock/offers for product %s", pid)
			}
			stocks[i] = so
			return nil
		})
	}

	// 优惠 ID 消费方：库存报价的第二个读取方。依赖 flight 的回放语义，
	// 不会触发重复取数。全部解析后去重、按 500 切批、经隔离池查关系库。
	g.Go(func() error {
		ids := make([][]string, len(productIDs))
		inner, ictx := errgroup.WithContext(gctx)
		for i, pid := range productIDs {
			inner.Go(func() error {
				so, err := fetchStock(ictx, pid)
				if err != nil {
					return errors.WithMessagef(err, "fetch stock/offers for product %s", pid)
				}
				ids[i] = so.OfferIDs
				return nil
			})
		}
		if err := inner.Wait(); err != nil {
			return err
		}

		resolved, err := s.resolveOffers(gctx, dedupeOfferIDs(ids))
		if err != nil {
			return err
		}
		offers = resolved
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return products, stocks, offers, nil
}

// resolveOffers 把去重后的优惠 ID 切批后在隔离池上并行解析，结果按批次顺序拼接。
func (s *CartService) resolveOffers(ctx context.Context, offerIDs []string) ([]domain.Offer, error) {
	if len(offerIDs) == 0 {
		return nil, nil
	}
	batches := chunkStrings(offerIDs, offerBatchSize)
	results := make([][]domain.Offer, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		metrics.OfferLookupBatchSize.Observe(float64(len(batch)))
		g.Go(func() error {
			// 阻塞型关系库调用只允许在隔离池里执行
			res, err := blockpool.Do(gctx, s.offerPool, func() ([]domain.Offer, error) {
				return s.offerRepo.FindByIDs(gctx, batch)
			})
			if err != nil {
				return errors.WithMessage(err, "resolve offer definitions")
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.Offer
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// distinctProductIDs 按首次出现顺序返回购物车里的去重商品 ID。
func distinctProductIDs(cart *domain.Cart) []string {
	seen := make(map[string]struct{}, len(cart.Products))
	ids := make([]string, 0, len(cart.Products))
	for _, p := range cart.Products {
		if _, ok := seen[p.ProductID]; ok {
			continue
		}
		seen[p.ProductID] = struct{}{}
		ids = append(ids, p.ProductID)
	}
	return ids
}

// dedupeOfferIDs 跨商品去重优惠 ID，保持发现顺序。
func dedupeOfferIDs(perProduct [][]string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, list := range perProduct {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func chunkStrings(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStorage):
		return "storage_error"
	default:
		return "upstream_error"
	}
}
