package application

import (
	"context"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cartview/internal/pkg/logger"
	"cartview/internal/service/catalog/domain"
	"cartview/internal/service/catalog/domain/port"
)

// CatalogService 代理外部商品 feed，并支持把 feed 商品并行清洗后落库。
type CatalogService struct {
	feed   port.ProductFeed
	repo   port.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(feed port.ProductFeed, repo port.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{feed: feed, repo: repo, tracer: tracer}
}

// ListProducts 原样透传 feed 的商品列表。
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.FeedProduct, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListProducts")
	defer span.End()

	products, err := s.feed.ListProducts(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.products", len(products)))
	return products, nil
}

// SyncProducts 拉取 feed、按 CPU 数并行清洗每条商品，然后整体落库并返回。
func (s *CatalogService) SyncProducts(ctx context.Context) ([]domain.FeedProduct, error) {
	ctx, span := s.tracer.Start(ctx, "service.SyncProducts")
	defer span.End()

	products, err := s.feed.ListProducts(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range products {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			products[i] = normalizeProduct(products[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveAll(ctx, products); err != nil {
		span.RecordError(err)
		return nil, errors.WithMessage(err, "save feed products")
	}

	logger.Ctx(ctx).Info().Int("count", len(products)).Msg("feed products synced")
	span.SetAttributes(attribute.Int("feed.synced", len(products)))
	return products, nil
}

// normalizeProduct 统一 feed 数据的格式：去掉标题首尾空白、类目小写。
func normalizeProduct(p domain.FeedProduct) domain.FeedProduct {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	return p
}
