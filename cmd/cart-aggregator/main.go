package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"

	"cartview/internal/pkg/blockpool"
	"cartview/internal/pkg/bootstrap"
	"cartview/internal/pkg/httpclient"
	cartapp "cartview/internal/service/cart/application"
	"cartview/internal/service/cart/domain/port"
	cartinfra "cartview/internal/service/cart/infrastructure"
	"cartview/internal/service/cart/infrastructure/adapter"
	cartiface "cartview/internal/service/cart/interfaces"
	catalogapp "cartview/internal/service/catalog/application"
	cataloginfra "cartview/internal/service/catalog/infrastructure"
	catalogiface "cartview/internal/service/catalog/interfaces"
)

const serviceName = "cart-aggregator"

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	var (
		mongoClient *mongo.Client
		kafkaWriter *kafka.Writer
	)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			tracer := otel.Tracer(serviceName)
			client := httpclient.NewClient(tracer)

			db, err := cartinfra.OpenMySQL(cfg.Infra.Mysql.DSN, int(cfg.OfferLookup.MaxWorkers))
			if err != nil {
				log.Fatalf("failed to open mysql: %v", err)
			}
			if err := cartinfra.RunMigrations(db); err != nil {
				log.Fatalf("failed to run migrations: %v", err)
			}

			mongoDB, err := cartinfra.ConnectMongo(ctx, cfg.Infra.Mongo.URI, cfg.Infra.Mongo.Database)
			if err != nil {
				log.Fatalf("failed to connect mongo: %v", err)
			}
			mongoClient = mongoDB.Client()

			// 优惠定义是只读参考数据，开关打开时在关系库前挂一层 Redis 读穿缓存
			var offerRepo port.OfferRepository = cartinfra.NewGormOfferRepository(db)
			if cfg.App.FeatureFlags.EnableOfferCache {
				rdb := redis.NewClient(&redis.Options{
					Addr:     cfg.Infra.Redis.Addr,
					Password: cfg.Infra.Redis.Password,
					DB:       cfg.Infra.Redis.DB,
				})
				ttl := time.Duration(cfg.Infra.Redis.TTLSeconds) * time.Second
				offerRepo = cartinfra.NewCachedOfferRepository(offerRepo, rdb, ttl)
			}

			var events port.AggregateEventProducer
			if cfg.App.FeatureFlags.EnableAggregateEvents {
				kafkaWriter = cartinfra.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
				events = cartinfra.NewAggregateKafkaProducer(kafkaWriter)
			}

			cartService := cartapp.NewCartService(
				adapter.NewCartHTTPAdapter(client, cfg.Upstream.CartBaseURL),
				adapter.NewPaymentHTTPAdapter(client, cfg.Upstream.PaymentBaseURL),
				adapter.NewCatalogHTTPAdapter(client, cfg.Upstream.ProductBaseURL),
				adapter.NewStockHTTPAdapter(client, cfg.Upstream.StockBaseURL),
				offerRepo,
				cartinfra.NewMongoAggregateRepository(mongoDB),
				events,
				blockpool.New(cfg.OfferLookup.MaxWorkers),
				tracer,
			)
			cartiface.NewCartHandler(cartService).RegisterRoutes(appCtx.Mux)

			catalogService := catalogapp.NewCatalogService(
				cataloginfra.NewFeedHTTPAdapter(client, cfg.Upstream.FeedURL),
				cataloginfra.NewMongoProductRepository(mongoDB),
				tracer,
			)
			catalogiface.NewCatalogHandler(catalogService).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if kafkaWriter != nil {
				if err := kafkaWriter.Close(); err != nil {
					log.Printf("Error closing kafka writer: %v", err)
				}
			}
			if mongoClient != nil {
				if err := mongoClient.Disconnect(ctx); err != nil {
					log.Printf("Error disconnecting mongo client: %v", err)
				}
			}
		},
	})
}
