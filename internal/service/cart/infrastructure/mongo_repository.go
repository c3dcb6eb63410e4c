package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cartview/internal/service/cart/domain"
)

const cartDetailsCollection = "cart_details"

// ConnectMongo 建立到文档库的连接并做一次连通性检查。
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}
	return client.Database(database), nil
}

// MongoAggregateRepository 是 port.AggregateRepository 的 MongoDB 实现。
type MongoAggregateRepository struct {
	collection *mongo.Collection
}

// NewMongoAggregateRepository 创建聚合结果仓储。
func NewMongoAggregateRepository(db *mongo.Database) *MongoAggregateRepository {
	return &MongoAggregateRepository{collection: db.Collection(cartDetailsCollection)}
}

// Save 按 user_id 覆盖写入聚合结果（upsert，last-write-wins），成功时原样返回。
func (r *MongoAggregateRepository) Save(ctx context.Context, details *domain.CartDetails) (*domain.CartDetails, error) {
	filter := bson.M{"user_id": details.UserID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, details, opts); err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "save cart details for user %s: %v", details.UserID, err)
	}
	return details, nil
}
