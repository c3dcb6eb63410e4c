package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cartview/internal/service/catalog/domain"
)

const productsCollection = "feed_products"

// MongoProductRepository 是 port.ProductRepository 的 MongoDB 实现。
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(productsCollection)}
}

// SaveAll 按商品 ID 批量 upsert，一次 BulkWrite 提交。
func (r *MongoProductRepository) SaveAll(ctx context.Context, products []domain.FeedProduct) error {
	if len(products) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := r.collection.BulkWrite(ctx, models, opts); err != nil {
		return errors.Wrap(err, "bulk write feed products")
	}
	return nil
}
