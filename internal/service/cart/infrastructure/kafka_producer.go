package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"cartview/internal/service/cart/domain"
)

// CartAggregatedEvent 是聚合结果落库后对外广播的事件。
type CartAggregatedEvent struct {
	UserID       string    `json:"user_id"`
	ProductCount int       `json:"product_count"`
	AggregatedAt time.Time `json:"aggregated_at"`
}

// AggregateKafkaProducer 是 port.AggregateEventProducer 的 Kafka 实现。
type AggregateKafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaWriter 创建事件主题的 writer，按 user_id 哈希分区。
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewAggregateKafkaProducer(writer *kafka.Writer) *AggregateKafkaProducer {
	return &AggregateKafkaProducer{writer: writer}
}

func (p *AggregateKafkaProducer) AggregateStored(ctx context.Context, details *domain.CartDetails) error {
	event := CartAggregatedEvent{
		UserID:       details.UserID,
		ProductCount: len(details.ProductDetails),
		AggregatedAt: time.Now().UTC(),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(details.UserID),
		Value: eventBytes,
	})
}
