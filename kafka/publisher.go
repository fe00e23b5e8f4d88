package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/talalam23/stock-wise/pkg/logger"
)

// Publisher wraps a Kafka producer. Publishing is best-effort: a committed
// stock change never waits on the broker, and a nil Publisher is a no-op.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishStockMovement publishes a stock movement event with tracing
func (p *Publisher) PublishStockMovement(ctx context.Context, event StockMovementEvent) error {
	if p == nil {
		return nil
	}

	tracer := otel.Tracer("kafka-publisher")
	_, span := tracer.Start(ctx, "kafka.publish.stock_movement",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicStockMovements),
			attribute.String("event.type", EventTypeStockMovement),
			attribute.String("movement.id", event.MovementID),
			attribute.String("product.id", event.ProductID),
			attribute.Int("movement.quantity", event.Quantity),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	event.EventType = EventTypeStockMovement
	event.Timestamp = time.Now()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicStockMovements,
		Key:   sarama.StringEncoder(event.ProductID),
		Value: sarama.ByteEncoder(eventBytes),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("messaging.kafka.partition", int64(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)

	logger.Logger.Debug().
		Str("event_id", event.EventID).
		Str("product_id", event.ProductID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Stock movement event published")

	return nil
}

// Close shuts down the producer
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
