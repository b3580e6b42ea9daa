package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// PublishObserver is notified of every publish attempt
type PublishObserver interface {
	EventPublished(err error)
}

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	source   string
	observer PublishObserver
}

// NewPublisher creates a new Kafka publisher. source identifies this instance in events.
func NewPublisher(brokers []string, source string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("source", source).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, source), nil
}

// NewPublisherWithProducer creates a publisher on an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, source string) *Publisher {
	return &Publisher{producer: producer, source: source}
}

// SetObserver sets the publish observer
func (p *Publisher) SetObserver(o PublishObserver) {
	p.observer = o
}

var _ domain.EventPublisher = (*Publisher)(nil)

// PublishInventoryUpdated publishes an inventory updated event with tracing
func (p *Publisher) PublishInventoryUpdated(ctx context.Context, product domain.Product, previousCount int) error {
	event := InventoryUpdatedEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTypeInventoryUpdated,
		Source:          p.source,
		ProductID:       product.ID,
		SKU:             product.SKU,
		PreviousCount:   previousCount,
		InventoryCount:  product.InventoryCount,
		InventoryStatus: string(product.InventoryStatus),
		Timestamp:       time.Now().UTC(),
	}

	err := p.publish(ctx, event)
	if p.observer != nil {
		p.observer.EventPublished(err)
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, event InventoryUpdatedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.inventory_updated",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicInventoryUpdated),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeInventoryUpdated),
			attribute.String("event.id", event.EventID),
			attribute.Int64("product.id", event.ProductID),
			attribute.Int("product.inventory_count", event.InventoryCount),
		),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Trace context travels in the headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(EventTypeInventoryUpdated)},
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicInventoryUpdated,
		Key:     sarama.StringEncoder("product_" + strconv.FormatInt(event.ProductID, 10)),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", TopicInventoryUpdated).
			Int64("product_id", event.ProductID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Info(ctx).
		Str("event_id", event.EventID).
		Str("topic", TopicInventoryUpdated).
		Int32("partition", partition).
		Int64("offset", offset).
		Int64("product_id", event.ProductID).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
