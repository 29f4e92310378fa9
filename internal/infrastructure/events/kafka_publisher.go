// Package events publica los eventos del core de ventas en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

// EventTypeSaleCreated tipo enviado en el header event_type.
const EventTypeSaleCreated = "sale.created"

var _ ports.SaleEventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher envía SaleCreatedEvent con un SyncProducer de sarama.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewKafkaPublisher crea el productor síncrono contra los brokers indicados.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: crear productor: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador Kafka inicializado")
	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaPublisherWithProducer usa un productor ya construido.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

// PublishSaleCreated serializa el evento y propaga el contexto de traza en los headers.
// La clave del mensaje es el propietario para mantener el orden por tenant.
func (p *KafkaPublisher) PublishSaleCreated(ctx context.Context, event ports.SaleCreatedEvent) error {
	ctx, span := otel.Tracer("ventas-api/events").Start(ctx, "kafka.publish.sale_created",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("sale.id", event.SaleID),
			attribute.String("owner.id", event.OwnerID),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("event.id", event.EventID))

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal")
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(EventTypeSaleCreated)},
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(event.OwnerID),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send")
		return fmt.Errorf("kafka: enviar evento %s: %w", event.EventID, err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	p.log.Debug().
		Str("event_id", event.EventID).
		Str("sale_id", event.SaleID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("evento sale.created publicado")
	return nil
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
