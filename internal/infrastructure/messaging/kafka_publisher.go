package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
)

var (
	_ billing.EventPublisher = (*KafkaPublisher)(nil)
	_ billing.EventPublisher = NoopPublisher{}
)

// MessageWriter lo que KafkaPublisher necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica InvoiceEvent en un tópico Kafka, un mensaje JSON por evento con key = id de factura.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
}

// NewKafkaPublisher crea el writer contra los brokers dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

// NewKafkaPublisherWithWriter usa un writer ya construido.
func NewKafkaPublisherWithWriter(w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish serializa el evento y lo escribe.
func (p *KafkaPublisher) Publish(ctx context.Context, event billing.InvoiceEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal invoice event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.InvoiceID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close libera el writer (flush de lo pendiente).
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher descarta los eventos. Se usa cuando no hay brokers configurados.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, billing.InvoiceEvent) error { return nil }
