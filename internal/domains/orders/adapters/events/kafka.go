package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
)

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events as JSON, keyed by order id so that all events of an
// order land on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaPublisher queues events for the given brokers and topic. Writes are asynchronous:
// Publish returns once the message is buffered and delivery failures are logged.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		Completion:             deliveryLogger(logger, topic),
	})
}

func newPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, timeout: time.Second}
}

// deliveryLogger reports batches the async writer failed to deliver.
func deliveryLogger(logger *slog.Logger, topic string) func([]kafka.Message, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range msgs {
			logger.Warn("order event not delivered",
				slog.String("topic", topic),
				slog.String("orderId", string(msg.Key)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ports.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events; used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ports.Event) error { return nil }
