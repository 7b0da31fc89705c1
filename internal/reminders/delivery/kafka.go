package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of kafka.Writer used for delivery.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMessenger writes outbound envelopes to a Kafka topic keyed by owner,
// so one owner's messages stay ordered within a partition.
type KafkaMessenger struct {
	writer MessageWriter
}

// NewKafkaWriter creates a synchronous writer so failed writes surface to the caller.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaMessenger creates a messenger on top of writer.
func NewKafkaMessenger(writer MessageWriter) *KafkaMessenger {
	return &KafkaMessenger{writer: writer}
}

func (m *KafkaMessenger) Send(ctx context.Context, ownerID, text string) error {
	msg := NewOutboundMessage(ownerID, text)
	value, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}

	err = m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ownerID),
		Value: value,
		Time:  msg.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("write outbound message: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (m *KafkaMessenger) Close() error {
	if m.writer != nil {
		return m.writer.Close()
	}
	return nil
}
