package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes SOS payloads to a topic, keyed by request id.
type KafkaSink struct {
	writer MessageWriter
	log    *slog.Logger
}

type kafkaPayload struct {
	ID          string               `json:"id"`
	Kind        models.BroadcastKind `json:"kind"`
	Description string               `json:"description"`
	Location    models.Coordinates   `json:"location"`
	SentAt      time.Time            `json:"sent_at"`
}

// NewKafkaWriter creates a synchronous writer for the SOS topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    1,
		WriteTimeout: 10 * time.Second,
	}
}

// NewKafkaSink creates a sink writing through w.
func NewKafkaSink(w MessageWriter, log *slog.Logger) *KafkaSink {
	return &KafkaSink{writer: w, log: log}
}

func (s *KafkaSink) Deliver(ctx context.Context, kind models.BroadcastKind, req models.BroadcastRequest) error {
	value, err := json.Marshal(kafkaPayload{
		ID:          req.ID,
		Kind:        kind,
		Description: req.Description,
		Location:    req.Location,
		SentAt:      req.SentAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode SOS message: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(req.ID),
		Value:   value,
		Time:    req.SentAt,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(kind)}},
	}
	if err = s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish SOS message: %w", err)
	}
	s.log.DebugContext(ctx, "SOS published to kafka", "kind", kind, "request_id", req.ID)

	return nil
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
