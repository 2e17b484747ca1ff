package broadcast

import (
	"errors"
	"fmt"
	"log/slog"
)

// SinkType represents where SOS messages are delivered.
type SinkType string

const (
	// SinkTypeHTTP posts to the health backend.
	SinkTypeHTTP SinkType = "http"
	// SinkTypeKafka publishes to a Kafka topic.
	SinkTypeKafka SinkType = "kafka"
)

// SinkConfig holds configuration for creating a sink.
type SinkConfig struct {
	Type         SinkType     // Type of sink to create
	Backend      Doer         // Backend is used by the http sink
	KafkaBrokers []string     // KafkaBrokers are used by the kafka sink
	KafkaTopic   string       // KafkaTopic is used by the kafka sink
	Logger       *slog.Logger // Logger for the sink
}

// NewSink creates a sink based on the provided configuration.
func NewSink(config SinkConfig) (Sink, error) {
	switch config.Type {
	case SinkTypeHTTP:
		if config.Backend == nil {
			return nil, errors.New("backend client is required for http sink")
		}
		return NewHTTPSink(config.Backend, config.Logger), nil
	case SinkTypeKafka:
		if len(config.KafkaBrokers) == 0 || config.KafkaTopic == "" {
			return nil, errors.New("brokers and topic are required for kafka sink")
		}
		return NewKafkaSink(NewKafkaWriter(config.KafkaBrokers, config.KafkaTopic), config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", config.Type)
	}
}
