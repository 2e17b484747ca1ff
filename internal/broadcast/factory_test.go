package broadcast_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/lifeline/internal/broadcast"
	"github.com/UnknownOlympus/lifeline/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSink(t *testing.T) {
	logger := slog.Default()

	t.Run("http", func(t *testing.T) {
		sink, err := broadcast.NewSink(broadcast.SinkConfig{
			Type: broadcast.SinkTypeHTTP, Backend: mocks.NewDoer(t), Logger: logger,
		})

		require.NoError(t, err)
		_, ok := sink.(*broadcast.HTTPSink)
		assert.True(t, ok, "expected sink to be *HTTPSink")
	})

	t.Run("http without backend", func(t *testing.T) {
		_, err := broadcast.NewSink(broadcast.SinkConfig{Type: broadcast.SinkTypeHTTP, Logger: logger})

		require.Error(t, err)
	})

	t.Run("kafka", func(t *testing.T) {
		sink, err := broadcast.NewSink(broadcast.SinkConfig{
			Type:         broadcast.SinkTypeKafka,
			KafkaBrokers: []string{"localhost:9092"},
			KafkaTopic:   "sos-broadcasts",
			Logger:       logger,
		})

		require.NoError(t, err)
		kafkaSink, ok := sink.(*broadcast.KafkaSink)
		require.True(t, ok, "expected sink to be *KafkaSink")
		require.NoError(t, kafkaSink.Close())
	})

	t.Run("kafka without topic", func(t *testing.T) {
		_, err := broadcast.NewSink(broadcast.SinkConfig{
			Type: broadcast.SinkTypeKafka, KafkaBrokers: []string{"localhost:9092"}, Logger: logger,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "brokers and topic are required")
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := broadcast.NewSink(broadcast.SinkConfig{Type: "sms", Logger: logger})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported sink type: sms")
	})
}
