package broadcast_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/broadcast"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/UnknownOlympus/lifeline/test/mocks"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sosRequest() models.BroadcastRequest {
	return models.BroadcastRequest{
		ID:          "0b9f4c2e-7d1a-4d8e-9a57-3f4c1f0d2b6a",
		Description: "help",
		Location:    coords,
		SentAt:      time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestHTTPSink_Deliver(t *testing.T) {
	ctx := t.Context()

	for _, tc := range []struct {
		kind models.BroadcastKind
		path string
	}{
		{models.KindBroadcast, "/emergency/broadcast"},
		{models.KindTrigger, "/emergency/trigger"},
	} {
		t.Run("posts "+string(tc.kind), func(t *testing.T) {
			doer := mocks.NewDoer(t)
			doer.On("Do", mock.Anything, mock.MatchedBy(func(r backend.Request) bool {
				payload, _ := json.Marshal(r.Body)
				return r.Method == "POST" && r.Path == tc.path &&
					r.Headers["X-Request-ID"] == sosRequest().ID &&
					string(payload) == `{"description":"help","location":{"latitude":43.238,"longitude":76.889}}`
			}), mock.Anything).Return(nil).Once()

			err := broadcast.NewHTTPSink(doer, slog.Default()).Deliver(ctx, tc.kind, sosRequest())

			require.NoError(t, err)
		})
	}

	t.Run("backend says no", func(t *testing.T) {
		doer := mocks.NewDoer(t)
		doer.On("Do", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				out := args.Get(2)
				require.NoError(t, json.Unmarshal([]byte(`{"success":false,"message":"no contacts"}`), out))
			}).Return(nil).Once()

		err := broadcast.NewHTTPSink(doer, slog.Default()).Deliver(ctx, models.KindBroadcast, sosRequest())

		require.ErrorIs(t, err, broadcast.ErrRejected)
		assert.Contains(t, err.Error(), "no contacts")
	})

	t.Run("transport failure", func(t *testing.T) {
		doer := mocks.NewDoer(t)
		doer.On("Do", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

		err := broadcast.NewHTTPSink(doer, slog.Default()).Deliver(ctx, models.KindBroadcast, sosRequest())

		require.ErrorIs(t, err, assert.AnError)
	})
}

// mockWriter records published messages.
type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (mw *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if mw.err != nil {
		return mw.err
	}
	mw.messages = append(mw.messages, msgs...)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.closed = true
	return nil
}

func TestKafkaSink_Deliver(t *testing.T) {
	t.Run("publishes keyed by request id", func(t *testing.T) {
		writer := &mockWriter{}
		sink := broadcast.NewKafkaSink(writer, slog.Default())

		require.NoError(t, sink.Deliver(t.Context(), models.KindTrigger, sosRequest()))

		require.Len(t, writer.messages, 1)
		msg := writer.messages[0]
		assert.Equal(t, sosRequest().ID, string(msg.Key))
		assert.Equal(t, "trigger", string(msg.Headers[0].Value))

		var payload map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &payload))
		assert.Equal(t, "help", payload["description"])
		assert.Equal(t, "trigger", payload["kind"])
		assert.Equal(t, "2026-10-18T09:30:00Z", payload["sent_at"])

		require.NoError(t, sink.Close())
		assert.True(t, writer.closed)
	})

	t.Run("write failure", func(t *testing.T) {
		writer := &mockWriter{err: errors.New("leader not available")}
		sink := broadcast.NewKafkaSink(writer, slog.Default())

		err := sink.Deliver(t.Context(), models.KindBroadcast, sosRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish SOS message")
	})
}

func TestNewKafkaWriter(t *testing.T) {
	writer := broadcast.NewKafkaWriter([]string{"localhost:9092"}, "sos-broadcasts")

	assert.Equal(t, "sos-broadcasts", writer.Topic)
	assert.Equal(t, "localhost:9092", writer.Addr.String())
}
