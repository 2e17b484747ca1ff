package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Sink delivers an SOS payload.
type Sink interface {
	Deliver(ctx context.Context, kind models.BroadcastKind, req models.BroadcastRequest) error
}

// ErrRejected is returned when the notification backend answers success=false.
var ErrRejected = errors.New("broadcast rejected by backend")

// Doer executes backend requests. *backend.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r backend.Request, out any) error
}

// HTTPSink posts SOS payloads to the health backend.
type HTTPSink struct {
	backend Doer
	log     *slog.Logger
}

type httpPayload struct {
	Description string             `json:"description"`
	Location    models.Coordinates `json:"location"`
}

type httpAnswer struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// NewHTTPSink creates a sink on top of the backend API.
func NewHTTPSink(backend Doer, log *slog.Logger) *HTTPSink {
	return &HTTPSink{backend: backend, log: log}
}

// Deliver posts to /emergency/broadcast or /emergency/trigger depending on kind.
// An answer without a success flag counts as delivered.
func (s *HTTPSink) Deliver(ctx context.Context, kind models.BroadcastKind, req models.BroadcastRequest) error {
	path := "/emergency/broadcast"
	if kind == models.KindTrigger {
		path = "/emergency/trigger"
	}

	var answer httpAnswer
	err := s.backend.Do(ctx, backend.Request{
		Endpoint: string(kind),
		Method:   http.MethodPost,
		Path:     path,
		Body:     httpPayload{Description: req.Description, Location: req.Location},
		Headers:  map[string]string{"X-Request-ID": req.ID},
	}, &answer)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", kind, err)
	}

	if answer.Success != nil && !*answer.Success {
		return fmt.Errorf("%w: %s", ErrRejected, answer.Message)
	}
	s.log.DebugContext(ctx, "SOS delivered over HTTP", "kind", kind, "request_id", req.ID)

	return nil
}
