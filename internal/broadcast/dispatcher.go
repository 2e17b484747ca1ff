// Package broadcast sends SOS messages with the current location to the notification
// path and keeps the unsent draft.
package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/apperr"
	"github.com/UnknownOlympus/lifeline/internal/geolocation"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/google/uuid"
)

// Journal records dispatch attempts. *repository.Repository satisfies it.
type Journal interface {
	RecordBroadcast(ctx context.Context, record models.BroadcastRecord) error
}

// Result describes a delivered SOS.
type Result struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

// Dispatcher delivers broadcasts and emergency triggers through a Sink.
type Dispatcher struct {
	sink    Sink
	journal Journal // optional
	log     *slog.Logger
	metrics *metrics.Metrics
	newID   func() string
	now     func() time.Time

	mu    sync.Mutex
	draft string
}

// NewDispatcher creates a dispatcher. journal may be nil.
func NewDispatcher(sink Sink, journal Journal, log *slog.Logger, metrics *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		journal: journal,
		log:     log,
		metrics: metrics,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Draft returns the message kept from the last failed attempt or set by the user.
func (d *Dispatcher) Draft() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.draft
}

// SetDraft stores the message being typed.
func (d *Dispatcher) SetDraft(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = message
}

// Send broadcasts message with the located coordinates. Without a located state it fails
// with broadcast_missing_location and makes no call. An empty message is sent as is.
// The draft is cleared on success and kept on failure.
func (d *Dispatcher) Send(ctx context.Context, message string, state geolocation.State) (Result, error) {
	d.SetDraft(message)

	res, err := d.dispatch(ctx, models.KindBroadcast, message, state)
	if err != nil {
		return Result{}, err
	}

	d.mu.Lock()
	if d.draft == message {
		d.draft = ""
	}
	d.mu.Unlock()

	return res, nil
}

// Trigger raises the "I need help" alert. It has the same location requirement as Send
// but leaves the broadcast draft alone.
func (d *Dispatcher) Trigger(ctx context.Context, description string, state geolocation.State) (Result, error) {
	return d.dispatch(ctx, models.KindTrigger, description, state)
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	kind models.BroadcastKind,
	message string,
	state geolocation.State,
) (Result, error) {
	if !state.Located() {
		d.metrics.Broadcasts.WithLabelValues(string(kind), "missing_location").Inc()
		d.log.WarnContext(ctx, "SOS rejected without location", "kind", kind, "phase", state.Phase)
		return Result{}, apperr.New(apperr.KindBroadcastMissingLocation, nil)
	}

	req := models.BroadcastRequest{
		ID:          d.newID(),
		Description: message,
		Location:    *state.Coords,
		SentAt:      d.now().UTC(),
	}

	err := d.sink.Deliver(ctx, kind, req)
	d.record(ctx, kind, req, err)
	if err != nil {
		d.metrics.Broadcasts.WithLabelValues(string(kind), "failed").Inc()
		d.log.ErrorContext(ctx, "Failed to deliver SOS", "kind", kind, "request_id", req.ID, "error", err)
		return Result{}, apperr.New(apperr.KindBroadcastFailed, err)
	}

	d.metrics.Broadcasts.WithLabelValues(string(kind), "success").Inc()
	d.log.InfoContext(ctx, "SOS delivered", "kind", kind, "request_id", req.ID)

	return Result{RequestID: req.ID, Message: successMessage(kind)}, nil
}

func (d *Dispatcher) record(ctx context.Context, kind models.BroadcastKind, req models.BroadcastRequest, err error) {
	if d.journal == nil {
		return
	}

	record := models.BroadcastRecord{
		ID:          req.ID,
		Kind:        kind,
		Description: req.Description,
		Location:    req.Location,
		Success:     err == nil,
		CreatedAt:   req.SentAt,
	}
	if err != nil {
		record.Error = err.Error()
	}

	if errJournal := d.journal.RecordBroadcast(ctx, record); errJournal != nil {
		d.log.WarnContext(ctx, "Failed to journal SOS attempt", "request_id", req.ID, "error", errJournal)
	}
}

func successMessage(kind models.BroadcastKind) string {
	if kind == models.KindTrigger {
		return "Emergency alert sent. Help is on the way."
	}

	return "Emergency broadcast sent to your contacts."
}
