package geolocation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Phase is the stage of an acquisition cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLocating Phase = "locating"
	PhaseLocated  Phase = "located"
	PhaseFailed   Phase = "failed"
)

// State is an observable snapshot of the acquirer.
type State struct {
	Phase    Phase               `json:"phase"`
	Accuracy Accuracy            `json:"accuracy,omitempty"` // set while locating
	Coords   *models.Coordinates `json:"coords,omitempty"`   // set when located
	ErrKind  ErrorKind           `json:"error,omitempty"`    // set when failed
	Cycle    uint64              `json:"cycle"`              // acquisition cycle number
}

// Located reports whether s carries coordinates.
func (s State) Located() bool {
	return s.Phase == PhaseLocated && s.Coords != nil
}

// Common acquirer errors.
var (
	ErrAcquisitionInProgress = errors.New("location acquisition already in progress")
	ErrRetryNotAllowed       = errors.New("location retry is only allowed after a failure")
)

// Options configures the two accuracy tiers.
type Options struct {
	HighTimeout time.Duration // HighTimeout bounds the first, high accuracy attempt.
	LowTimeout  time.Duration // LowTimeout bounds the single degraded retry.
	LowMaxAge   time.Duration // LowMaxAge lets the degraded retry reuse a recent fix.
}

// DefaultOptions mirrors the browser policy: 10s high accuracy, then 20s degraded
// accepting a fix up to a minute old.
func DefaultOptions() Options {
	return Options{HighTimeout: 10 * time.Second, LowTimeout: 20 * time.Second, LowMaxAge: time.Minute}
}

// Acquirer owns the location state machine:
//
//	idle|located|failed -> locating(high)
//	locating(high) -> located | locating(low) on timeout | failed(kind)
//	locating(low)  -> located | failed(kind)
type Acquirer struct {
	locator Locator
	opts    Options
	log     *slog.Logger
	metrics *metrics.Metrics

	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

// NewAcquirer creates an acquirer in the idle state.
func NewAcquirer(locator Locator, opts Options, log *slog.Logger, metrics *metrics.Metrics) *Acquirer {
	defaults := DefaultOptions()
	if opts.HighTimeout <= 0 {
		opts.HighTimeout = defaults.HighTimeout
	}
	if opts.LowTimeout <= 0 {
		opts.LowTimeout = defaults.LowTimeout
	}

	return &Acquirer{
		locator: locator,
		opts:    opts,
		log:     log,
		metrics: metrics,
		state:   State{Phase: PhaseIdle},
	}
}

// State returns the current state.
func (a *Acquirer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.state
}

// Subscribe registers fn to receive every transition, in order.
func (a *Acquirer) Subscribe(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

// Acquire runs one acquisition cycle and returns its terminal state.
func (a *Acquirer) Acquire(ctx context.Context) (State, error) {
	start, err := a.begin(false)
	if err != nil {
		return a.State(), err
	}

	return a.run(ctx, start), nil
}

// Retry restarts acquisition after a failure. It is the only way out of failed
// other than a fresh Acquire.
func (a *Acquirer) Retry(ctx context.Context) (State, error) {
	start, err := a.begin(true)
	if err != nil {
		return a.State(), err
	}

	return a.run(ctx, start), nil
}

// begin moves to locating(high) atomically so concurrent callers cannot start two cycles.
func (a *Acquirer) begin(onlyAfterFailure bool) (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.state.Phase == PhaseLocating:
		return State{}, ErrAcquisitionInProgress
	case onlyAfterFailure && a.state.Phase != PhaseFailed:
		return State{}, ErrRetryNotAllowed
	}

	a.state = State{Phase: PhaseLocating, Accuracy: AccuracyHigh, Cycle: a.state.Cycle + 1}

	return a.state, nil
}

func (a *Acquirer) run(ctx context.Context, start State) State {
	cycle := start.Cycle
	a.notify(start)

	coords, err := a.attempt(ctx, Request{Accuracy: AccuracyHigh, Timeout: a.opts.HighTimeout})
	if err == nil {
		return a.located(ctx, cycle, coords, AccuracyHigh)
	}

	kind := a.classify(ctx, err)
	if kind != ErrorTimeout {
		return a.failed(ctx, cycle, kind, err)
	}

	a.log.InfoContext(ctx, "High accuracy location timed out, retrying with low accuracy", "cycle", cycle)
	a.transition(State{Phase: PhaseLocating, Accuracy: AccuracyLow, Cycle: cycle})

	coords, err = a.attempt(ctx, Request{
		Accuracy:   AccuracyLow,
		Timeout:    a.opts.LowTimeout,
		MaximumAge: a.opts.LowMaxAge,
	})
	if err != nil {
		return a.failed(ctx, cycle, a.classify(ctx, err), err)
	}

	return a.located(ctx, cycle, coords, AccuracyLow)
}

func (a *Acquirer) attempt(ctx context.Context, req Request) (*models.Coordinates, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	coords, err := a.locator.Locate(attemptCtx, req)
	if err == nil && coords == nil {
		err = ErrPositionUnavailable
	}

	return coords, err
}

// classify treats cancellation of the caller's context as unknown, so a torn down
// caller never triggers the degraded retry.
func (a *Acquirer) classify(ctx context.Context, err error) ErrorKind {
	if ctx.Err() != nil {
		return ErrorUnknown
	}

	return Classify(err)
}

func (a *Acquirer) located(ctx context.Context, cycle uint64, coords *models.Coordinates, acc Accuracy) State {
	a.log.InfoContext(ctx, "Location acquired", "cycle", cycle, "accuracy", acc,
		"lat", coords.Latitude, "lon", coords.Longitude)
	a.metrics.LocationAcquisitions.WithLabelValues("located_" + string(acc)).Inc()

	captured := *coords
	state := State{Phase: PhaseLocated, Coords: &captured, Cycle: cycle}
	a.transition(state)

	return state
}

func (a *Acquirer) failed(ctx context.Context, cycle uint64, kind ErrorKind, err error) State {
	a.log.WarnContext(ctx, "Location acquisition failed", "cycle", cycle, "kind", kind, "error", err)
	a.metrics.LocationAcquisitions.WithLabelValues("failed_" + string(kind)).Inc()

	state := State{Phase: PhaseFailed, ErrKind: kind, Cycle: cycle}
	a.transition(state)

	return state
}

func (a *Acquirer) transition(state State) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()

	a.notify(state)
}

func (a *Acquirer) notify(state State) {
	a.mu.Lock()
	subscribers := make([]func(State), len(a.subscribers))
	copy(subscribers, a.subscribers)
	a.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}
