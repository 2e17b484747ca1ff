// Package coordinator owns the state of the emergency flow: the location cycle, the
// nearby hospital list, the AI recommendation, the map selection and the SOS draft.
// Presentation layers read it through Snapshot and drive it through the operations below.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/apperr"
	"github.com/UnknownOlympus/lifeline/internal/broadcast"
	"github.com/UnknownOlympus/lifeline/internal/geolocation"
	"github.com/UnknownOlympus/lifeline/internal/mapview"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/UnknownOlympus/lifeline/internal/resolver"
	"github.com/UnknownOlympus/lifeline/internal/triage"
)

// LocationSource runs acquisition cycles. *geolocation.Acquirer satisfies it.
type LocationSource interface {
	Acquire(ctx context.Context) (geolocation.State, error)
	Retry(ctx context.Context) (geolocation.State, error)
	State() geolocation.State
	Subscribe(fn func(geolocation.State))
}

// Directory looks up hospitals. *directory.Client satisfies it.
type Directory interface {
	FetchNearby(ctx context.Context, coords models.Coordinates) []models.Hospital
	Details(
		ctx context.Context,
		id models.HospitalID,
		name string,
		coords *models.Coordinates,
	) (*models.HospitalDetails, error)
	RefreshDetails(ctx context.Context, id models.HospitalID) (*models.HospitalDetails, error)
}

// Advisor answers triage questions. *triage.Client satisfies it.
type Advisor interface {
	Query(
		ctx context.Context,
		problem string,
		coords *models.Coordinates,
		hospitals []models.Hospital,
	) (*models.AIRecommendation, error)
}

// MapView renders markers and the route overlay. *mapview.Controller satisfies it.
type MapView interface {
	SetUser(ctx context.Context, coords models.Coordinates) error
	SetHospitals(hospitals []models.Hospital)
	Select(ctx context.Context, h *models.Hospital) error
	ClearSelection()
	Close()
	Snapshot() mapview.View
}

// Dispatcher sends SOS messages. *broadcast.Dispatcher satisfies it.
type Dispatcher interface {
	Send(ctx context.Context, message string, state geolocation.State) (broadcast.Result, error)
	Trigger(ctx context.Context, description string, state geolocation.State) (broadcast.Result, error)
	Draft() string
	SetDraft(message string)
}

// Deps groups the collaborators of a Coordinator.
type Deps struct {
	Location   LocationSource
	Directory  Directory
	Advisor    Advisor
	Map        MapView
	Dispatcher Dispatcher
}

// Coordinator errors.
var (
	ErrClosed          = errors.New("coordinator is closed")
	ErrQuerySuperseded = errors.New("ai query superseded by a newer one")
	ErrNoHospital      = errors.New("hospital is not in the current list")
)

// NoticeLevel tells presentation layers how to render a notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is the latest user-facing message.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Kind    apperr.Kind `json:"kind,omitempty"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Snapshot is a read-only copy of the coordinator state.
type Snapshot struct {
	Location       geolocation.State        `json:"location"`
	Hospitals      []models.Hospital        `json:"hospitals"`
	SelectedID     models.HospitalID        `json:"selected_id,omitempty"`
	Recommendation *models.AIRecommendation `json:"recommendation,omitempty"`
	QueryPending   bool                     `json:"query_pending"`
	Map            mapview.View             `json:"map"`
	Draft          string                   `json:"draft"`
	Notice         *Notice                  `json:"notice,omitempty"`
}

// Coordinator is the single owner of the emergency state.
type Coordinator struct {
	location   LocationSource
	directory  Directory
	advisor    Advisor
	mapView    MapView
	dispatcher Dispatcher
	log        *slog.Logger
	now        func() time.Time

	mu             sync.Mutex
	state          geolocation.State
	fetchedCycle   uint64
	hospitals      []models.Hospital
	recommendation *models.AIRecommendation
	querySeq       uint64
	queryCancel    context.CancelFunc
	notice         *Notice
	closed         bool
}

// New creates a coordinator and starts observing location transitions.
func New(deps Deps, log *slog.Logger) *Coordinator {
	c := &Coordinator{
		location:   deps.Location,
		directory:  deps.Directory,
		advisor:    deps.Advisor,
		mapView:    deps.Map,
		dispatcher: deps.Dispatcher,
		log:        log,
		now:        time.Now,
		state:      deps.Location.State(),
		hospitals:  []models.Hospital{},
	}
	deps.Location.Subscribe(c.observe)

	return c
}

func (c *Coordinator) observe(state geolocation.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// transitions of an older cycle may arrive after a newer cycle started
	if state.Cycle < c.state.Cycle {
		return
	}
	c.state = state
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	view := c.mapView.Snapshot()
	draft := c.dispatcher.Draft()

	c.mu.Lock()
	defer c.mu.Unlock()

	hospitals := make([]models.Hospital, len(c.hospitals))
	copy(hospitals, c.hospitals)

	snap := Snapshot{
		Location:     copyState(c.state),
		Hospitals:    hospitals,
		SelectedID:   view.SelectedID,
		QueryPending: c.queryCancel != nil,
		Map:          view,
		Draft:        draft,
	}
	if c.recommendation != nil {
		rec := copyRecommendation(c.recommendation)
		snap.Recommendation = &rec
	}
	if c.notice != nil {
		notice := *c.notice
		snap.Notice = &notice
	}

	return snap
}

// AcquireLocation runs one acquisition cycle. A located cycle loads the nearby hospitals
// with that cycle's coordinates; a failed cycle surfaces its kind as a notice.
func (c *Coordinator) AcquireLocation(ctx context.Context) (geolocation.State, error) {
	if err := c.checkOpen(); err != nil {
		return geolocation.State{}, err
	}

	state, err := c.location.Acquire(ctx)

	return c.afterAcquisition(ctx, state, err)
}

// RetryLocation is the user-initiated retry after a failed cycle.
func (c *Coordinator) RetryLocation(ctx context.Context) (geolocation.State, error) {
	if err := c.checkOpen(); err != nil {
		return geolocation.State{}, err
	}

	state, err := c.location.Retry(ctx)

	return c.afterAcquisition(ctx, state, err)
}

func (c *Coordinator) afterAcquisition(
	ctx context.Context,
	state geolocation.State,
	err error,
) (geolocation.State, error) {
	if err != nil {
		return copyState(state), err
	}

	if !state.Located() {
		kind := state.ErrKind.AppKind()
		c.setNotice(NoticeError, kind, apperr.UserMessage(kind))
		return copyState(state), apperr.New(kind, nil)
	}

	c.loadHospitals(ctx, state)

	return copyState(state), nil
}

// loadHospitals fetches the hospital list once per located cycle and publishes it.
func (c *Coordinator) loadHospitals(ctx context.Context, state geolocation.State) {
	coords := *state.Coords

	c.mu.Lock()
	if state.Cycle <= c.fetchedCycle {
		c.mu.Unlock()
		return
	}
	c.fetchedCycle = state.Cycle
	c.mu.Unlock()

	hospitals := c.directory.FetchNearby(ctx, coords)

	c.mu.Lock()
	if c.closed || state.Cycle != c.fetchedCycle {
		c.mu.Unlock()
		return
	}
	c.hospitals = hospitals
	c.mu.Unlock()

	c.log.InfoContext(ctx, "Nearby hospitals loaded", "cycle", state.Cycle, "count", len(hospitals))

	c.mapView.SetHospitals(hospitals)
	c.routeResult(ctx, c.mapView.SetUser(ctx, coords))
}

// QueryAI asks the advisor about problem. A newer query cancels an older one still in
// flight, and a response that arrives after a newer query started is dropped. On success
// the recommendation is replaced and the best hospital is selected; on failure the
// previous recommendation and selection stay as they were.
func (c *Coordinator) QueryAI(ctx context.Context, problem string) (*models.AIRecommendation, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	var coords *models.Coordinates
	if c.state.Located() {
		captured := *c.state.Coords
		coords = &captured
	}
	hospitals := c.hospitals
	// invalid input leaves a query in flight untouched
	if err := triage.Validate(problem, coords, hospitals); err != nil {
		c.setNoticeLocked(NoticeError, apperr.KindAIQueryInvalid, apperr.UserMessage(apperr.KindAIQueryInvalid))
		c.mu.Unlock()
		return nil, err
	}
	if c.queryCancel != nil {
		c.queryCancel()
	}
	queryCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.querySeq++
	seq := c.querySeq
	c.queryCancel = cancel
	c.mu.Unlock()

	rec, err := c.advisor.Query(queryCtx, problem, coords, hospitals)

	c.mu.Lock()
	if c.closed || seq != c.querySeq {
		c.mu.Unlock()
		c.log.DebugContext(ctx, "Dropping superseded AI answer", "seq", seq)
		return nil, ErrQuerySuperseded
	}
	c.queryCancel = nil
	if err != nil {
		kind := apperr.KindOf(err)
		if kind == "" {
			kind = apperr.KindAIQueryFailed
		}
		c.setNoticeLocked(NoticeError, kind, apperr.UserMessage(kind))
		c.mu.Unlock()
		return nil, err
	}

	c.recommendation = rec
	var best *models.Hospital
	if rec.Best != nil {
		// a location cycle may have replaced the list while the query was in flight
		best = resolver.Resolve(rec.Best.Name, c.hospitals)
	}
	c.mu.Unlock()

	out := copyRecommendation(rec)
	if rec.Best == nil {
		return &out, nil
	}
	if best == nil {
		c.log.InfoContext(ctx, "Best recommendation did not match any hospital", "name", rec.Best.Name)
		c.setNotice(NoticeInfo, apperr.KindResolutionNotFound, apperr.UserMessage(apperr.KindResolutionNotFound))
		return &out, nil
	}

	c.log.InfoContext(ctx, "Selecting recommended hospital", "name", rec.Best.Name, "hospital_id", best.ID)
	if err = c.selectOnMap(ctx, best); err != nil {
		c.log.WarnContext(ctx, "Failed to select recommended hospital", "hospital_id", best.ID, "error", err)
	}

	return &out, nil
}

// SelectHospital selects the hospital with id, as a marker click does.
func (c *Coordinator) SelectHospital(ctx context.Context, id models.HospitalID) (*models.Hospital, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	h := resolver.ByID(id, c.hospitals)
	c.mu.Unlock()

	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHospital, id)
	}
	if err := c.selectOnMap(ctx, h); err != nil {
		return nil, err
	}

	selected := *h

	return &selected, nil
}

// ClearSelection removes the selection and its route.
func (c *Coordinator) ClearSelection() {
	c.mapView.ClearSelection()
}

// ShowOnMap selects the hospital named by the recommendation card in slot.
func (c *Coordinator) ShowOnMap(ctx context.Context, slot models.Slot) (*models.Hospital, error) {
	h, err := c.resolveSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err = c.selectOnMap(ctx, h); err != nil {
		return nil, err
	}

	selected := *h

	return &selected, nil
}

// ViewDetails opens the details of the hospital named by the card in slot. The map
// selection is left alone.
func (c *Coordinator) ViewDetails(ctx context.Context, slot models.Slot) (*models.HospitalDetails, error) {
	h, err := c.resolveSlot(ctx, slot)
	if err != nil {
		return nil, err
	}

	return c.directory.Details(ctx, h.ID, h.Name, c.coords())
}

// HospitalDetails returns the details of one hospital by id.
func (c *Coordinator) HospitalDetails(ctx context.Context, id models.HospitalID) (*models.HospitalDetails, error) {
	var name string
	c.mu.Lock()
	if h := resolver.ByID(id, c.hospitals); h != nil {
		name = h.Name
	}
	c.mu.Unlock()

	return c.directory.Details(ctx, id, name, c.coords())
}

// RefreshHospitalDetails asks the backend to re-collect one hospital's details.
func (c *Coordinator) RefreshHospitalDetails(
	ctx context.Context,
	id models.HospitalID,
) (*models.HospitalDetails, error) {
	return c.directory.RefreshDetails(ctx, id)
}

// SetDraft stores the SOS message being typed.
func (c *Coordinator) SetDraft(message string) {
	c.dispatcher.SetDraft(message)
}

// Broadcast sends an SOS with the current location.
func (c *Coordinator) Broadcast(ctx context.Context, message string) (broadcast.Result, error) {
	res, err := c.dispatcher.Send(ctx, message, c.locationState())

	return c.sosResult(res, err)
}

// Trigger raises the "I need help" alert with the current location.
func (c *Coordinator) Trigger(ctx context.Context, description string) (broadcast.Result, error) {
	res, err := c.dispatcher.Trigger(ctx, description, c.locationState())

	return c.sosResult(res, err)
}

// Close cancels the pending query and tears down the route overlay.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.queryCancel != nil {
		c.queryCancel()
		c.queryCancel = nil
	}
	c.mu.Unlock()

	c.mapView.Close()
}

func (c *Coordinator) sosResult(res broadcast.Result, err error) (broadcast.Result, error) {
	if err != nil {
		kind := apperr.KindOf(err)
		if kind == "" {
			kind = apperr.KindBroadcastFailed
		}
		c.setNotice(NoticeError, kind, apperr.UserMessage(kind))
		return broadcast.Result{}, err
	}

	c.setNotice(NoticeInfo, "", res.Message)

	return res, nil
}

// resolveSlot maps a recommendation card onto a listed hospital. An unmatched name is
// reported as resolution_not_found and leaves all state unchanged.
func (c *Coordinator) resolveSlot(ctx context.Context, slot models.Slot) (*models.Hospital, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	rec := c.recommendation.Pick(slot)
	var h *models.Hospital
	if rec != nil {
		h = resolver.Resolve(rec.Name, c.hospitals)
	}
	c.mu.Unlock()

	if h == nil {
		var name string
		if rec != nil {
			name = rec.Name
		}
		c.log.InfoContext(ctx, "Recommendation did not match any hospital", "slot", slot, "name", name)
		c.setNotice(NoticeError, apperr.KindResolutionNotFound, apperr.UserMessage(apperr.KindResolutionNotFound))
		return nil, apperr.New(apperr.KindResolutionNotFound, fmt.Errorf("no hospital matches %s %q", slot, name))
	}

	return h, nil
}

// selectOnMap hands h to the map. Route problems are not errors of the selection: the
// hospital stays selected without an overlay.
func (c *Coordinator) selectOnMap(ctx context.Context, h *models.Hospital) error {
	err := c.mapView.Select(ctx, h)
	if errors.Is(err, mapview.ErrClosed) || errors.Is(err, mapview.ErrUnknownHospital) {
		return err
	}
	c.routeResult(ctx, err)

	return nil
}

func (c *Coordinator) routeResult(ctx context.Context, err error) {
	switch {
	case err == nil, errors.Is(err, mapview.ErrRouteSuperseded):
	default:
		c.log.WarnContext(ctx, "Route overlay unavailable", "error", err)
	}
}

func (c *Coordinator) locationState() geolocation.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return copyState(c.state)
}

func (c *Coordinator) coords() *models.Coordinates {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Located() {
		return nil
	}
	coords := *c.state.Coords

	return &coords
}

func (c *Coordinator) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	return nil
}

func (c *Coordinator) setNotice(level NoticeLevel, kind apperr.Kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setNoticeLocked(level, kind, message)
}

func (c *Coordinator) setNoticeLocked(level NoticeLevel, kind apperr.Kind, message string) {
	c.notice = &Notice{Level: level, Kind: kind, Message: message, At: c.now().UTC()}
}

func copyState(s geolocation.State) geolocation.State {
	if s.Coords != nil {
		coords := *s.Coords
		s.Coords = &coords
	}

	return s
}

func copyRecommendation(r *models.AIRecommendation) models.AIRecommendation {
	out := models.AIRecommendation{FirstAid: append([]string(nil), r.FirstAid...)}
	for _, pair := range []struct {
		src *models.Recommendation
		dst **models.Recommendation
	}{{r.Best, &out.Best}, {r.Closest, &out.Closest}, {r.Alternative, &out.Alternative}} {
		if pair.src != nil {
			rec := *pair.src
			*pair.dst = &rec
		}
	}

	return out
}
