package mapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/UnknownOlympus/lifeline/internal/resolver"
	"github.com/UnknownOlympus/lifeline/internal/routing"
)

// UserZoom is the zoom level used when centring on the user.
const UserZoom = 13

// Controller errors.
var (
	ErrClosed          = errors.New("map controller is closed")
	ErrUnknownHospital = errors.New("hospital is not in the current list")
	ErrRouteSuperseded = errors.New("route computation superseded by a newer selection")
)

// View is a read-only snapshot of the controller.
type View struct {
	User       *models.Coordinates `json:"user,omitempty"`
	SelectedID models.HospitalID   `json:"selected_id,omitempty"`
	Route      *models.Route       `json:"route,omitempty"`
	Markers    []Marker            `json:"markers"`
}

// Controller owns the route overlay. At most one overlay is attached at any time and
// it always belongs to the current selection.
type Controller struct {
	surface  Surface
	router   routing.Provider
	provider string
	log      *slog.Logger
	metrics  *metrics.Metrics

	mu         sync.Mutex
	user       *models.Coordinates
	hospitals  []models.Hospital
	selected   *models.Hospital
	layer      Layer
	route      *models.Route
	generation uint64
	closed     bool
}

// NewController creates a controller drawing on surface. provider labels route metrics.
func NewController(
	surface Surface,
	router routing.Provider,
	provider string,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Controller {
	return &Controller{surface: surface, router: router, provider: provider, log: log, metrics: metrics}
}

// SetUser moves the user marker. The view follows the user only while nothing is
// selected; with a selection the route is recomputed for the new position.
func (c *Controller) SetUser(ctx context.Context, coords models.Coordinates) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.user = &coords
	c.redraw()
	if c.selected == nil {
		c.surface.SetView(coords, UserZoom)
		c.mu.Unlock()
		return nil
	}
	job := c.beginRoute()
	c.mu.Unlock()

	return c.runRoute(ctx, job)
}

// SetHospitals replaces the hospital list. A selection whose hospital is no longer
// listed is cleared together with its overlay; otherwise it is re-pointed at the new
// entry with the same id.
func (c *Controller) SetHospitals(hospitals []models.Hospital) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.hospitals = hospitals
	if c.selected != nil {
		if fresh := resolver.ByID(c.selected.ID, hospitals); fresh != nil {
			c.selected = fresh
		} else {
			c.log.Info("Selected hospital left the list, clearing selection", "hospital_id", c.selected.ID)
			c.generation++
			c.selected = nil
			c.detach()
		}
	}
	c.redraw()
}

// Select makes h the selected hospital and computes exactly one route to it. The
// previous overlay is detached before the new computation starts. Route failures leave
// the selection in place without an overlay.
func (c *Controller) Select(ctx context.Context, h *models.Hospital) error {
	if h == nil {
		c.ClearSelection()
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	target := resolver.ByID(h.ID, c.hospitals)
	if target == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownHospital, h.ID)
	}

	c.selected = target
	c.redraw()
	if c.user == nil {
		c.generation++
		c.detach()
		c.mu.Unlock()
		return nil
	}
	job := c.beginRoute()
	c.mu.Unlock()

	return c.runRoute(ctx, job)
}

// ClearSelection removes the selection and its overlay, and recentres on the user.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.generation++
	c.selected = nil
	c.detach()
	c.redraw()
	if c.user != nil {
		c.surface.SetView(*c.user, UserZoom)
	}
}

// Close detaches any overlay. In-flight computations are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.detach()
	c.closed = true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{Markers: c.markers()}
	if c.user != nil {
		user := *c.user
		view.User = &user
	}
	if c.selected != nil {
		view.SelectedID = c.selected.ID
	}
	if c.route != nil {
		route := *c.route
		view.Route = &route
	}

	return view
}

// Selected returns the selected hospital or nil. The pointer refers into the list
// passed to SetHospitals.
func (c *Controller) Selected() *models.Hospital {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selected
}

type routeJob struct {
	generation uint64
	from, to   models.Coordinates
	hospital   models.HospitalID
}

// beginRoute tears down the current overlay and starts a new generation. Must hold mu.
func (c *Controller) beginRoute() routeJob {
	c.generation++
	c.detach()

	return routeJob{
		generation: c.generation,
		from:       *c.user,
		to:         c.selected.Coordinates(),
		hospital:   c.selected.ID,
	}
}

func (c *Controller) runRoute(ctx context.Context, job routeJob) error {
	route, err := c.router.Route(ctx, job.from, job.to)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || job.generation != c.generation {
		c.log.DebugContext(ctx, "Discarding superseded route", "hospital_id", job.hospital)
		return ErrRouteSuperseded
	}

	if err != nil {
		c.metrics.RouteComputations.WithLabelValues(c.provider, "failed").Inc()
		c.log.WarnContext(ctx, "Failed to compute route", "hospital_id", job.hospital, "error", err)
		return fmt.Errorf("failed to compute route: %w", err)
	}

	layer, err := c.surface.DrawRoute(route)
	if err != nil {
		c.metrics.RouteComputations.WithLabelValues(c.provider, "failed").Inc()
		c.log.WarnContext(ctx, "Failed to draw route", "hospital_id", job.hospital, "error", err)
		return fmt.Errorf("failed to draw route: %w", err)
	}

	c.layer = layer
	c.route = route
	c.metrics.ActiveRoutes.Inc()
	c.metrics.RouteComputations.WithLabelValues(c.provider, "success").Inc()
	c.surface.FitBounds(job.from, job.to)
	c.log.DebugContext(ctx, "Route attached", "hospital_id", job.hospital, "meters", route.Meters)

	return nil
}

// detach releases the current overlay. Must hold mu.
func (c *Controller) detach() {
	if c.layer == nil {
		return
	}

	c.layer.Detach()
	c.layer = nil
	c.route = nil
	c.metrics.ActiveRoutes.Dec()
}

// redraw pushes the marker set to the surface. Must hold mu.
func (c *Controller) redraw() {
	c.surface.DrawMarkers(c.markers())
}

func (c *Controller) markers() []Marker {
	markers := make([]Marker, 0, len(c.hospitals)+1)
	if c.user != nil {
		markers = append(markers, Marker{ID: "user", Kind: MarkerUser, Label: "You are here", Position: *c.user})
	}

	for _, h := range c.hospitals {
		selected := c.selected != nil && c.selected.ID == h.ID
		markers = append(markers, Marker{
			ID:       "hospital:" + string(h.ID),
			Kind:     MarkerHospital,
			Label:    h.Name,
			Position: h.Coordinates(),
			Selected: selected,
			Muted:    !selected,
		})
	}

	return markers
}
