package mapview

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrEmptyRoute is returned when a route has fewer than two points.
var ErrEmptyRoute = errors.New("route has no path")

// Canvas is an in-memory Surface. It renders its content as a GeoJSON
// FeatureCollection for clients that draw the map themselves.
type Canvas struct {
	mu      sync.Mutex
	markers []Marker
	center  *models.Coordinates
	zoom    int
	bounds  *orb.Bound
	layers  map[int]*canvasLayer
	nextID  int
}

type canvasLayer struct {
	canvas *Canvas
	id     int
	route  models.Route
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{layers: make(map[int]*canvasLayer)}
}

func (cv *Canvas) DrawMarkers(markers []Marker) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.markers = append([]Marker(nil), markers...)
}

func (cv *Canvas) SetView(center models.Coordinates, zoom int) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.center = &center
	cv.zoom = zoom
	cv.bounds = nil
}

func (cv *Canvas) FitBounds(a, b models.Coordinates) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	bound := point(a).Bound().Extend(point(b))
	cv.bounds = &bound
	cv.center = nil
}

func (cv *Canvas) DrawRoute(route *models.Route) (Layer, error) {
	if route == nil || len(route.Path) < 2 {
		return nil, ErrEmptyRoute
	}

	cv.mu.Lock()
	defer cv.mu.Unlock()

	cv.nextID++
	layer := &canvasLayer{canvas: cv, id: cv.nextID, route: *route}
	cv.layers[layer.id] = layer

	return layer, nil
}

func (l *canvasLayer) Detach() {
	l.canvas.mu.Lock()
	defer l.canvas.mu.Unlock()
	delete(l.canvas.layers, l.id)
}

// ActiveLayers returns the number of attached route overlays.
func (cv *Canvas) ActiveLayers() int {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	return len(cv.layers)
}

// FeatureCollection renders markers as points and overlays as line strings. The
// current view is stored in the bbox, or in the "center" and "zoom" members.
func (cv *Canvas) FeatureCollection() *geojson.FeatureCollection {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	fc := geojson.NewFeatureCollection()
	for _, m := range cv.markers {
		f := geojson.NewFeature(point(m.Position))
		f.ID = m.ID
		f.Properties["kind"] = string(m.Kind)
		f.Properties["label"] = m.Label
		f.Properties["selected"] = m.Selected
		f.Properties["muted"] = m.Muted
		fc.Append(f)
	}

	for id := 1; id <= cv.nextID; id++ {
		layer, ok := cv.layers[id]
		if !ok {
			continue
		}
		line := make(orb.LineString, 0, len(layer.route.Path))
		for _, p := range layer.route.Path {
			line = append(line, point(p))
		}
		f := geojson.NewFeature(line)
		f.ID = fmt.Sprintf("route:%d", layer.id)
		f.Properties["kind"] = "route"
		f.Properties["provider"] = layer.route.Provider
		f.Properties["meters"] = layer.route.Meters
		f.Properties["duration_s"] = int(layer.route.Duration.Seconds())
		fc.Append(f)
	}

	switch {
	case cv.bounds != nil:
		fc.BBox = geojson.NewBBox(*cv.bounds)
	case cv.center != nil:
		fc.ExtraMembers = geojson.Properties{
			"center": []float64{cv.center.Longitude, cv.center.Latitude},
			"zoom":   cv.zoom,
		}
	}

	return fc
}

// MarshalJSON encodes the canvas as GeoJSON.
func (cv *Canvas) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(cv.FeatureCollection())
	if err != nil {
		return nil, fmt.Errorf("failed to encode map canvas: %w", err)
	}

	return data, nil
}

func point(c models.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
