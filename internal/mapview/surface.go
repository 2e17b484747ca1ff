// Package mapview keeps the map markers and the single route overlay in sync with the
// user position and the selected hospital.
package mapview

import "github.com/UnknownOlympus/lifeline/internal/models"

// MarkerKind distinguishes the user marker from hospital markers.
type MarkerKind string

const (
	MarkerUser     MarkerKind = "user"
	MarkerHospital MarkerKind = "hospital"
)

// Marker is one pin on the map.
type Marker struct {
	ID       string             `json:"id"`
	Kind     MarkerKind         `json:"kind"`
	Label    string             `json:"label"`
	Position models.Coordinates `json:"position"`
	Selected bool               `json:"selected,omitempty"`
	Muted    bool               `json:"muted,omitempty"` // de-emphasized hospital
}

// Layer is an attached route overlay. Detach must be idempotent.
type Layer interface {
	Detach()
}

// Surface is the rendering target of the controller.
type Surface interface {
	DrawMarkers(markers []Marker)
	SetView(center models.Coordinates, zoom int)
	FitBounds(a, b models.Coordinates)
	DrawRoute(route *models.Route) (Layer, error)
}
