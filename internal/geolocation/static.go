package geolocation

import (
	"context"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// StaticLocator reports a fixed position, e.g. a kiosk with a known address.
type StaticLocator struct {
	coords *models.Coordinates
}

// NewStaticLocator creates a locator for the given position. A nil position makes every
// attempt fail with ErrPositionUnavailable.
func NewStaticLocator(coords *models.Coordinates) *StaticLocator {
	return &StaticLocator{coords: coords}
}

// Locate returns a copy of the configured position.
func (sl *StaticLocator) Locate(ctx context.Context, _ Request) (*models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sl.coords == nil {
		return nil, ErrPositionUnavailable
	}
	coords := *sl.coords

	return &coords, nil
}
