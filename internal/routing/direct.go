package routing

import (
	"context"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// directSpeed is an average urban driving speed.
const directSpeed = 40.0 * 1000 / 3600 // m/s

// DirectProvider draws a straight line between the endpoints. It needs no network and
// is used when no routing service is reachable or configured.
type DirectProvider struct{}

// NewDirectProvider creates a straight-line provider.
func NewDirectProvider() *DirectProvider {
	return &DirectProvider{}
}

// Route returns the great-circle segment from -> to with an estimated duration.
func (DirectProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meters := geo.DistanceHaversine(
		orb.Point{from.Longitude, from.Latitude},
		orb.Point{to.Longitude, to.Latitude},
	)

	return &models.Route{
		From:     from,
		To:       to,
		Path:     []models.Coordinates{from, to},
		Meters:   int(meters),
		Duration: time.Duration(meters / directSpeed * float64(time.Second)),
		Provider: string(ProviderTypeDirect),
	}, nil
}
