package routing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider computes routes with the Google Maps Directions API.
type GoogleProvider struct {
	client DirectionsAPIClient // client is the Google Maps API client
	log    *slog.Logger        // log is the logger for logging operations
}

type DirectionsAPIClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// NewGoogleProvider creates a provider on top of an initialised Maps client.
func NewGoogleProvider(client DirectionsAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Route asks for a driving route and returns the first one. The overview polyline is
// decoded into the path.
func (gp *GoogleProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	gp.log.DebugContext(ctx, "Routing using Google Maps", "from", from.String(), "to", to.String())

	req := maps.DirectionsRequest{
		Origin:      from.String(),
		Destination: to.String(),
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := gp.client.Directions(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to compute directions: %w", err)
	}

	if len(routes) == 0 {
		return nil, ErrNoRoute
	}
	route := routes[0]

	points, err := route.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode overview polyline: %w", err)
	}

	path := make([]models.Coordinates, 0, len(points)+2)
	path = append(path, from)
	for _, p := range points {
		path = append(path, models.Coordinates{Latitude: p.Lat, Longitude: p.Lng})
	}
	path = append(path, to)

	var meters int
	var duration time.Duration
	for _, leg := range route.Legs {
		meters += leg.Meters
		duration += leg.Duration
	}

	return &models.Route{
		From:     from,
		To:       to,
		Path:     path,
		Meters:   meters,
		Duration: duration,
		Provider: string(ProviderTypeGoogle),
	}, nil
}
