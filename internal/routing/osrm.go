package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// OSRMBaseURL is the public OSRM demo server.
const OSRMBaseURL = "https://router.project-osrm.org"

// OSRMProvider implements the Provider interface using an OSRM routing server.
// The public demo server is meant for light use; production deployments should run
// their own instance.
type OSRMProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL of the OSRM server
	log     *slog.Logger // Logger for logging operations
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// osrmResponse represents the JSON response of the route service.
type osrmResponse struct {
	Code    string `json:"code"`    // Ok on success
	Message string `json:"message"` // error description
	Routes  []struct {
		Distance float64          `json:"distance"` // meters
		Duration float64          `json:"duration"` // seconds
		Geometry geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// ErrOSRMInvalidGeometry is returned when the route geometry is not a line string.
var ErrOSRMInvalidGeometry = errors.New("osrm API returned an invalid route geometry")

// NewOSRMProvider creates a new OSRM provider. An empty baseURL selects the public server.
func NewOSRMProvider(baseURL string, log *slog.Logger) *OSRMProvider {
	const timeout = 10
	return NewOSRMProviderWithClient(&http.Client{Timeout: timeout * time.Second}, baseURL, log)
}

// NewOSRMProviderWithClient creates an OSRM provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewOSRMProviderWithClient(client HTTPClient, baseURL string, log *slog.Logger) *OSRMProvider {
	if baseURL == "" {
		baseURL = OSRMBaseURL
	}

	return &OSRMProvider{client: client, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// Route requests a driving route with the full GeoJSON geometry.
func (op *OSRMProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	// OSRM expects lon,lat pairs.
	waypoints := lonLat(from) + ";" + lonLat(to)
	reqURL, err := url.Parse(op.baseURL + "/route/v1/driving/" + waypoints)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("overview", "full")
	query.Set("geometries", "geojson")
	reqURL.RawQuery = query.Encode()

	op.log.DebugContext(ctx, "OSRM request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result osrmResponse
	if err = json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("osrm API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to decode osrm response: %w", err)
	}

	switch {
	case result.Code == "NoRoute" || (result.Code == "Ok" && len(result.Routes) == 0):
		return nil, ErrNoRoute
	case result.Code != "Ok":
		op.log.ErrorContext(ctx, "OSRM API error", "status", resp.StatusCode, "code", result.Code,
			"message", result.Message)
		return nil, fmt.Errorf("osrm API returned %s: %s", result.Code, result.Message)
	}

	route := result.Routes[0]
	line, ok := route.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, ErrOSRMInvalidGeometry
	}

	path := make([]models.Coordinates, 0, len(line))
	for _, p := range line {
		path = append(path, models.Coordinates{Latitude: p.Lat(), Longitude: p.Lon()})
	}

	return &models.Route{
		From:     from,
		To:       to,
		Path:     path,
		Meters:   int(route.Distance),
		Duration: time.Duration(route.Duration * float64(time.Second)),
		Provider: string(ProviderTypeOSRM),
	}, nil
}

func lonLat(c models.Coordinates) string {
	return strconv.FormatFloat(c.Longitude, 'f', 6, 64) + "," + strconv.FormatFloat(c.Latitude, 'f', 6, 64)
}
