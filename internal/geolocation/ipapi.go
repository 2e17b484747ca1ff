package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// IPAPIBaseURL is the default IP geolocation endpoint.
const IPAPIBaseURL = "http://ip-api.com/json"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// IPLocator estimates the device position from its public IP address.
type IPLocator struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the geolocation API
	log     *slog.Logger // Logger for logging operations
	now     func() time.Time

	mu   sync.Mutex
	last *fix // last successful fix, reused when a request allows MaximumAge
}

type fix struct {
	coords models.Coordinates
	at     time.Time
}

// ipapiResponse represents the JSON response from the geolocation API.
type ipapiResponse struct {
	Status  string  `json:"status"`  // success or fail
	Message string  `json:"message"` // failure reason
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPLocator creates a new IP geolocation locator. Timeouts come from each Request.
func NewIPLocator(baseURL string, log *slog.Logger) *IPLocator {
	return NewIPLocatorWithClient(&http.Client{}, baseURL, log)
}

// NewIPLocatorWithClient creates an IP locator with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewIPLocatorWithClient(client HTTPClient, baseURL string, log *slog.Logger) *IPLocator {
	if baseURL == "" {
		baseURL = IPAPIBaseURL
	}

	return &IPLocator{client: client, baseURL: baseURL, log: log, now: time.Now}
}

// Locate resolves the current position. The request timeout is applied to the HTTP call;
// exceeding it yields ErrTimeout.
func (il *IPLocator) Locate(ctx context.Context, req Request) (*models.Coordinates, error) {
	if cached := il.cached(req.MaximumAge); cached != nil {
		il.log.DebugContext(ctx, "Reusing cached position", "accuracy", req.Accuracy)
		return cached, nil
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	reqURL, err := url.Parse(il.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("fields", "status,message,lat,lon")
	reqURL.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	il.log.DebugContext(ctx, "Locating by IP", "url", reqURL.String(), "accuracy", req.Accuracy)

	resp, err := il.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to execute geolocation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: status %d", ErrPermissionDenied, resp.StatusCode)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: status %d", ErrPositionUnavailable, resp.StatusCode)
	default:
		il.log.ErrorContext(ctx, "Geolocation API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("geolocation API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ipapiResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrPositionUnavailable, result.Message)
	}

	coords := models.Coordinates{Latitude: result.Lat, Longitude: result.Lon}
	il.remember(coords)

	return &coords, nil
}

func (il *IPLocator) cached(maxAge time.Duration) *models.Coordinates {
	if maxAge <= 0 {
		return nil
	}

	il.mu.Lock()
	defer il.mu.Unlock()

	if il.last == nil || il.now().Sub(il.last.at) > maxAge {
		return nil
	}
	coords := il.last.coords

	return &coords
}

func (il *IPLocator) remember(coords models.Coordinates) {
	il.mu.Lock()
	defer il.mu.Unlock()
	il.last = &fix{coords: coords, at: il.now()}
}
