// Package directory fetches nearby hospitals and their details from the health backend.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Doer executes backend requests. *backend.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r backend.Request, out any) error
}

// ErrEmptyID is returned when a details lookup has no hospital id.
var ErrEmptyID = errors.New("hospital id is required")

// Client is the hospital directory client.
type Client struct {
	backend Doer
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a directory client on top of the backend API.
func NewClient(backend Doer, log *slog.Logger, metrics *metrics.Metrics) *Client {
	return &Client{backend: backend, log: log, metrics: metrics}
}

// FetchNearby returns hospitals around coords in the order the backend returned them.
// Failures never propagate: the flow continues with an empty list.
func (c *Client) FetchNearby(ctx context.Context, coords models.Coordinates) []models.Hospital {
	query := url.Values{}
	query.Set("lat", formatFloat(coords.Latitude))
	query.Set("lon", formatFloat(coords.Longitude))

	var hospitals []models.Hospital
	err := c.backend.Do(ctx, backend.Request{
		Endpoint: "hospitals",
		Method:   http.MethodGet,
		Path:     "/emergency/hospitals",
		Query:    query,
	}, &hospitals)
	if err != nil {
		c.log.WarnContext(ctx, "Failed to fetch nearby hospitals, continuing with an empty list",
			"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		c.metrics.HospitalFetchFailures.Inc()
		return []models.Hospital{}
	}

	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	c.log.DebugContext(ctx, "Fetched nearby hospitals", "count", len(hospitals))

	return hospitals
}

// Details returns the enriched record of one hospital. name and coords help the backend
// look up facilities it has not cached yet; both are optional.
func (c *Client) Details(
	ctx context.Context,
	id models.HospitalID,
	name string,
	coords *models.Coordinates,
) (*models.HospitalDetails, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	if coords != nil {
		query.Set("lat", formatFloat(coords.Latitude))
		query.Set("lon", formatFloat(coords.Longitude))
	}

	return c.details(ctx, backend.Request{
		Endpoint: "hospital_details",
		Method:   http.MethodGet,
		Path:     "/hospital-details/" + url.PathEscape(string(id)),
		Query:    query,
	})
}

// RefreshDetails asks the backend to re-collect the details of one hospital.
func (c *Client) RefreshDetails(ctx context.Context, id models.HospitalID) (*models.HospitalDetails, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	return c.details(ctx, backend.Request{
		Endpoint: "hospital_details_refresh",
		Method:   http.MethodPost,
		Path:     "/hospital-details/" + url.PathEscape(string(id)) + "/refresh",
	})
}

func (c *Client) details(ctx context.Context, r backend.Request) (*models.HospitalDetails, error) {
	var raw json.RawMessage
	if err := c.backend.Do(ctx, r, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch hospital details: %w", err)
	}

	details, err := decodeDetails(raw)
	if err != nil {
		return nil, err
	}

	return details, nil
}

// decodeDetails accepts both a bare record and one wrapped in {"hospital": ...}.
func decodeDetails(raw json.RawMessage) (*models.HospitalDetails, error) {
	var wrapped struct {
		Hospital json.RawMessage `json:"hospital"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode hospital details: %w", err)
	}
	if len(wrapped.Hospital) > 0 && string(wrapped.Hospital) != "null" {
		raw = wrapped.Hospital
	}

	var details models.HospitalDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("failed to decode hospital details: %w", err)
	}
	details.Raw = raw

	return &details, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
