// Package triage sends a symptom description to the backend advisor and returns its
// hospital recommendation.
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/lifeline/internal/apperr"
	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"golang.org/x/time/rate"
)

// Doer executes backend requests. *backend.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r backend.Request, out any) error
}

// Client is the AI triage client.
type Client struct {
	backend Doer
	limiter *rate.Limiter
	log     *slog.Logger
	metrics *metrics.Metrics
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type queryRequest struct {
	ProblemDescription string            `json:"problemDescription"`
	UserLocation       location          `json:"userLocation"`
	NearbyHospitals    []models.Hospital `json:"nearbyHospitals"`
}

// NewClient creates a triage client allowing perSecond queries with a burst of one.
// A non-positive perSecond disables limiting.
func NewClient(backend Doer, perSecond float64, log *slog.Logger, metrics *metrics.Metrics) *Client {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &Client{
		backend: backend,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
		metrics: metrics,
	}
}

// Validate checks the query preconditions without touching the network.
func Validate(problem string, coords *models.Coordinates, hospitals []models.Hospital) error {
	details := map[string]string{}
	if strings.TrimSpace(problem) == "" {
		details["problem_description"] = "required"
	}
	if coords == nil {
		details["user_location"] = "required"
	}
	if len(hospitals) == 0 {
		details["nearby_hospitals"] = "required"
	}

	if len(details) > 0 {
		return apperr.Invalid(apperr.KindAIQueryInvalid, details)
	}

	return nil
}

// Query asks the advisor for a recommendation. Invalid input is rejected before any
// request with ai_query_invalid; every other failure is ai_query_failed.
func (c *Client) Query(
	ctx context.Context,
	problem string,
	coords *models.Coordinates,
	hospitals []models.Hospital,
) (*models.AIRecommendation, error) {
	if err := Validate(problem, coords, hospitals); err != nil {
		c.metrics.TriageQueries.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.TriageQueries.WithLabelValues("failed").Inc()
		return nil, apperr.New(apperr.KindAIQueryFailed, fmt.Errorf("triage limiter: %w", err))
	}

	c.log.InfoContext(ctx, "Requesting AI recommendation", "hospitals", len(hospitals))

	var raw json.RawMessage
	err := c.backend.Do(ctx, backend.Request{
		Endpoint: "ai_recommendation",
		Method:   http.MethodPost,
		Path:     "/emergency/ai-recommendation",
		Body: queryRequest{
			ProblemDescription: strings.TrimSpace(problem),
			UserLocation:       location{Latitude: coords.Latitude, Longitude: coords.Longitude},
			NearbyHospitals:    hospitals,
		},
	}, &raw)
	if err != nil {
		c.metrics.TriageQueries.WithLabelValues("failed").Inc()
		c.log.ErrorContext(ctx, "AI recommendation request failed", "error", err)
		return nil, apperr.New(apperr.KindAIQueryFailed, err)
	}

	rec, err := decodeRecommendation(raw)
	if err != nil {
		c.metrics.TriageQueries.WithLabelValues("failed").Inc()
		return nil, apperr.New(apperr.KindAIQueryFailed, err)
	}

	c.metrics.TriageQueries.WithLabelValues("success").Inc()

	return rec, nil
}

// decodeRecommendation accepts the bare answer and the {"recommendation": ...} envelope.
func decodeRecommendation(raw json.RawMessage) (*models.AIRecommendation, error) {
	var envelope struct {
		Recommendation *models.AIRecommendation `json:"recommendation"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode ai recommendation: %w", err)
	}
	if envelope.Recommendation != nil {
		return envelope.Recommendation, nil
	}

	var rec models.AIRecommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode ai recommendation: %w", err)
	}

	return &rec, nil
}
