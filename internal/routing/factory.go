package routing

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of routing provider.
type ProviderType string

const (
	// ProviderTypeOSRM represents an OSRM routing server.
	ProviderTypeOSRM ProviderType = "osrm"
	// ProviderTypeGoogle represents the Google Maps Directions API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeDirect represents the offline straight-line provider.
	ProviderTypeDirect ProviderType = "direct"
)

// ProviderConfig holds configuration for creating a routing provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	BaseURL   string       // BaseURL overrides the OSRM server
	APIKey    string       // API key (used by Google provider)
	RateLimit int          // Rate limit for requests per second (used by Google provider)
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a routing provider based on the provided configuration.
//
// Supported provider types:
// - "osrm": OSRM route service (public demo server unless BaseURL is set)
// - "google": Google Maps Directions API (requires API key)
// - "direct": straight line, no network
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeOSRM:
		return NewOSRMProvider(config.BaseURL, config.Logger), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeDirect:
		return NewDirectProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps directions provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}
