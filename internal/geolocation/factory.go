package geolocation

import (
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// LocatorType represents the source of device coordinates.
type LocatorType string

const (
	// LocatorTypeStatic reports a configured fixed position.
	LocatorTypeStatic LocatorType = "static"
	// LocatorTypeIPAPI estimates the position from the public IP address.
	LocatorTypeIPAPI LocatorType = "ipapi"
)

// LocatorConfig holds configuration for creating a locator.
type LocatorConfig struct {
	Type      LocatorType  // Type of locator to create
	URL       string       // URL overrides the IP geolocation endpoint
	Latitude  float64      // Latitude for the static locator
	Longitude float64      // Longitude for the static locator
	Logger    *slog.Logger // Logger for the locator
}

// NewLocator creates a locator based on the provided configuration.
//
// Supported locator types:
// - "static": fixed position from configuration
// - "ipapi": IP based estimation (no API key required)
func NewLocator(config LocatorConfig) (Locator, error) {
	switch config.Type {
	case LocatorTypeStatic:
		return NewStaticLocator(&models.Coordinates{Latitude: config.Latitude, Longitude: config.Longitude}), nil
	case LocatorTypeIPAPI:
		return NewIPLocator(config.URL, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported locator type: %s", config.Type)
	}
}
