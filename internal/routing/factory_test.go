package routing_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/lifeline/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create OSRM provider successfully", func(t *testing.T) {
		provider, err := routing.NewProvider(routing.ProviderConfig{Type: routing.ProviderTypeOSRM, Logger: logger})

		require.NoError(t, err)
		_, ok := provider.(*routing.OSRMProvider)
		assert.True(t, ok, "expected provider to be *OSRMProvider")
	})

	t.Run("create Google provider successfully", func(t *testing.T) {
		config := routing.ProviderConfig{
			Type:      routing.ProviderTypeGoogle,
			APIKey:    "AIzaTestKey",
			RateLimit: 10,
			Logger:    logger,
		}

		provider, err := routing.NewProvider(config)

		require.NoError(t, err)
		_, ok := provider.(*routing.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without API key fails", func(t *testing.T) {
		provider, err := routing.NewProvider(routing.ProviderConfig{Type: routing.ProviderTypeGoogle, Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "API key is required for Google provider")
	})

	t.Run("create direct provider", func(t *testing.T) {
		provider, err := routing.NewProvider(routing.ProviderConfig{Type: routing.ProviderTypeDirect})

		require.NoError(t, err)
		_, ok := provider.(*routing.DirectProvider)
		assert.True(t, ok, "expected provider to be *DirectProvider")
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		provider, err := routing.NewProvider(routing.ProviderConfig{Type: "mapbox", Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: mapbox")
	})
}
