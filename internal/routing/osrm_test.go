package routing_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/UnknownOlympus/lifeline/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}, nil
	}
}

func TestOSRMProvider_Route(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	from := models.Coordinates{Latitude: 43.238, Longitude: 76.889}
	to := models.Coordinates{Latitude: 43.25, Longitude: 76.9}

	t.Run("successful routing", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Equal(t, "router.project-osrm.org", req.URL.Host)
				assert.Equal(t, "/route/v1/driving/76.889000,43.238000;76.900000,43.250000", req.URL.Path)
				assert.Equal(t, "full", req.URL.Query().Get("overview"))
				assert.Equal(t, "geojson", req.URL.Query().Get("geometries"))

				return respond(http.StatusOK, `{"code":"Ok","routes":[{"distance":2150.4,"duration":240.5,
					"geometry":{"type":"LineString","coordinates":[[76.889,43.238],[76.895,43.245],[76.9,43.25]]}}]}`)(req)
			},
		}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		route, err := provider.Route(ctx, from, to)

		require.NoError(t, err)
		require.Len(t, route.Path, 3)
		assert.InEpsilon(t, 43.245, route.Path[1].Latitude, 0.0001)
		assert.InEpsilon(t, 76.895, route.Path[1].Longitude, 0.0001)
		assert.Equal(t, 2150, route.Meters)
		assert.Equal(t, 240500*time.Millisecond, route.Duration)
		assert.Equal(t, "osrm", route.Provider)
	})

	t.Run("custom server", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "osrm.internal:5000", req.URL.Host)
				return respond(http.StatusOK, `{"code":"Ok","routes":[{"distance":1,"duration":1,
					"geometry":{"type":"LineString","coordinates":[[76.889,43.238],[76.9,43.25]]}}]}`)(req)
			},
		}

		provider := routing.NewOSRMProviderWithClient(mockClient, "http://osrm.internal:5000/", logger)
		_, err := provider.Route(ctx, from, to)

		require.NoError(t, err)
	})

	t.Run("no route", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{"code":"NoRoute","message":"Impossible route"}`)}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		route, err := provider.Route(ctx, from, to)

		require.Nil(t, route)
		require.ErrorIs(t, err, routing.ErrNoRoute)
	})

	t.Run("api error code", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: respond(http.StatusBadRequest, `{"code":"InvalidQuery","message":"Query string malformed"}`),
		}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		_, err := provider.Route(ctx, from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "osrm API returned InvalidQuery")
	})

	t.Run("non JSON error page", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusBadGateway, `<html>bad gateway</html>`)}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		_, err := provider.Route(ctx, from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "osrm API returned status 502")
	})

	t.Run("unexpected geometry", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: respond(http.StatusOK, `{"code":"Ok","routes":[{"distance":1,"duration":1,
				"geometry":{"type":"Point","coordinates":[76.889,43.238]}}]}`),
		}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		_, err := provider.Route(ctx, from, to)

		require.ErrorIs(t, err, routing.ErrOSRMInvalidGeometry)
	})

	t.Run("network error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
		}

		provider := routing.NewOSRMProviderWithClient(mockClient, "", logger)
		_, err := provider.Route(ctx, from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute routing request")
	})
}

func TestDirectProvider_Route(t *testing.T) {
	from := models.Coordinates{Latitude: 0, Longitude: 0}
	to := models.Coordinates{Latitude: 0, Longitude: 1}

	route, err := routing.NewDirectProvider().Route(t.Context(), from, to)

	require.NoError(t, err)
	assert.Equal(t, []models.Coordinates{from, to}, route.Path)
	// One degree of longitude on the equator is roughly 111 km.
	assert.InDelta(t, 111_319, route.Meters, 500)
	assert.Greater(t, route.Duration, time.Duration(0))
	assert.Equal(t, "direct", route.Provider)
}
