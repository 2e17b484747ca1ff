package directory_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/lifeline/internal/auth"
	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/directory"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
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

func reply(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}
}

func newDirectory(
	doFunc func(req *http.Request) (*http.Response, error),
	token string,
) (*directory.Client, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	api := backend.NewClientWithHTTP(
		&mockHTTPClient{doFunc: doFunc},
		"http://backend/api",
		auth.NewStaticTokenSource(token),
		slog.Default(),
		m,
	)

	return directory.NewClient(api, slog.Default(), m), m
}

func TestClient_FetchNearby(t *testing.T) {
	ctx := t.Context()
	coords := models.Coordinates{Latitude: 43.2389, Longitude: 76.8897}

	t.Run("preserves backend order", func(t *testing.T) {
		calls := 0
		client, m := newDirectory(func(req *http.Request) (*http.Response, error) {
			calls++
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/emergency/hospitals", req.URL.Path)
			assert.Equal(t, "43.2389", req.URL.Query().Get("lat"))
			assert.Equal(t, "76.8897", req.URL.Query().Get("lon"))
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
			return reply(http.StatusOK, `[
				{"id":1,"name":"A","latitude":43.24,"longitude":76.89,"distance":1.2},
				{"id":"osm-2","name":"B","latitude":43.25,"longitude":76.9,"distance":3.4,"rating":4.5,"type":"clinic"}
			]`), nil
		}, "secret")

		hospitals := client.FetchNearby(ctx, coords)

		require.Len(t, hospitals, 2)
		assert.Equal(t, models.HospitalID("1"), hospitals[0].ID)
		assert.Equal(t, models.HospitalID("osm-2"), hospitals[1].ID)
		assert.InDelta(t, 3.4, hospitals[1].DistanceKm, 0.0001)
		require.NotNil(t, hospitals[1].Rating)
		assert.Equal(t, 1, calls)
		assert.InDelta(t, 0.0, testutil.ToFloat64(m.HospitalFetchFailures), 0.0001)
	})

	failures := []struct {
		name   string
		token  string
		doFunc func(req *http.Request) (*http.Response, error)
	}{
		{
			name:  "network failure",
			token: "secret",
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name:  "server error",
			token: "secret",
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return reply(http.StatusInternalServerError, "boom"), nil
			},
		},
		{
			name:  "invalid JSON",
			token: "secret",
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return reply(http.StatusOK, "not json"), nil
			},
		},
		{
			name:  "missing credential",
			token: "",
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("no request expected without a credential")
				return nil, nil
			},
		},
	}

	for _, tc := range failures {
		t.Run(tc.name+" degrades to empty list", func(t *testing.T) {
			client, m := newDirectory(tc.doFunc, tc.token)

			hospitals := client.FetchNearby(ctx, coords)

			require.NotNil(t, hospitals)
			assert.Empty(t, hospitals)
			assert.InDelta(t, 1.0, testutil.ToFloat64(m.HospitalFetchFailures), 0.0001)
		})
	}

	t.Run("null body is an empty list", func(t *testing.T) {
		client, _ := newDirectory(func(_ *http.Request) (*http.Response, error) {
			return reply(http.StatusOK, "null"), nil
		}, "secret")

		hospitals := client.FetchNearby(ctx, coords)

		require.NotNil(t, hospitals)
		assert.Empty(t, hospitals)
	})
}

func TestClient_Details(t *testing.T) {
	ctx := t.Context()

	t.Run("bare record", func(t *testing.T) {
		client, _ := newDirectory(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/hospital-details/42", req.URL.Path)
			assert.Equal(t, "City General Hospital", req.URL.Query().Get("name"))
			assert.Equal(t, "1.5", req.URL.Query().Get("lat"))
			return reply(http.StatusOK, `{"id":42,"name":"City General Hospital","phone":"+7 727 000","emergency":true}`), nil
		}, "secret")

		details, err := client.Details(ctx, "42", "City General Hospital", &models.Coordinates{Latitude: 1.5, Longitude: 2})

		require.NoError(t, err)
		assert.Equal(t, models.HospitalID("42"), details.ID)
		assert.Equal(t, "+7 727 000", details.Phone)
		assert.True(t, details.Emergency)
		assert.NotEmpty(t, details.Raw)
	})

	t.Run("wrapped record", func(t *testing.T) {
		client, _ := newDirectory(func(req *http.Request) (*http.Response, error) {
			assert.Empty(t, req.URL.RawQuery)
			return reply(http.StatusOK, `{"hospital":{"id":"7","name":"B","address":"Main st. 1"}}`), nil
		}, "secret")

		details, err := client.Details(ctx, "7", "", nil)

		require.NoError(t, err)
		assert.Equal(t, "Main st. 1", details.Address)
	})

	t.Run("empty id", func(t *testing.T) {
		client, _ := newDirectory(nil, "secret")

		_, err := client.Details(ctx, "", "A", nil)

		require.ErrorIs(t, err, directory.ErrEmptyID)
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		client, _ := newDirectory(func(_ *http.Request) (*http.Response, error) {
			return reply(http.StatusNotFound, "not found"), nil
		}, "secret")

		_, err := client.Details(ctx, "9", "", nil)

		var statusErr *backend.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	})
}

func TestClient_RefreshDetails(t *testing.T) {
	client, _ := newDirectory(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/hospital-details/42/refresh", req.URL.Path)
		return reply(http.StatusOK, `{"id":42,"name":"A","updated_at":"2026-10-18T10:00:00Z"}`), nil
	}, "secret")

	details, err := client.RefreshDetails(t.Context(), "42")

	require.NoError(t, err)
	assert.Equal(t, "2026-10-18T10:00:00Z", details.UpdatedAt)
}
