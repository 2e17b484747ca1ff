package backend_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/UnknownOlympus/lifeline/internal/auth"
	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
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

func newClient(doFunc func(req *http.Request) (*http.Response, error), token string) *backend.Client {
	return backend.NewClientWithHTTP(
		&mockHTTPClient{doFunc: doFunc},
		"http://backend/api/",
		auth.NewStaticTokenSource(token),
		slog.Default(),
		metrics.NewMetrics(prometheus.NewRegistry()),
	)
}

func TestClient_Do(t *testing.T) {
	ctx := t.Context()

	t.Run("get with query and bearer", func(t *testing.T) {
		client := newClient(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/emergency/hospitals", req.URL.Path)
			assert.Equal(t, "1.5", req.URL.Query().Get("lat"))
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
			assert.Empty(t, req.Header.Get("Content-Type"))
			return reply(http.StatusOK, `{"ok":true}`), nil
		}, "secret")

		var out struct {
			OK bool `json:"ok"`
		}
		err := client.Do(ctx, backend.Request{
			Endpoint: "hospitals",
			Method:   http.MethodGet,
			Path:     "/emergency/hospitals",
			Query:    url.Values{"lat": {"1.5"}},
		}, &out)

		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("post encodes body", func(t *testing.T) {
		client := newClient(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "abc", req.Header.Get("X-Request-ID"))
			var payload map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "help", payload["description"])
			return reply(http.StatusCreated, ``), nil
		}, "secret")

		err := client.Do(ctx, backend.Request{
			Endpoint: "broadcast",
			Method:   http.MethodPost,
			Path:     "/emergency/broadcast",
			Body:     map[string]string{"description": "help"},
			Headers:  map[string]string{"X-Request-ID": "abc"},
		}, nil)

		require.NoError(t, err)
	})

	t.Run("missing token never hits the network", func(t *testing.T) {
		client := newClient(func(_ *http.Request) (*http.Response, error) {
			t.Fatal("HTTP client should not be called without a credential")
			return nil, nil
		}, "")

		err := client.Do(ctx, backend.Request{Endpoint: "x", Method: http.MethodGet, Path: "/x"}, nil)

		require.ErrorIs(t, err, backend.ErrUnauthorized)
		require.ErrorIs(t, err, auth.ErrMissingToken)
	})

	t.Run("unauthorized status", func(t *testing.T) {
		client := newClient(func(_ *http.Request) (*http.Response, error) {
			return reply(http.StatusUnauthorized, `{"message":"jwt expired"}`), nil
		}, "secret")

		err := client.Do(ctx, backend.Request{Endpoint: "x", Method: http.MethodGet, Path: "/x"}, nil)

		require.ErrorIs(t, err, backend.ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		client := newClient(func(_ *http.Request) (*http.Response, error) {
			return reply(http.StatusInternalServerError, `boom`), nil
		}, "secret")

		err := client.Do(ctx, backend.Request{Endpoint: "x", Method: http.MethodGet, Path: "/x"}, nil)

		var statusErr *backend.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
		assert.Equal(t, "boom", statusErr.Body)
	})

	t.Run("transport error", func(t *testing.T) {
		client := newClient(func(_ *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		}, "secret")

		err := client.Do(ctx, backend.Request{Endpoint: "x", Method: http.MethodGet, Path: "/x"}, nil)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute x request")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		client := newClient(func(_ *http.Request) (*http.Response, error) {
			return reply(http.StatusOK, `invalid json`), nil
		}, "secret")

		var out map[string]any
		err := client.Do(ctx, backend.Request{Endpoint: "x", Method: http.MethodGet, Path: "/x"}, &out)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode x response")
	})
}
