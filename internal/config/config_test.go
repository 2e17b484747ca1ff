package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/lifeline/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("LIFELINE_ENV_FILE", "does-not-exist.env")
	t.Setenv("LIFELINE_ENV", "local")
	t.Setenv("LIFELINE_BACKEND_URL", "http://backend:5000/api/")
	t.Setenv("LIFELINE_BACKEND_TOKEN", "token")
	t.Setenv("LIFELINE_GEO_HIGH_TIMEOUT", "5s")
	t.Setenv("LIFELINE_ROUTE_PROVIDER", "google")
	t.Setenv("LIFELINE_ROUTE_API_KEY", "key")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://backend:5000/api", cfg.Backend.BaseURL)
	assert.Equal(t, "token", cfg.Backend.Token)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Geo.HighTimeout)
	assert.Equal(t, 20*time.Second, cfg.Geo.LowTimeout)
	assert.Equal(t, "ipapi", cfg.Geo.LocatorType)
	assert.Equal(t, "google", cfg.Routing.Provider)
	assert.Equal(t, "key", cfg.Routing.APIKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Broadcast.KafkaBrokers)
	assert.Equal(t, "sos-broadcasts", cfg.Broadcast.KafkaTopic)
	assert.Equal(t, "http", cfg.Broadcast.Sink)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.InDelta(t, 1.0, cfg.TriageRate, 0.0001)
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "lifeline.env")
	filet.File(t, path, "LIFELINE_LOCATOR_TYPE=static\nLIFELINE_STATIC_LAT=43.2389\nLIFELINE_STATIC_LON=76.8897\n")
	t.Setenv("LIFELINE_ENV_FILE", path)

	cfg := config.MustLoad()

	assert.Equal(t, "static", cfg.Geo.LocatorType)
	assert.InEpsilon(t, 43.2389, cfg.Geo.StaticLat, 0.0001)
	assert.InEpsilon(t, 76.8897, cfg.Geo.StaticLon, 0.0001)
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		key   string
		panic string
	}{
		{"LIFELINE_API_PORT", "failed to parse port for api server from configuration"},
		{"LIFELINE_HEALTH_PORT", "failed to parse port for monitoring server from configuration"},
		{"LIFELINE_HTTP_TIMEOUT", "failed to parse http timeout from configuration"},
		{"LIFELINE_GEO_LOW_TIMEOUT", "failed to parse geolocation timeout from configuration"},
		{"LIFELINE_TRIAGE_RATE", "failed to parse triage rate from configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("LIFELINE_ENV_FILE", "does-not-exist.env")
			t.Setenv(tt.key, "error_value")

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
