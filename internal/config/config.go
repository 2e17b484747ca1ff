package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the emergency coordinator.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - APIPort: The port for the presentation API.
// - HealthPort: The port for the monitoring server.
// - Backend: Connection settings for the health backend API.
// - Geo: Location provider and acquisition timeouts.
// - Routing: Route provider settings.
// - TriageRate: Maximum AI triage queries per second.
// - Broadcast: SOS sink settings.
// - Database: Configuration settings for the PostgreSQL SOS journal.
type Config struct {
	Env        string          // Env is the current environment: local, development, production.
	APIPort    int             // APIPort is the presentation API port.
	HealthPort int             // HealthPort is the monitoring server port.
	Backend    BackendConfig   // Backend holds the backend API settings.
	Geo        GeoConfig       // Geo holds the geolocation settings.
	Routing    RoutingConfig   // Routing holds the route provider settings.
	TriageRate float64         // TriageRate bounds AI triage queries per second.
	Broadcast  BroadcastConfig // Broadcast holds the SOS sink settings.
	Database   PostgresConfig  // Database holds the postgres database configuration.
}

// BackendConfig describes the health backend API.
type BackendConfig struct {
	BaseURL string        // BaseURL is the API root, e.g. http://localhost:5000/api.
	Token   string        // Token is the bearer credential supplied by the auth collaborator.
	Timeout time.Duration // Timeout bounds every backend request.
}

// GeoConfig describes where device coordinates come from.
type GeoConfig struct {
	LocatorType string        // LocatorType is static or ipapi.
	LocatorURL  string        // LocatorURL overrides the IP geolocation endpoint.
	StaticLat   float64       // StaticLat is used by the static locator.
	StaticLon   float64       // StaticLon is used by the static locator.
	HighTimeout time.Duration // HighTimeout bounds the high accuracy attempt.
	LowTimeout  time.Duration // LowTimeout bounds the single low accuracy retry.
}

// RoutingConfig selects the route provider.
type RoutingConfig struct {
	Provider string // Provider is osrm or google.
	BaseURL  string // BaseURL overrides the OSRM endpoint.
	APIKey   string // APIKey is required for google.
}

// BroadcastConfig selects where SOS broadcasts go.
type BroadcastConfig struct {
	Sink         string   // Sink is http or kafka.
	KafkaBrokers []string // KafkaBrokers are used by the kafka sink.
	KafkaTopic   string   // KafkaTopic receives SOS messages.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// An empty Host disables the SOS journal.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads configuration from the environment and an optional .env file.
// It panics on malformed values.
func MustLoad() *Config {
	envFile := "LIFELINE_ENV_FILE"
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(envFile, ".env")
	_ = godotenv.Load(v.GetString(envFile))

	setDefaults(v)

	return &Config{
		Env:        v.GetString("LIFELINE_ENV"),
		APIPort:    mustInt(v, "LIFELINE_API_PORT", "failed to parse port for api server from configuration"),
		HealthPort: mustInt(v, "LIFELINE_HEALTH_PORT", "failed to parse port for monitoring server from configuration"),
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("LIFELINE_BACKEND_URL"), "/"),
			Token:   v.GetString("LIFELINE_BACKEND_TOKEN"),
			Timeout: mustDuration(v, "LIFELINE_HTTP_TIMEOUT", "failed to parse http timeout from configuration"),
		},
		Geo: GeoConfig{
			LocatorType: v.GetString("LIFELINE_LOCATOR_TYPE"),
			LocatorURL:  v.GetString("LIFELINE_LOCATOR_URL"),
			StaticLat:   mustFloat(v, "LIFELINE_STATIC_LAT", "failed to parse static latitude from configuration"),
			StaticLon:   mustFloat(v, "LIFELINE_STATIC_LON", "failed to parse static longitude from configuration"),
			HighTimeout: mustDuration(v, "LIFELINE_GEO_HIGH_TIMEOUT", "failed to parse geolocation timeout from configuration"),
			LowTimeout:  mustDuration(v, "LIFELINE_GEO_LOW_TIMEOUT", "failed to parse geolocation timeout from configuration"),
		},
		Routing: RoutingConfig{
			Provider: v.GetString("LIFELINE_ROUTE_PROVIDER"),
			BaseURL:  v.GetString("LIFELINE_ROUTE_URL"),
			APIKey:   v.GetString("LIFELINE_ROUTE_API_KEY"),
		},
		TriageRate: mustFloat(v, "LIFELINE_TRIAGE_RATE", "failed to parse triage rate from configuration"),
		Broadcast: BroadcastConfig{
			Sink:         v.GetString("LIFELINE_BROADCAST_SINK"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_SOS_TOPIC"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LIFELINE_ENV", "production")
	v.SetDefault("LIFELINE_API_PORT", "8000")
	v.SetDefault("LIFELINE_HEALTH_PORT", "8080")
	v.SetDefault("LIFELINE_BACKEND_URL", "http://localhost:5000/api")
	v.SetDefault("LIFELINE_HTTP_TIMEOUT", "15s")
	v.SetDefault("LIFELINE_LOCATOR_TYPE", "ipapi")
	v.SetDefault("LIFELINE_STATIC_LAT", "0")
	v.SetDefault("LIFELINE_STATIC_LON", "0")
	v.SetDefault("LIFELINE_GEO_HIGH_TIMEOUT", "10s")
	v.SetDefault("LIFELINE_GEO_LOW_TIMEOUT", "20s")
	v.SetDefault("LIFELINE_ROUTE_PROVIDER", "osrm")
	v.SetDefault("LIFELINE_TRIAGE_RATE", "1")
	v.SetDefault("LIFELINE_BROADCAST_SINK", "http")
	v.SetDefault("KAFKA_SOS_TOPIC", "sos-broadcasts")
	v.SetDefault("DB_PORT", "5432")
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func mustFloat(v *viper.Viper, key, msg string) float64 {
	value, err := strconv.ParseFloat(v.GetString(key), 64)
	if err != nil {
		panic(msg)
	}

	return value
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
