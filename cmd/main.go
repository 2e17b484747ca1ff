package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/auth"
	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/broadcast"
	"github.com/UnknownOlympus/lifeline/internal/config"
	"github.com/UnknownOlympus/lifeline/internal/coordinator"
	"github.com/UnknownOlympus/lifeline/internal/directory"
	"github.com/UnknownOlympus/lifeline/internal/geolocation"
	"github.com/UnknownOlympus/lifeline/internal/httpapi"
	"github.com/UnknownOlympus/lifeline/internal/mapview"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/repository"
	"github.com/UnknownOlympus/lifeline/internal/routing"
	"github.com/UnknownOlympus/lifeline/internal/triage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	googleRateLimit = 10
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Cancelled on SIGINT/SIGTERM so every component can shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	api := backend.NewClient(
		cfg.Backend.BaseURL, cfg.Backend.Timeout, auth.NewStaticTokenSource(cfg.Backend.Token), logger, appMetrics,
	)

	locator, err := geolocation.NewLocator(geolocation.LocatorConfig{
		Type:      geolocation.LocatorType(cfg.Geo.LocatorType),
		URL:       cfg.Geo.LocatorURL,
		Latitude:  cfg.Geo.StaticLat,
		Longitude: cfg.Geo.StaticLon,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create locator: %v", err)
	}
	acquirer := geolocation.NewAcquirer(locator, geolocation.Options{
		HighTimeout: cfg.Geo.HighTimeout,
		LowTimeout:  cfg.Geo.LowTimeout,
		LowMaxAge:   geolocation.DefaultOptions().LowMaxAge,
	}, logger, appMetrics)

	router, err := routing.NewProvider(routing.ProviderConfig{
		Type:      routing.ProviderType(cfg.Routing.Provider),
		BaseURL:   cfg.Routing.BaseURL,
		APIKey:    cfg.Routing.APIKey,
		RateLimit: googleRateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create routing provider: %v", err)
	}
	logger.InfoContext(ctx, "Routing provider initialized", "type", cfg.Routing.Provider)

	sink, err := broadcast.NewSink(broadcast.SinkConfig{
		Type:         broadcast.SinkType(cfg.Broadcast.Sink),
		Backend:      api,
		KafkaBrokers: cfg.Broadcast.KafkaBrokers,
		KafkaTopic:   cfg.Broadcast.KafkaTopic,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create broadcast sink: %v", err)
	}

	// The SOS journal is optional: without DB_HOST broadcasts are only logged.
	var (
		pool    *pgxpool.Pool
		journal broadcast.Journal
		history httpapi.History
	)
	if cfg.Database.Host != "" {
		pool, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		var repo repository.Interface = repository.NewRepository(pool, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare SOS journal: %v", err)
		}
		journal, history = repo, repo
	}

	canvas := mapview.NewCanvas()
	coord := coordinator.New(coordinator.Deps{
		Location:   acquirer,
		Directory:  directory.NewClient(api, logger, appMetrics),
		Advisor:    triage.NewClient(api, cfg.TriageRate, logger, appMetrics),
		Map:        mapview.NewController(canvas, router, cfg.Routing.Provider, logger, appMetrics),
		Dispatcher: broadcast.NewDispatcher(sink, journal, logger, appMetrics),
	}, logger)

	// An acquisition may use both accuracy tiers and then fetch hospitals.
	requestTimeout := cfg.Geo.HighTimeout + cfg.Geo.LowTimeout + cfg.Backend.Timeout
	handler := httpapi.NewHandler(coord, canvas, history, logger, appMetrics)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           handler.Routes(requestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
	}

	go startMonitoringServer(ctx, logger, reg, pool, cfg.HealthPort)
	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.APIPort)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", err)
			stop()
		}
	}()

	// Locate once on start, as the emergency screen does when it opens.
	go func() {
		if _, err := coord.AcquireLocation(ctx); err != nil {
			logger.WarnContext(ctx, "Initial location acquisition failed", "error", err)
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to stop API server", "error", err)
	}
	coord.Close()
	if closer, ok := sink.(io.Closer); ok {
		if err = closer.Close(); err != nil {
			logger.ErrorContext(shutdownCtx, "Failed to close broadcast sink", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// startMonitoringServer serves /healthz and /metrics on port. The health check pings
// the SOS journal database when one is configured.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}))
	default:
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"),
		)
		return logger
	}
}
