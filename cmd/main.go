package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/config"
	"github.com/UnknownOlympus/lodestar/internal/httpapi"
	"github.com/UnknownOlympus/lodestar/internal/ingest"
	"github.com/UnknownOlympus/lodestar/internal/loop"
	"github.com/UnknownOlympus/lodestar/internal/metrics"
	"github.com/UnknownOlympus/lodestar/internal/offers"
	"github.com/UnknownOlympus/lodestar/internal/repository"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/UnknownOlympus/lodestar/internal/session"
	"github.com/UnknownOlympus/lodestar/internal/telemetry"
	"github.com/UnknownOlympus/lodestar/internal/tracker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The run log is optional: without a database host ingestions are only logged.
	var (
		dtb  *pgxpool.Pool
		repo *repository.Repository
	)
	if cfg.Database.Enabled() {
		var err error
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		if err = repository.Migrate(ctx, dtb); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
		repo = repository.NewRepository(dtb, logger)
	}

	// Create listings provider using factory pattern based on configuration.
	provider, err := offers.NewProvider(offers.ProviderConfig{
		Type:        offers.ProviderType(cfg.Provider.Type),
		BaseURL:     cfg.Provider.BaseURL,
		FixturePath: cfg.Provider.FixturePath,
		Timeout:     cfg.Provider.Timeout,
		Retries:     cfg.Provider.Retries,
		RateLimit:   cfg.Provider.RateLimit,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to create listings provider: %v", err)
	}

	logger.InfoContext(ctx, "Listings provider initialized", "type", cfg.Provider.Type)

	// The interaction loop owns every piece of display and scene state.
	interaction := loop.New(logger)
	go interaction.Run(ctx)

	sensors := scene.NewMemory()
	mapView := scene.NewMemoryMap()

	var recorder ingest.Recorder
	if repo != nil {
		recorder = repo
	}
	pipeline := ingest.New(
		logger,
		interaction,
		sensors,
		provider,
		recorder,
		appMetrics,
		cfg.Provider.Type, // Provider name for metrics
		ingest.Options{
			Altitude:       cfg.Marker.Altitude,
			Image:          cfg.Marker.Image,
			ListingBaseURL: cfg.ListingBaseURL,
		},
	)

	var mapTracker *tracker.Tracker
	if cfg.Session.ShowMap {
		mapTracker = tracker.New(logger, sensors, mapView, tracker.Options{
			CenterOnUser:     cfg.Session.CenterOnUser,
			DisplayDebugging: cfg.Session.DisplayDebugging,
		})
	}

	sess := session.New(
		logger,
		interaction,
		sensors,
		telemetry.NewRefresher(sensors, pipeline, nil),
		mapTracker,
		pipeline,
		appMetrics,
		session.Options{
			TelemetryPeriod: cfg.Session.TelemetryPeriod,
			TrackerPeriod:   cfg.Session.TrackerPeriod,
			ShowMap:         cfg.Session.ShowMap,
		},
	)
	if err = sess.Resume(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	deps := httpapi.Deps{
		Log:      logger,
		Session:  sess,
		Sensors:  sensors,
		Map:      mapView,
		Gatherer: reg,
	}
	if repo != nil {
		deps.DB = dtb
		deps.Runs = repo
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the control server in a goroutine to allow main to listen for signals.
	server := newServer(httpapi.NewRouter(deps), cfg.Port)
	go startServer(ctx, logger, server)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 5 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Control server shutdown failed", "error", err)
	}
	<-interaction.Done()

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

func newServer(handler http.Handler, port int) *http.Server {
	readTimeout := 5
	writeTimeout := 10

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// startServer serves the control, health check and metrics endpoints.
// It logs the server's status and any errors encountered.
func startServer(ctx context.Context, log *slog.Logger, server *http.Server) {
	log.InfoContext(ctx, "Starting control server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Control server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
