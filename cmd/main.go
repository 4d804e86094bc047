package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/aswat-contest/config"
	"github.com/Dosada05/aswat-contest/db"
	"github.com/Dosada05/aswat-contest/handlers"
	"github.com/Dosada05/aswat-contest/live"
	"github.com/Dosada05/aswat-contest/metrics"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/Dosada05/aswat-contest/repositories"
	api "github.com/Dosada05/aswat-contest/routes"
	"github.com/Dosada05/aswat-contest/services"
	"github.com/Dosada05/aswat-contest/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("judges", len(cfg.Judges)),
		slog.String("timezone", cfg.Location.String()),
	)

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.EnsureSchema(appCtx, dbConn); err != nil {
		logger.Error("failed to prepare database schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(appCtx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Warn("R2 storage not configured; media and backup archiving disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run(appCtx)

	collector := metrics.New(prometheus.DefaultRegisterer)

	remoteClient := remote.NewClient(remote.Options{
		SettingsURL:    cfg.SettingsURL,
		SubmissionsURL: cfg.SubmissionsURL,
		IntakeURL:      cfg.IntakeURL,
		Timeout:        cfg.RemoteTimeout,
	})

	snapshots := repositories.NewPostgresSnapshotRepository(dbConn)
	registry := repositories.NewMemoryParticipantRegistry()

	restored, err := snapshots.LoadParticipants(appCtx)
	if err != nil {
		logger.Error("failed to restore participants", slog.Any("error", err))
		os.Exit(1)
	}
	registry.Reset(restored)
	collector.SetParticipants(registry.Len())
	logger.Info("participants restored", slog.Int("count", registry.Len()))

	defaults := models.CycleSettings{Deadline: cfg.DefaultDeadline}
	settingsService := services.NewSettingsService(defaults, snapshots, remoteClient, cfg.Location, logger)
	resultsService := services.NewResultsService(registry, settingsService, hub)
	settingsService.OnChange(func(s models.CycleSettings) {
		hub.BroadcastToRoom(live.RoomResults, live.MessageSettingsUpdated, s)
		resultsService.Publish()
	})

	loadCtx, cancelLoad := context.WithTimeout(appCtx, cfg.RemoteTimeout+5*time.Second)
	if err := settingsService.Load(loadCtx); err != nil {
		cancelLoad()
		logger.Error("failed to load cycle settings", slog.Any("error", err))
		os.Exit(1)
	}
	cancelLoad()
	logger.Info("cycle settings loaded", slog.Time("deadline", settingsService.Current().Deadline))

	participantService := services.NewParticipantService(services.ParticipantServiceDeps{
		Registry:      registry,
		Snapshots:     snapshots,
		Settings:      settingsService,
		Results:       resultsService,
		Uploader:      uploader,
		Intake:        remoteClient,
		IntakeTimeout: cfg.RemoteTimeout * 2,
		Metrics:       collector,
		Logger:        logger,
	})
	ratingService := services.NewRatingService(registry, snapshots, resultsService, collector, logger)
	backupService := services.NewBackupService(registry, settingsService, participantService, uploader, logger)
	authService := services.NewAuthService(cfg)
	syncService := services.NewSyncService(settingsService, participantService, remoteClient, cfg.SyncInterval, cfg.RemoteTimeout, collector, logger)
	logger.Info("services initialized")

	remoteConfigured := remoteClient.SettingsConfigured() || remoteClient.SubmissionsConfigured()
	if remoteConfigured && cfg.SyncInterval > 0 {
		if err := syncService.Start(appCtx); err != nil {
			logger.Error("failed to start remote sync", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Info("periodic remote sync disabled", slog.Bool("remote_configured", remoteConfigured))
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Settings:     handlers.NewSettingsHandler(settingsService),
		Participants: handlers.NewParticipantHandler(participantService, backupService),
		Judging:      handlers.NewJudgingHandler(participantService, ratingService),
		Results:      handlers.NewResultsHandler(resultsService),
		Backup:       handlers.NewBackupHandler(backupService),
		Sync:         handlers.NewSyncHandler(syncService),
		WebSocket:    handlers.NewWebSocketHandler(hub, resultsService, cfg.CORSAllowedOrigins),
		Health:       handlers.NewHealthHandler(dbConn),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        collector,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := syncService.Stop(); err != nil {
			logger.Error("failed to stop remote sync", slog.Any("error", err))
		}

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}

		stopApp()
		if err := participantService.Shutdown(shutdownCtx); err != nil {
			logger.Warn("pending registration intake submissions abandoned", slog.Any("error", err))
		}
	}
	logger.Info("application exited")
}
