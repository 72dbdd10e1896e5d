package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/api"
	"triance/backend/internal/config"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
	"triance/backend/internal/repository/mongo"
	"triance/backend/internal/repository/postgres"
	"triance/backend/internal/service"
	"triance/backend/internal/storage"
)

// @title Triance API
// @version 1.0
// @description Workout logging: users, an exercise catalog and workouts with logged exercises and sets.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Starting Triance server...", "driver", cfg.Database.Driver, "address", cfg.Server.Address)

	// --- Database Connection ---
	store, err := openStore(cfg.Database, log)
	if err != nil {
		log.Fatal("could not open store", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	// --- Initialize Storage ---
	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(context.Background(), cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Warn("s3 bucket not configured, export publishing disabled")
	}

	// --- Initialize Services ---
	users := service.NewUserService(store.Users, log)
	workouts := service.NewWorkoutService(store.Workouts, store.Users, store.Exercises, log)
	svc := api.Services{
		Users:           users,
		Exercises:       service.NewExerciseService(store.Exercises, log),
		Workouts:        workouts,
		LoggedExercises: service.NewLoggedExerciseService(store.LoggedExercises, store.Exercises, log),
		Stats:           service.NewStatsService(store.Stats, log),
		Export:          service.NewExportService(workouts, users, files, cfg.Export.URLExpiry, log),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(svc, cfg.CORS.AllowOrigins, log)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("Server exiting.")
}

// openStore connects the configured backend and prepares its schema.
func openStore(cfg config.DatabaseConfig, log *logger.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return repository.Store{}, err
		}
		db := client.Database(cfg.Name)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			return repository.Store{}, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info("mongo indexes ensured", "database", cfg.Name)
		return mongo.NewStore(db, log), nil

	default:
		db, err := postgres.Connect(cfg.Driver, cfg.DSN, log)
		if err != nil {
			return repository.Store{}, err
		}
		if err := postgres.Migrate(db); err != nil {
			return repository.Store{}, err
		}
		return postgres.NewStore(db, log), nil
	}
}
