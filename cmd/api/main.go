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

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/docs"
	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/config"
	"github.com/sydneyevents/event-listing-service/internal/fixtures"
	"github.com/sydneyevents/event-listing-service/internal/handler"
	"github.com/sydneyevents/event-listing-service/internal/logger"
	"github.com/sydneyevents/event-listing-service/internal/repository"
	"github.com/sydneyevents/event-listing-service/internal/repository/memory"
	"github.com/sydneyevents/event-listing-service/internal/repository/mongo"
	"github.com/sydneyevents/event-listing-service/internal/service"
)

// @title Sydney Event Listing API
// @version 1.0
// @description API for browsing scraped Sydney events, importing them into the curated listing and capturing ticket leads
// @host localhost:5000
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("store", cfg.Store.Driver),
		zap.String("sessions", cfg.Session.Driver))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	events, leads, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open event store", zap.Error(err))
	}
	defer closeStore()

	if err := events.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	if cfg.Store.SeedFile != "" {
		res, err := fixtures.LoadFile(ctx, events, cfg.Store.SeedFile, log)
		if err != nil {
			log.Fatal("Failed to seed event store", zap.String("file", cfg.Store.SeedFile), zap.Error(err))
		}
		log.Info("Event store seeded",
			zap.String("file", cfg.Store.SeedFile),
			zap.Int("created", res.Created),
			zap.Int("duplicates", res.Duplicates),
			zap.Int("failed", res.Failed))
	}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open session store", zap.Error(err))
	}
	defer closeSessions()

	var provider auth.Provider
	if cfg.OAuth.Disabled {
		log.Warn("OAuth is disabled, logins use the local development identity",
			zap.String("email", cfg.OAuth.DevEmail))
		provider = auth.NewDevProvider(&cfg.OAuth)
	} else {
		google, err := auth.NewGoogleProvider(ctx, &cfg.OAuth)
		if err != nil {
			log.Fatal("Failed to initialize Google login", zap.Error(err))
		}
		provider = google
	}
	sessions := auth.NewManager(provider, sessionStore, cfg.Session, log)

	// Initialize services
	eventService := service.NewEventService(events, log)
	leadService := service.NewLeadService(leads, events, cfg.Leads.RequireConsent, log)
	if !cfg.Leads.RequireConsent {
		log.Warn("Leads without consent are accepted; set LEADS_REQUIRE_CONSENT=true to reject them")
	}

	// Initialize handler
	h := handler.NewHandler(eventService, leadService, sessions, events, cfg, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("API server failed", zap.Error(err))
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Service.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	log.Info("API server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.EventRepository, repository.LeadRepository, func(), error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn("Using the in-memory event store, data is lost on restart")
		store := memory.NewStore()
		return store, store, func() {}, nil
	}

	client, err := mongo.NewClient(ctx, &cfg.Mongo, log)
	if err != nil {
		return nil, nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close MongoDB client", zap.Error(err))
		}
	}
	return mongo.NewEventRepository(client, log), mongo.NewLeadRepository(client, log), closeFn, nil
}

func openSessionStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (auth.SessionStore, func(), error) {
	if cfg.Session.Driver != config.SessionDriverRedis {
		return auth.NewMemorySessionStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store := auth.NewRedisSessionStore(client, cfg.Redis.KeyPrefix)
	if err := store.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.Redis.Addr(), err)
	}

	log.Info("Redis session store connected", zap.String("address", cfg.Redis.Addr()))

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}
	return store, closeFn, nil
}
