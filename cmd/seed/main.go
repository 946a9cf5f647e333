package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/config"
	"github.com/sydneyevents/event-listing-service/internal/fixtures"
	"github.com/sydneyevents/event-listing-service/internal/logger"
	"github.com/sydneyevents/event-listing-service/internal/repository/mongo"
)

// seed loads event fixtures into MongoDB for local development.
//
//	MONGO_URI=mongodb://localhost:27017 SEED_FILE=fixtures/sydney-events.yaml go run ./cmd/seed
func main() {
	cfg, err := config.LoadSeed()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New("development", cfg.Seed.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.NewClient(ctx, &cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		_ = client.Close()
	}()

	repo := mongo.NewEventRepository(client, log)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	res, err := fixtures.LoadFile(ctx, repo, cfg.Seed.File, log)
	if err != nil {
		log.Error("Seeding failed", zap.String("file", cfg.Seed.File), zap.Error(err))
	}

	log.Info("Seeding finished",
		zap.String("file", cfg.Seed.File),
		zap.Int("created", res.Created),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("failed", res.Failed))
}
