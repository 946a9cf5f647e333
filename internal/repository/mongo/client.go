package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/config"
)

// Collection names match the ones the ingestion process writes to
const (
	eventsCollection = "events"
	leadsCollection  = "ticketleads"
)

// Client wraps the MongoDB connection
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.Mongo
	log      *zap.Logger
}

// NewClient creates a new MongoDB client with the given configuration
func NewClient(ctx context.Context, config *config.Mongo, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to MongoDB",
		zap.String("database", config.Database),
		zap.Uint64("maxPoolSize", config.MaxPoolSize))

	timeout := time.Duration(config.ConnectTimeoutSec) * time.Second

	opts := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(config.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Error("Failed to ping MongoDB", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("MongoDB connection established successfully")

	return &Client{
		client:   client,
		database: client.Database(config.Database),
		config:   config,
		log:      log,
	}, nil
}

// Collection returns a handle to the named collection
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping checks the primary is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close closes the MongoDB connection
func (c *Client) Close() error {
	c.log.Info("Closing MongoDB connection")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		c.log.Error("Error closing MongoDB connection", zap.Error(err))
		return err
	}
	c.log.Info("MongoDB connection closed successfully")
	return nil
}
