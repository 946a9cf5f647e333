package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// EventRepository implements repository.EventRepository for MongoDB
type EventRepository struct {
	client *Client
	events *mongo.Collection
	leads  *mongo.Collection
	log    *zap.Logger
}

// NewEventRepository creates a new MongoDB event repository
func NewEventRepository(client *Client, log *zap.Logger) *EventRepository {
	return &EventRepository{
		client: client,
		events: client.Collection(eventsCollection),
		leads:  client.Collection(leadsCollection),
		log:    log,
	}
}

// InitSchema creates the indexes used by the dashboard query and lead listing
func (r *EventRepository) InitSchema(ctx context.Context) error {
	eventIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "originalUrl", Value: 1}},
			Options: options.Index().
				SetName("originalUrl_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "originalUrl", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys:    bson.D{{Key: "city", Value: 1}, {Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("city_status_date"),
		},
	}
	if _, err := r.events.Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}

	leadIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetName("eventId"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	}
	if _, err := r.leads.Indexes().CreateMany(ctx, leadIndexes); err != nil {
		return fmt.Errorf("failed to create lead indexes: %w", err)
	}

	r.log.Info("MongoDB indexes initialized successfully")
	return nil
}

// FindEvents returns the events matching the filter sorted by date ascending
func (r *EventRepository) FindEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.events.Find(ctx, buildEventFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	events := make([]domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, nil
}

// GetEvent returns a single event by id
func (r *EventRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}

	var doc eventDocument
	err = r.events.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event := doc.toDomain()
	return &event, nil
}

// MarkImported overwrites the import fields in a single atomic update.
// Concurrent calls are not detected; the last write wins.
func (r *EventRepository) MarkImported(ctx context.Context, id string, stamp domain.ImportStamp) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(domain.StatusImported)},
		{Key: "importedAt", Value: stamp.At},
		{Key: "importedBy", Value: stamp.By},
		{Key: "importNotes", Value: stamp.Notes},
		{Key: "updatedAt", Value: stamp.At},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc eventDocument
	err = r.events.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	event := doc.toDomain()
	return &event, nil
}

// CreateEvent inserts a new event
func (r *EventRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	event.ApplyDefaults(time.Now().UTC())

	res, err := r.events.InsertOne(ctx, newEventDocument(event))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: originalUrl %q already exists", domain.ErrDuplicate, event.OriginalURL)
	}
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

// Ping checks if the MongoDB connection is alive
func (r *EventRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close closes the MongoDB connection
func (r *EventRepository) Close() error {
	return r.client.Close()
}
