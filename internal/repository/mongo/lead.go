package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
)

// LeadRepository implements repository.LeadRepository for MongoDB
type LeadRepository struct {
	leads *mongo.Collection
	log   *zap.Logger
}

// NewLeadRepository creates a new MongoDB lead repository
func NewLeadRepository(client *Client, log *zap.Logger) *LeadRepository {
	return &LeadRepository{
		leads: client.Collection(leadsCollection),
		log:   log,
	}
}

// CreateLead inserts a new lead
func (r *LeadRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	doc := leadDocument{
		Email:     lead.Email,
		Consent:   lead.Consent,
		CreatedAt: lead.CreatedAt,
	}
	if lead.EventID != "" {
		oid, err := primitive.ObjectIDFromHex(lead.EventID)
		if err != nil {
			return fmt.Errorf("%w: malformed eventId %q", domain.ErrValidation, lead.EventID)
		}
		doc.EventID = &oid
	}

	res, err := r.leads.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid.Hex()
	}
	return nil
}

// leadListPipeline joins each lead with the title of its event
var leadListPipeline = mongo.Pipeline{
	{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: eventsCollection},
		{Key: "localField", Value: "eventId"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "event"},
	}}},
	{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$event"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}},
	{{Key: "$project", Value: bson.D{
		{Key: "email", Value: 1},
		{Key: "consent", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "event._id", Value: 1},
		{Key: "event.title", Value: 1},
	}}},
}

// ListLeads returns all leads, newest first, with the event title resolved
func (r *LeadRepository) ListLeads(ctx context.Context) ([]domain.LeadWithEvent, error) {
	cursor, err := r.leads.Aggregate(ctx, leadListPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}

	var docs []leadListDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}

	leads := make([]domain.LeadWithEvent, 0, len(docs))
	for i := range docs {
		leads = append(leads, docs[i].toDomain())
	}
	return leads, nil
}
