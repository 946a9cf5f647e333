package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

func TestBuildEventFilter_CityOnly(t *testing.T) {
	filter := buildEventFilter(repository.EventFilter{City: "Sydney"})

	assert.Equal(t, bson.D{{Key: "city", Value: "Sydney"}}, filter)
}

func TestBuildEventFilter_Statuses(t *testing.T) {
	single := buildEventFilter(repository.EventFilter{
		City:     "Sydney",
		Statuses: []domain.EventStatus{domain.StatusInactive},
	})
	assert.Equal(t, bson.D{
		{Key: "city", Value: "Sydney"},
		{Key: "status", Value: "inactive"},
	}, single)

	public := buildEventFilter(repository.EventFilter{
		City:     "Sydney",
		Statuses: domain.PublicStatuses,
	})
	assert.Equal(t, bson.D{
		{Key: "city", Value: "Sydney"},
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{"new", "imported"}}}},
	}, public)
}

func TestBuildEventFilter_SearchIsLiteralAndCaseInsensitive(t *testing.T) {
	filter := buildEventFilter(repository.EventFilter{City: "Sydney", Search: "c++ (live)"})

	pattern := primitive.Regex{Pattern: `c\+\+ \(live\)`, Options: "i"}
	assert.Equal(t, bson.E{Key: "$or", Value: bson.A{
		bson.D{{Key: "title", Value: pattern}},
		bson.D{{Key: "venue.name", Value: pattern}},
		bson.D{{Key: "description", Value: pattern}},
	}}, filter[1])
}

func TestBuildEventFilter_DateRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	both := buildEventFilter(repository.EventFilter{City: "Sydney", From: &from, To: &to})
	assert.Equal(t, bson.E{Key: "date", Value: bson.D{
		{Key: "$gte", Value: from},
		{Key: "$lte", Value: to},
	}}, both[1])

	onlyTo := buildEventFilter(repository.EventFilter{City: "Sydney", To: &to})
	assert.Equal(t, bson.E{Key: "date", Value: bson.D{{Key: "$lte", Value: to}}}, onlyTo[1])
}

func TestEventDocument_RoundTrip(t *testing.T) {
	date := time.Date(2025, 2, 14, 19, 30, 0, 0, time.UTC)
	event := &domain.Event{
		Title:       "Valentine's Jazz",
		Date:        &date,
		Venue:       domain.Venue{Name: "The Basement", Address: "7 Macquarie Pl"},
		City:        "Sydney",
		OriginalURL: "https://example.com/e/1",
		ImageURL:    "https://example.com/img/1.jpg",
		SourceSite:  "Eventbrite",
		Category:    []string{"Music"},
		Status:      domain.StatusNew,
	}

	doc := newEventDocument(event)
	doc.ID = primitive.NewObjectID()
	got := doc.toDomain()

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, event.Title, got.Title)
	assert.Equal(t, event.Venue, got.Venue)
	assert.Equal(t, &date, got.Date)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Equal(t, "https://example.com/img/1.jpg", got.ImageURL)
	assert.Equal(t, "Eventbrite", got.SourceSite)
}

func TestEventDocument_NilCategoryBecomesEmpty(t *testing.T) {
	doc := eventDocument{ID: primitive.NewObjectID(), Title: "No tags"}

	assert.Equal(t, []string{}, doc.toDomain().Category)
}

func TestLeadListDocument_ToDomain(t *testing.T) {
	eventID := primitive.NewObjectID()
	doc := leadListDocument{ID: primitive.NewObjectID(), Email: "a@example.com", Consent: true}
	doc.Event = &struct {
		ID    primitive.ObjectID `bson:"_id"`
		Title string             `bson:"title"`
	}{ID: eventID, Title: "Opera Gala"}

	lead := doc.toDomain()
	assert.Equal(t, &domain.LeadEventRef{ID: eventID.Hex(), Title: "Opera Gala"}, lead.Event)

	direct := leadListDocument{ID: primitive.NewObjectID(), Email: "b@example.com"}
	assert.Nil(t, direct.toDomain().Event)
}
