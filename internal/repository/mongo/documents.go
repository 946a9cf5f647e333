package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sydneyevents/event-listing-service/internal/domain"
)

type venueDocument struct {
	Name    string `bson:"name,omitempty"`
	Address string `bson:"address,omitempty"`
}

// eventDocument is the stored shape of an event
type eventDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Date            *time.Time         `bson:"date,omitempty"`
	Venue           venueDocument      `bson:"venue"`
	City            string             `bson:"city"`
	Description     string             `bson:"description,omitempty"`
	OriginalURL     string             `bson:"originalUrl,omitempty"`
	ImageURL        string             `bson:"imageUrl,omitempty"`
	SourceSite      string             `bson:"sourceSite,omitempty"`
	Category        []string           `bson:"category"`
	Status          string             `bson:"status"`
	ImportedBy      string             `bson:"importedBy,omitempty"`
	ImportedAt      *time.Time         `bson:"importedAt,omitempty"`
	ImportNotes     string             `bson:"importNotes,omitempty"`
	LastScrapedTime time.Time          `bson:"lastScrapedTime"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func newEventDocument(e *domain.Event) eventDocument {
	return eventDocument{
		Title:           e.Title,
		Date:            e.Date,
		Venue:           venueDocument{Name: e.Venue.Name, Address: e.Venue.Address},
		City:            e.City,
		Description:     e.Description,
		OriginalURL:     e.OriginalURL,
		ImageURL:        e.ImageURL,
		SourceSite:      e.SourceSite,
		Category:        e.Category,
		Status:          string(e.Status),
		ImportedBy:      e.ImportedBy,
		ImportedAt:      e.ImportedAt,
		ImportNotes:     e.ImportNotes,
		LastScrapedTime: e.LastScrapedTime,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (d *eventDocument) toDomain() domain.Event {
	category := d.Category
	if category == nil {
		category = []string{}
	}
	return domain.Event{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Date:            d.Date,
		Venue:           domain.Venue{Name: d.Venue.Name, Address: d.Venue.Address},
		City:            d.City,
		Description:     d.Description,
		OriginalURL:     d.OriginalURL,
		ImageURL:        d.ImageURL,
		SourceSite:      d.SourceSite,
		Category:        category,
		Status:          domain.EventStatus(d.Status),
		ImportedBy:      d.ImportedBy,
		ImportedAt:      d.ImportedAt,
		ImportNotes:     d.ImportNotes,
		LastScrapedTime: d.LastScrapedTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// leadDocument is the stored shape of a lead
type leadDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Email     string              `bson:"email"`
	Consent   bool                `bson:"consent"`
	EventID   *primitive.ObjectID `bson:"eventId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// leadListDocument is a lead joined with its event by the listing pipeline
type leadListDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Consent   bool               `bson:"consent"`
	CreatedAt time.Time          `bson:"createdAt"`
	Event     *struct {
		ID    primitive.ObjectID `bson:"_id"`
		Title string             `bson:"title"`
	} `bson:"event,omitempty"`
}

func (d *leadListDocument) toDomain() domain.LeadWithEvent {
	lead := domain.LeadWithEvent{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Consent:   d.Consent,
		CreatedAt: d.CreatedAt,
	}
	if d.Event != nil {
		lead.Event = &domain.LeadEventRef{ID: d.Event.ID.Hex(), Title: d.Event.Title}
	}
	return lead
}
