package repository

import (
	"context"
	"time"

	"github.com/sydneyevents/event-listing-service/internal/domain"
)

// EventFilter represents the predicate of a dashboard query.
// Zero values mean "no restriction", except City which is always applied.
type EventFilter struct {
	City     string
	Statuses []domain.EventStatus
	Search   string
	From     *time.Time
	To       *time.Time
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// FindEvents returns events matching the filter sorted by date ascending
	FindEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error)

	// GetEvent returns a single event, or domain.ErrNotFound
	GetEvent(ctx context.Context, id string) (*domain.Event, error)

	// MarkImported moves an event to the imported status and returns the updated record.
	// Returns domain.ErrNotFound if the event does not exist.
	MarkImported(ctx context.Context, id string, stamp domain.ImportStamp) (*domain.Event, error)

	// CreateEvent inserts a new event and assigns its ID.
	// Returns domain.ErrDuplicate if the originalUrl is already stored.
	CreateEvent(ctx context.Context, event *domain.Event) error

	// InitSchema creates the indexes the queries rely on
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}

// LeadRepository defines the interface for lead storage operations
type LeadRepository interface {
	// CreateLead inserts a new lead and assigns its ID
	CreateLead(ctx context.Context, lead *domain.Lead) error

	// ListLeads returns all leads, newest first, with the event title resolved
	ListLeads(ctx context.Context) ([]domain.LeadWithEvent, error)
}
