package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCity is applied to events and dashboard queries that do not name a city
const DefaultCity = "Sydney"

// DefaultImportNotes is stamped on an import that carries no notes
const DefaultImportNotes = "Standard Import"

// EventStatus is the lifecycle state of a scraped event
type EventStatus string

const (
	StatusNew      EventStatus = "new"
	StatusUpdated  EventStatus = "updated"
	StatusInactive EventStatus = "inactive"
	StatusImported EventStatus = "imported"
)

// PublicStatuses are the only statuses visible outside the admin view
var PublicStatuses = []EventStatus{StatusNew, StatusImported}

// Valid reports whether s is one of the known statuses
func (s EventStatus) Valid() bool {
	switch s {
	case StatusNew, StatusUpdated, StatusInactive, StatusImported:
		return true
	}
	return false
}

// IsPublic reports whether events in status s are visible outside the admin view
func (s EventStatus) IsPublic() bool {
	for _, p := range PublicStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// Venue is where an event takes place
type Venue struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Event represents a scraped event listing
type Event struct {
	ID              string      `json:"_id"`
	Title           string      `json:"title"`
	Date            *time.Time  `json:"date,omitempty"`
	Venue           Venue       `json:"venue"`
	City            string      `json:"city"`
	Description     string      `json:"description,omitempty"`
	OriginalURL     string      `json:"originalUrl,omitempty"`
	ImageURL        string      `json:"imageUrl,omitempty"`
	SourceSite      string      `json:"sourceSite,omitempty"`
	Category        []string    `json:"category"`
	Status          EventStatus `json:"status"`
	ImportedBy      string      `json:"importedBy,omitempty"`
	ImportedAt      *time.Time  `json:"importedAt,omitempty"`
	ImportNotes     string      `json:"importNotes,omitempty"`
	LastScrapedTime time.Time   `json:"lastScrapedTime"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ApplyDefaults fills the fields a freshly created event falls back to
func (e *Event) ApplyDefaults(now time.Time) {
	if e.City == "" {
		e.City = DefaultCity
	}
	if e.Status == "" {
		e.Status = StatusNew
	}
	if e.Category == nil {
		e.Category = []string{}
	}
	if e.LastScrapedTime.IsZero() {
		e.LastScrapedTime = now
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// ImportStamp carries the fields written when an event is imported
type ImportStamp struct {
	By    string
	At    time.Time
	Notes string
}

// Validate checks the fields the store requires of an event
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if e.Status != "" && !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, e.Status)
	}
	return nil
}
