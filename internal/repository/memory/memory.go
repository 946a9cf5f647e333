// Package memory is an in-process store with the same query semantics as the
// MongoDB repositories, used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// Store implements repository.EventRepository and repository.LeadRepository
type Store struct {
	mu     sync.RWMutex
	events []domain.Event
	leads  []domain.Lead
	now    func() time.Time
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// InitSchema is a no-op; uniqueness is checked on insert
func (s *Store) InitSchema(_ context.Context) error {
	return nil
}

// FindEvents returns the events matching the filter sorted by date ascending.
// Events without a date sort first.
func (s *Store) FindEvents(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Event, 0)
	for _, e := range s.events {
		if matches(&e, filter) {
			matched = append(matched, cloneEvent(e))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Date, matched[j].Date
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return matched, nil
}

func matches(e *domain.Event, f repository.EventFilter) bool {
	if e.City != f.City {
		return false
	}

	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if e.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), term) &&
			!strings.Contains(strings.ToLower(e.Venue.Name), term) &&
			!strings.Contains(strings.ToLower(e.Description), term) {
			return false
		}
	}

	if f.From != nil || f.To != nil {
		if e.Date == nil {
			return false
		}
		if f.From != nil && e.Date.Before(*f.From) {
			return false
		}
		if f.To != nil && e.Date.After(*f.To) {
			return false
		}
	}

	return true
}

// GetEvent returns a single event by id
func (s *Store) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}
	event := cloneEvent(s.events[idx])
	return &event, nil
}

// MarkImported overwrites the import fields of an event
func (s *Store) MarkImported(_ context.Context, id string, stamp domain.ImportStamp) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}

	at := stamp.At
	e := &s.events[idx]
	e.Status = domain.StatusImported
	e.ImportedAt = &at
	e.ImportedBy = stamp.By
	e.ImportNotes = stamp.Notes
	e.UpdatedAt = at

	event := cloneEvent(*e)
	return &event, nil
}

// CreateEvent inserts a new event, enforcing originalUrl uniqueness
func (s *Store) CreateEvent(_ context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.OriginalURL != "" {
		for _, e := range s.events {
			if e.OriginalURL == event.OriginalURL {
				return fmt.Errorf("%w: originalUrl %q already exists", domain.ErrDuplicate, event.OriginalURL)
			}
		}
	}

	event.ApplyDefaults(s.now())
	event.ID = uuid.NewString()
	s.events = append(s.events, cloneEvent(*event))
	return nil
}

// CreateLead inserts a new lead
func (s *Store) CreateLead(_ context.Context, lead *domain.Lead) error {
	if lead.EventID != "" {
		if _, err := uuid.Parse(lead.EventID); err != nil {
			return fmt.Errorf("%w: malformed eventId %q", domain.ErrValidation, lead.EventID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}
	lead.ID = uuid.NewString()
	s.leads = append(s.leads, *lead)
	return nil
}

// ListLeads returns all leads, newest first, with the event title resolved
func (s *Store) ListLeads(_ context.Context) ([]domain.LeadWithEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]domain.LeadWithEvent, 0, len(s.leads))
	for _, l := range s.leads {
		item := domain.LeadWithEvent{
			ID:        l.ID,
			Email:     l.Email,
			Consent:   l.Consent,
			CreatedAt: l.CreatedAt,
		}
		if idx := s.indexOf(l.EventID); l.EventID != "" && idx >= 0 {
			item.Event = &domain.LeadEventRef{ID: s.events[idx].ID, Title: s.events[idx].Title}
		}
		leads = append(leads, item)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

// Ping always succeeds
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneEvent(e domain.Event) domain.Event {
	e.Category = append([]string{}, e.Category...)
	if e.Date != nil {
		d := *e.Date
		e.Date = &d
	}
	if e.ImportedAt != nil {
		at := *e.ImportedAt
		e.ImportedAt = &at
	}
	return e
}
