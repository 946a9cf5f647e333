package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
	"github.com/sydneyevents/event-listing-service/internal/metrics"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// EventService represents event service
type EventService struct {
	repository repository.EventRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepository, log *zap.Logger) *EventService {
	return &EventService{
		repository: repo,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListDashboard returns the events visible to the requested view
func (s *EventService) ListDashboard(ctx context.Context, req *dto.DashboardRequest) ([]domain.Event, error) {
	filter, ignored, err := BuildEventFilter(req)
	if err != nil {
		s.log.Warn("Invalid dashboard query",
			zap.Error(err),
			zap.String("status", req.Status))
		return nil, err
	}

	if len(ignored) > 0 {
		s.log.Warn("Ignoring unparsable date bounds",
			zap.Strings("params", ignored),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate))
	}

	admin := IsAdminView(req)
	metrics.RecordDashboardQuery(admin)

	s.log.Debug("Querying dashboard events",
		zap.String("city", filter.City),
		zap.Bool("admin", admin),
		zap.Int("status_count", len(filter.Statuses)),
		zap.String("search", filter.Search))

	events, err := s.repository.FindEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events from repository: %w", err)
	}

	return events, nil
}

// GetEvent returns a single event. Events outside the public statuses
// are only visible to admins; everyone else gets domain.ErrNotFound.
func (s *EventService) GetEvent(ctx context.Context, principal *domain.Principal, id string) (*domain.Event, error) {
	event, err := s.repository.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !event.Status.IsPublic() && !principal.IsAdmin() {
		s.log.Debug("Hiding non-public event",
			zap.String("event_id", id),
			zap.String("status", string(event.Status)))
		return nil, fmt.Errorf("failed to get event: %w", domain.ErrNotFound)
	}

	return event, nil
}

// ImportEvent marks an event as imported by the principal.
// Importing an already imported event re-stamps it.
func (s *EventService) ImportEvent(ctx context.Context, principal *domain.Principal, id, notes string) (*domain.Event, error) {
	if principal == nil {
		s.log.Warn("Import rejected: not authenticated", zap.String("event_id", id))
		return nil, fmt.Errorf("%w: please log in first", domain.ErrUnauthorized)
	}
	if !principal.IsAdmin() {
		s.log.Warn("Import rejected: missing admin role",
			zap.String("event_id", id),
			zap.String("principal", principal.Email))
		return nil, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	if strings.TrimSpace(notes) == "" {
		notes = domain.DefaultImportNotes
	}

	stamp := domain.ImportStamp{
		By:    principal.Email,
		At:    s.now(),
		Notes: notes,
	}

	event, err := s.repository.MarkImported(ctx, id, stamp)
	if err != nil {
		return nil, fmt.Errorf("failed to import event: %w", err)
	}

	metrics.EventsImported.Inc()

	s.log.Info("Event imported",
		zap.String("event_id", event.ID),
		zap.String("imported_by", stamp.By))

	return event, nil
}
