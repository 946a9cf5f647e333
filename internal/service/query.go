package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// adminFlag is the only isAdmin value that selects the admin view
const adminFlag = "true"

// dateLayouts are tried in order; the first one is date-only
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// IsAdminView reports whether the request selects the admin view
func IsAdminView(req *dto.DashboardRequest) bool {
	return req.IsAdmin == adminFlag
}

// BuildEventFilter translates dashboard parameters into a repository filter.
//
// The public view is always restricted to new and imported events, whatever
// status was asked for. Date bounds that cannot be parsed are dropped and
// reported in ignored. An unknown status in the admin view is a validation error.
func BuildEventFilter(req *dto.DashboardRequest) (filter repository.EventFilter, ignored []string, err error) {
	filter.City = strings.TrimSpace(req.City)
	if filter.City == "" {
		filter.City = domain.DefaultCity
	}

	if !IsAdminView(req) {
		filter.Statuses = append([]domain.EventStatus(nil), domain.PublicStatuses...)
	} else if req.Status != "" {
		status := domain.EventStatus(req.Status)
		if !status.Valid() {
			return repository.EventFilter{}, nil, fmt.Errorf("%w: unknown status %q (supported: new, updated, inactive, imported)", domain.ErrValidation, req.Status)
		}
		filter.Statuses = []domain.EventStatus{status}
	}

	filter.Search = strings.TrimSpace(req.Search)

	if req.StartDate != "" {
		if from, ok := parseDateBound(req.StartDate, false); ok {
			filter.From = &from
		} else {
			ignored = append(ignored, "startDate")
		}
	}
	if req.EndDate != "" {
		if to, ok := parseDateBound(req.EndDate, true); ok {
			filter.To = &to
		} else {
			ignored = append(ignored, "endDate")
		}
	}

	return filter, ignored, nil
}

// parseDateBound parses a date query value. A date-only upper bound covers
// the whole day.
func parseDateBound(value string, upper bool) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for i, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t = t.UTC()
		if i == 0 && upper {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return t, true
	}
	return time.Time{}, false
}
