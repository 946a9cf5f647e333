package service

import (
	"context"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
)

// EventServicer defines the interface for event service operations
type EventServicer interface {
	ListDashboard(ctx context.Context, req *dto.DashboardRequest) ([]domain.Event, error)
	GetEvent(ctx context.Context, principal *domain.Principal, id string) (*domain.Event, error)
	ImportEvent(ctx context.Context, principal *domain.Principal, id, notes string) (*domain.Event, error)
}

// LeadServicer defines the interface for lead service operations
type LeadServicer interface {
	CaptureLead(ctx context.Context, req *dto.CreateLeadRequest) (*domain.Lead, error)
	ListLeads(ctx context.Context, principal *domain.Principal) ([]domain.LeadWithEvent, error)
}
