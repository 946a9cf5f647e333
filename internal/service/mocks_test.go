package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) MarkImported(ctx context.Context, id string, stamp domain.ImportStamp) (*domain.Event, error) {
	args := m.Called(ctx, id, stamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLeadRepository is a mock implementation of repository.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ListLeads(ctx context.Context) ([]domain.LeadWithEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeadWithEvent), args.Error(1)
}
