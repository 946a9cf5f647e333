package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
	"github.com/sydneyevents/event-listing-service/internal/repository/memory"
)

func TestLeadService_CaptureLead_WithEvent(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockEvents := new(MockEventRepository)
	service := NewLeadService(mockLeads, mockEvents, false, zap.NewNop())

	mockEvents.On("GetEvent", mock.Anything, "evt-1").Return(&domain.Event{ID: "evt-1"}, nil)
	mockLeads.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *domain.Lead) bool {
		return l.Email == "fan@example.com" && l.Consent && l.EventID == "evt-1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Lead).ID = "lead-1"
	}).Return(nil)

	lead, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{
		Email:   "fan@example.com",
		Consent: true,
		EventID: "evt-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	mockLeads.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestLeadService_CaptureLead_Direct(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockEvents := new(MockEventRepository)
	service := NewLeadService(mockLeads, mockEvents, false, zap.NewNop())

	mockLeads.On("CreateLead", mock.Anything, mock.Anything).Return(nil)

	lead, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{Email: "fan@example.com", Consent: true})

	assert.NoError(t, err)
	assert.True(t, lead.IsDirect())
	mockEvents.AssertNotCalled(t, "GetEvent", mock.Anything, mock.Anything)
}

func TestLeadService_CaptureLead_InvalidEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		message string
	}{
		{name: "missing", email: "", message: "email is required"},
		{name: "malformed", email: "not-an-email", message: "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLeads := new(MockLeadRepository)
			service := NewLeadService(mockLeads, new(MockEventRepository), false, zap.NewNop())

			lead, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{Email: tt.email, Consent: true})

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
			assert.Nil(t, lead)
			mockLeads.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
		})
	}
}

func TestLeadService_CaptureLead_Consent(t *testing.T) {
	req := &dto.CreateLeadRequest{Email: "fan@example.com", Consent: false}

	lenientLeads := new(MockLeadRepository)
	lenientLeads.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
	lenient := NewLeadService(lenientLeads, new(MockEventRepository), false, zap.NewNop())

	lead, err := lenient.CaptureLead(context.Background(), req)
	assert.NoError(t, err)
	assert.False(t, lead.Consent)

	strictLeads := new(MockLeadRepository)
	strict := NewLeadService(strictLeads, new(MockEventRepository), true, zap.NewNop())

	_, err = strict.CaptureLead(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
	strictLeads.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestLeadService_CaptureLead_UnknownEvent(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockEvents := new(MockEventRepository)
	service := NewLeadService(mockLeads, mockEvents, false, zap.NewNop())

	mockEvents.On("GetEvent", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{Email: "fan@example.com", Consent: true, EventID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockLeads.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestLeadService_CaptureLead_StoreError(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	service := NewLeadService(mockLeads, new(MockEventRepository), false, zap.NewNop())

	mockLeads.On("CreateLead", mock.Anything, mock.Anything).Return(errors.New("write concern error"))

	_, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{Email: "fan@example.com", Consent: true})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save lead")
}

func TestLeadService_ListLeads_RequiresAdmin(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	service := NewLeadService(mockLeads, new(MockEventRepository), false, zap.NewNop())

	_, err := service.ListLeads(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = service.ListLeads(context.Background(), &domain.Principal{Email: "viewer@example.com"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Empty(t, mockLeads.Calls)
}

func TestLeadService_CaptureThenList_ResolvesEventTitle(t *testing.T) {
	store := memory.NewStore()
	event := &domain.Event{Title: "Opera Gala"}
	require.NoError(t, store.CreateEvent(context.Background(), event))

	service := NewLeadService(store, store, false, zap.NewNop())

	_, err := service.CaptureLead(context.Background(), &dto.CreateLeadRequest{Email: "fan@example.com", Consent: true, EventID: event.ID})
	require.NoError(t, err)

	leads, err := service.ListLeads(context.Background(), adminPrincipal("ops@example.com"))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "fan@example.com", leads[0].Email)
	require.NotNil(t, leads[0].Event)
	assert.Equal(t, "Opera Gala", leads[0].Event.Title)
}
