package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
	"github.com/sydneyevents/event-listing-service/internal/metrics"
	"github.com/sydneyevents/event-listing-service/internal/repository"
)

// LeadService represents lead service
type LeadService struct {
	leads          repository.LeadRepository
	events         repository.EventRepository
	validate       *validator.Validate
	requireConsent bool
	log            *zap.Logger
}

// NewLeadService creates a new lead service.
// When requireConsent is false, leads without consent are stored and logged.
func NewLeadService(leads repository.LeadRepository, events repository.EventRepository, requireConsent bool, log *zap.Logger) *LeadService {
	validate := validator.New()
	// reuse the request binding rules
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(JSONFieldName)

	return &LeadService{
		leads:          leads,
		events:         events,
		validate:       validate,
		requireConsent: requireConsent,
		log:            log,
	}
}

// CaptureLead validates and stores a ticket lead
func (s *LeadService) CaptureLead(ctx context.Context, req *dto.CreateLeadRequest) (*domain.Lead, error) {
	if err := s.validate.Struct(req); err != nil {
		s.log.Warn("Lead validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, DescribeValidation(err))
	}

	if !req.Consent {
		if s.requireConsent {
			s.log.Warn("Lead rejected: consent missing", zap.String("event_id", req.EventID))
			return nil, fmt.Errorf("%w: consent is required", domain.ErrValidation)
		}
		s.log.Warn("Lead captured without consent", zap.String("event_id", req.EventID))
	}

	if req.EventID != "" {
		if _, err := s.events.GetEvent(ctx, req.EventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: eventId %q does not reference an existing event", domain.ErrValidation, req.EventID)
			}
			return nil, fmt.Errorf("failed to resolve lead event: %w", err)
		}
	}

	lead := &domain.Lead{
		Email:   req.Email,
		Consent: req.Consent,
		EventID: req.EventID,
	}
	if err := s.leads.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to save lead: %w", err)
	}

	metrics.RecordLead(lead.IsDirect())

	s.log.Info("Lead captured",
		zap.String("lead_id", lead.ID),
		zap.String("event_id", lead.EventID))

	return lead, nil
}

// ListLeads returns every captured lead to an admin principal
func (s *LeadService) ListLeads(ctx context.Context, principal *domain.Principal) ([]domain.LeadWithEvent, error) {
	if principal == nil {
		return nil, fmt.Errorf("%w: please log in first", domain.ErrUnauthorized)
	}
	if !principal.IsAdmin() {
		s.log.Warn("Lead listing rejected: missing admin role", zap.String("principal", principal.Email))
		return nil, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	leads, err := s.leads.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads from repository: %w", err)
	}
	return leads, nil
}

// JSONFieldName reports struct fields by their JSON name in validation errors
func JSONFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// DescribeValidation turns the first validator failure into a readable message
func DescribeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
