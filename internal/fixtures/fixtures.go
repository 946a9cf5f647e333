// Package fixtures loads event listings from YAML files into an event store.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sydneyevents/event-listing-service/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

type file struct {
	Events []event `yaml:"events"`
}

type venue struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type event struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Venue       venue    `yaml:"venue"`
	City        string   `yaml:"city"`
	Description string   `yaml:"description"`
	OriginalURL string   `yaml:"original_url"`
	ImageURL    string   `yaml:"image_url"`
	SourceSite  string   `yaml:"source_site"`
	Category    []string `yaml:"category"`
	Status      string   `yaml:"status"`
}

// Parse reads a fixture document. Unknown keys are rejected.
func Parse(r io.Reader) ([]domain.Event, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Event{}, nil
		}
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	events := make([]domain.Event, 0, len(f.Events))
	for i, e := range f.Events {
		parsed, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, e.Title, err)
		}
		events = append(events, parsed)
	}
	return events, nil
}

func (e event) toDomain() (domain.Event, error) {
	out := domain.Event{
		Title:       strings.TrimSpace(e.Title),
		Venue:       domain.Venue{Name: e.Venue.Name, Address: e.Venue.Address},
		City:        e.City,
		Description: e.Description,
		OriginalURL: e.OriginalURL,
		ImageURL:    e.ImageURL,
		SourceSite:  e.SourceSite,
		Category:    e.Category,
		Status:      domain.EventStatus(e.Status),
	}

	if e.Date != "" {
		date, err := parseDate(e.Date)
		if err != nil {
			return domain.Event{}, err
		}
		out.Date = &date
	}

	if err := out.Validate(); err != nil {
		return domain.Event{}, err
	}
	return out, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", domain.ErrValidation, value)
}

// LoadFile parses the fixture file at path and loads it into store
func LoadFile(ctx context.Context, store EventCreator, path string, log *zap.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer f.Close()

	events, err := Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return Load(ctx, store, events, log)
}

// EventCreator is the part of the event store the loader writes through
type EventCreator interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
}

// Result summarises a load
type Result struct {
	Created    int
	Duplicates int
	Failed     int
}

// Load inserts events one by one. Duplicates and rejected events are
// counted and logged; only a cancelled context stops the load early.
func Load(ctx context.Context, store EventCreator, events []domain.Event, log *zap.Logger) (Result, error) {
	var res Result
	for i := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		e := events[i]
		err := store.CreateEvent(ctx, &e)
		switch {
		case err == nil:
			res.Created++
			log.Debug("Event created", zap.String("id", e.ID), zap.String("title", e.Title))
		case errors.Is(err, domain.ErrDuplicate):
			res.Duplicates++
			log.Warn("Skipping duplicate event",
				zap.String("title", e.Title),
				zap.String("original_url", e.OriginalURL))
		default:
			res.Failed++
			log.Error("Failed to create event", zap.String("title", e.Title), zap.Error(err))
		}
	}
	return res, nil
}
