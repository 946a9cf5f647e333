package fixtures

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
	"github.com/sydneyevents/event-listing-service/internal/repository/memory"
)

const sample = `
events:
  - title: Jazz at the Opera House
    date: 2025-01-10T19:00:00+11:00
    venue:
      name: Sydney Opera House
      address: Bennelong Point
    original_url: https://example.com/jazz
    image_url: https://example.com/jazz.jpg
    source_site: Sydney Opera House
    category: [music, jazz]
  - title: Harbour Fireworks
    date: "2025-01-20"
    original_url: https://example.com/fireworks
    status: imported
  - title: Undated Market
    original_url: https://example.com/market
`

func TestParse(t *testing.T) {
	events, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, events, 3)

	jazz := events[0]
	assert.Equal(t, "Jazz at the Opera House", jazz.Title)
	assert.Equal(t, "Sydney Opera House", jazz.Venue.Name)
	assert.Equal(t, []string{"music", "jazz"}, jazz.Category)
	assert.Equal(t, "https://example.com/jazz.jpg", jazz.ImageURL)
	assert.Equal(t, "Sydney Opera House", jazz.SourceSite)
	require.NotNil(t, jazz.Date)
	assert.Equal(t, time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), *jazz.Date)

	assert.Equal(t, domain.StatusImported, events[1].Status)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), *events[1].Date)

	assert.Nil(t, events[2].Date)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: "events:\n  - title: A\n    colour: red\n"},
		{name: "missing title", doc: "events:\n  - original_url: https://example.com/a\n"},
		{name: "bad status", doc: "events:\n  - title: A\n    status: archived\n"},
		{name: "bad date", doc: "events:\n  - title: A\n    date: next tuesday\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	events, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoad_SkipsDuplicates(t *testing.T) {
	store := memory.NewStore()
	events, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	res, err := Load(context.Background(), store, events, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3}, res)

	res, err = Load(context.Background(), store, events, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Duplicates: 3}, res)

	stored, err := store.FindEvents(context.Background(), repository.EventFilter{City: domain.DefaultCity})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

type failingStore struct{}

func (failingStore) CreateEvent(context.Context, *domain.Event) error {
	return errors.New("no primary available")
}

func TestLoad_CountsFailures(t *testing.T) {
	res, err := Load(context.Background(), failingStore{}, []domain.Event{{Title: "A"}, {Title: "B"}}, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 2}, res)
}

func TestLoad_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Load(ctx, memory.NewStore(), []domain.Event{{Title: "A"}}, zap.NewNop())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Created)
}

func TestLoadFile_SampleFixtures(t *testing.T) {
	store := memory.NewStore()

	res, err := LoadFile(context.Background(), store, "../../fixtures/sydney-events.yaml", zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, Result{Created: 5}, res)

	stored, err := store.FindEvents(context.Background(), repository.EventFilter{City: domain.DefaultCity})
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	for _, e := range stored {
		assert.NotEmpty(t, e.ImageURL, e.Title)
		assert.NotEmpty(t, e.SourceSite, e.Title)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(context.Background(), memory.NewStore(), "does-not-exist.yaml", zap.NewNop())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - colour: red\n"), 0o600))

	_, err = LoadFile(context.Background(), memory.NewStore(), path, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
