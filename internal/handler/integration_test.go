package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/repository"
	"github.com/sydneyevents/event-listing-service/internal/repository/memory"
	"github.com/sydneyevents/event-listing-service/internal/service"
)

type stack struct {
	handler *Handler
	store   *memory.Store
	ids     map[string]string
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	store := memory.NewStore()
	log := zap.NewNop()

	manager := auth.NewManager(auth.NewDevProvider(&cfg.OAuth), auth.NewMemorySessionStore(), cfg.Session, log)
	h := NewHandler(
		service.NewEventService(store, log),
		service.NewLeadService(store, store, cfg.Leads.RequireConsent, log),
		manager,
		store,
		cfg,
		log,
	)

	s := &stack{handler: h, store: store, ids: make(map[string]string)}

	day := func(d int) *time.Time {
		date := time.Date(2025, 1, d, 19, 0, 0, 0, time.UTC)
		return &date
	}
	fixtures := []domain.Event{
		{Title: "Jazz at the Opera House", Date: day(10), Venue: domain.Venue{Name: "Sydney Opera House"}, OriginalURL: "https://example.com/jazz", Status: domain.StatusNew},
		{Title: "Harbour Fireworks", Date: day(20), Venue: domain.Venue{Name: "Circular Quay"}, Description: "Late night JAZZ band on the barge", OriginalURL: "https://example.com/fireworks", Status: domain.StatusImported},
		{Title: "Comedy Night", Date: day(5), Venue: domain.Venue{Name: "The Jazz Cellar"}, OriginalURL: "https://example.com/comedy", Status: domain.StatusUpdated},
		{Title: "Closed Gallery", Date: day(15), Venue: domain.Venue{Name: "MCA"}, OriginalURL: "https://example.com/gallery", Status: domain.StatusInactive},
		{Title: "Melbourne Jazz", Date: day(12), City: "Melbourne", OriginalURL: "https://example.com/melbourne", Status: domain.StatusNew},
	}
	for i := range fixtures {
		e := fixtures[i]
		require.NoError(t, store.CreateEvent(context.Background(), &e))
		s.ids[e.Title] = e.ID
	}
	return s
}

func (s *stack) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *stack) login(t *testing.T) *http.Cookie {
	t.Helper()

	w := s.do(http.MethodGet, "/auth/google", "")
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	var state *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c
		}
	}
	require.NotNil(t, state)

	w = s.do(http.MethodGet, location.RequestURI(), "", state)
	for _, c := range w.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (s *stack) dashboard(t *testing.T, query string) []string {
	t.Helper()

	w := s.do(http.MethodGet, "/api/dashboard?"+query, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var events []domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))

	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	return titles
}

func TestStack_PublicDashboard(t *testing.T) {
	s := setupStack(t)

	assert.Equal(t, []string{"Jazz at the Opera House", "Harbour Fireworks"}, s.dashboard(t, ""))
	// status is ignored outside the admin view
	assert.Equal(t, []string{"Jazz at the Opera House", "Harbour Fireworks"}, s.dashboard(t, "status=inactive"))
	assert.Equal(t, []string{"Melbourne Jazz"}, s.dashboard(t, "city=Melbourne"))
}

func TestStack_AdminDashboard(t *testing.T) {
	s := setupStack(t)

	assert.Equal(t, []string{"Comedy Night", "Jazz at the Opera House", "Closed Gallery", "Harbour Fireworks"}, s.dashboard(t, "isAdmin=true"))
	assert.Equal(t, []string{"Comedy Night"}, s.dashboard(t, "isAdmin=true&status=updated"))
	assert.Equal(t, []string{"Closed Gallery"}, s.dashboard(t, "isAdmin=true&status=inactive"))

	w := s.do(http.MethodGet, "/api/dashboard?isAdmin=true&status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStack_SearchIsCaseInsensitiveUnion(t *testing.T) {
	s := setupStack(t)

	assert.Equal(t,
		[]string{"Comedy Night", "Jazz at the Opera House", "Harbour Fireworks"},
		s.dashboard(t, "isAdmin=true&search=jAzZ"),
	)
	assert.Empty(t, s.dashboard(t, "search=(jazz"))
}

func TestStack_DateRangeIsInclusive(t *testing.T) {
	s := setupStack(t)

	assert.Equal(t,
		[]string{"Jazz at the Opera House", "Closed Gallery", "Harbour Fireworks"},
		s.dashboard(t, "isAdmin=true&startDate=2025-01-10&endDate=2025-01-20"),
	)
	assert.Equal(t,
		[]string{"Jazz at the Opera House"},
		s.dashboard(t, "isAdmin=true&startDate=2025-01-10T19:00:00Z&endDate=2025-01-10T19:00:00Z"),
	)
	// unparsable bounds are ignored
	assert.Len(t, s.dashboard(t, "isAdmin=true&startDate=soon"), 4)
}

func TestStack_ImportRequiresLogin(t *testing.T) {
	s := setupStack(t)
	id := s.ids["Comedy Night"]

	w := s.do(http.MethodPatch, "/api/events/"+id+"/import", `{"importNotes":"sneaky"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	event, err := s.store.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpdated, event.Status)
	assert.Empty(t, event.ImportNotes)
}

func TestStack_GetEventHidesNonPublicStatuses(t *testing.T) {
	s := setupStack(t)

	for _, title := range []string{"Closed Gallery", "Comedy Night"} {
		w := s.do(http.MethodGet, "/api/events/"+s.ids[title], "")
		assert.Equal(t, http.StatusNotFound, w.Code, title)
		assert.NotContains(t, w.Body.String(), title)
	}

	w := s.do(http.MethodGet, "/api/events/"+s.ids["Jazz at the Opera House"], "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := s.login(t)
	w = s.do(http.MethodGet, "/api/events/"+s.ids["Closed Gallery"], "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var event domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, domain.StatusInactive, event.Status)
}

func TestStack_ImportTwiceLastWriteWins(t *testing.T) {
	s := setupStack(t)
	cookie := s.login(t)
	id := s.ids["Comedy Night"]

	w := s.do(http.MethodPatch, "/api/events/"+id+"/import", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, domain.StatusImported, first.Status)
	assert.Equal(t, domain.DefaultImportNotes, first.ImportNotes)
	assert.Equal(t, "dev@localhost", first.ImportedBy)

	w = s.do(http.MethodPatch, "/api/events/"+id+"/import", `{"importNotes":"Featured"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/events/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Featured", stored.ImportNotes)
	assert.False(t, stored.ImportedAt.Before(*first.ImportedAt))

	assert.Contains(t, s.dashboard(t, ""), "Comedy Night")
}

func TestStack_ImportUnknownEvent(t *testing.T) {
	s := setupStack(t)
	cookie := s.login(t)

	before, err := s.store.FindEvents(context.Background(), adminFilter())
	require.NoError(t, err)

	w := s.do(http.MethodPatch, "/api/events/does-not-exist/import", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	after, err := s.store.FindEvents(context.Background(), adminFilter())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStack_LeadCaptureAndListing(t *testing.T) {
	s := setupStack(t)
	id := s.ids["Harbour Fireworks"]

	w := s.do(http.MethodPost, "/api/tickets", `{"email":"fan@example.com","consent":true,"eventId":"`+id+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/tickets", `{"email":"fan@example.com","consent":true,"eventId":"not-an-id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/leads", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/leads", "", s.login(t))
	require.Equal(t, http.StatusOK, w.Code)

	var leads []domain.LeadWithEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "fan@example.com", leads[0].Email)
	require.NotNil(t, leads[0].Event)
	assert.Equal(t, "Harbour Fireworks", leads[0].Event.Title)
}

func TestStack_DuplicateOriginalURL(t *testing.T) {
	s := setupStack(t)

	err := s.store.CreateEvent(context.Background(), &domain.Event{Title: "Jazz again", OriginalURL: "https://example.com/jazz"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func adminFilter() repository.EventFilter {
	return repository.EventFilter{City: domain.DefaultCity}
}
