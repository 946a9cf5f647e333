package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/config"
	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
	principalKey    = "auth.principal"
)

var (
	// ErrInvalidState is returned when the callback state does not match the login attempt
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrMissingCode is returned when the callback carries no authorization code
	ErrMissingCode = errors.New("missing authorization code")
)

// Manager runs the OAuth login flow and maps session cookies to principals
type Manager struct {
	provider Provider
	store    SessionStore
	cookie   config.Session
	log      *zap.Logger
	now      func() time.Time
}

// NewManager creates a new session manager
func NewManager(provider Provider, store SessionStore, cookie config.Session, log *zap.Logger) *Manager {
	return &Manager{
		provider: provider,
		store:    store,
		cookie:   cookie,
		log:      log,
		now:      time.Now,
	}
}

// Begin starts a login attempt and returns the provider consent URL
func (m *Manager) Begin(c *gin.Context) (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	m.setCookie(c, stateCookieName, state, int(stateTTL.Seconds()))
	return m.provider.AuthCodeURL(state), nil
}

// Complete finishes a login attempt, creating a session for the authenticated principal
func (m *Manager) Complete(c *gin.Context, state, code string) (*domain.Principal, error) {
	expected, cookieErr := c.Cookie(stateCookieName)
	m.clearCookie(c, stateCookieName)

	if cookieErr != nil || expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	principal, err := m.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(*principal, m.cookie.TTL, m.now())
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(c.Request.Context(), session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.setCookie(c, m.cookie.CookieName, session.ID, int(m.cookie.TTL.Seconds()))

	m.log.Info("User logged in",
		zap.String("email", principal.Email),
		zap.Bool("admin", principal.IsAdmin()))

	return principal, nil
}

// Logout destroys the current session, if any, and clears its cookie
func (m *Manager) Logout(c *gin.Context) error {
	defer m.clearCookie(c, m.cookie.CookieName)

	id, err := c.Cookie(m.cookie.CookieName)
	if err != nil || id == "" {
		return nil
	}
	if err := m.store.Delete(c.Request.Context(), id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// LoadSession resolves the session cookie into a principal for downstream handlers.
// Requests without a valid session pass through unauthenticated; a failing
// session store aborts the request with 500.
func (m *Manager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(m.cookie.CookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		session, err := m.store.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(principalKey, &session.Principal)
		case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
			m.clearCookie(c, m.cookie.CookieName)
		default:
			m.log.Error("Failed to load session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "Session store unavailable",
			})
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the principal loaded by LoadSession, or nil
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*domain.Principal)
	return principal
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(m.cookie.SameSiteMode())
	c.SetCookie(name, value, maxAge, "/", "", m.cookie.Secure, true)
}

func (m *Manager) clearCookie(c *gin.Context, name string) {
	m.setCookie(c, name, "", -1)
}

// compile-time checks
var (
	_ Provider     = (*GoogleProvider)(nil)
	_ Provider     = (*DevProvider)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
)
