package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2"

	"github.com/sydneyevents/event-listing-service/internal/config"
	"github.com/sydneyevents/event-listing-service/internal/domain"
)

const providerTimeout = 10 * time.Second

// ErrEmailNotVerified is returned when the identity provider has not verified the account email
var ErrEmailNotVerified = errors.New("email not verified")

// Provider is an OAuth identity provider
type Provider interface {
	// AuthCodeURL returns the consent page URL carrying state
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the authenticated principal
	Exchange(ctx context.Context, code string) (*domain.Principal, error)
}

// AdminList decides which principals receive the admin role.
// An empty list grants admin to every authenticated principal.
type AdminList struct {
	emails map[string]struct{}
}

// NewAdminList builds an AdminList from email addresses, ignoring case
func NewAdminList(emails []string) AdminList {
	list := AdminList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			list.emails[e] = struct{}{}
		}
	}
	return list
}

// Roles returns the roles granted to email
func (a AdminList) Roles(email string) []string {
	if len(a.emails) == 0 {
		return []string{domain.RoleAdmin}
	}
	if _, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
		return []string{domain.RoleAdmin}
	}
	return []string{}
}

const googleIssuer = "https://accounts.google.com"

// GoogleProvider authenticates users with Google's OpenID Connect endpoints
type GoogleProvider struct {
	rp     rp.RelyingParty
	admins AdminList
}

// NewGoogleProvider creates a provider from the OAuth settings.
// It runs OIDC discovery against Google, so it needs network access.
func NewGoogleProvider(ctx context.Context, cfg *config.OAuth) (*GoogleProvider, error) {
	return newOIDCProvider(ctx, googleIssuer, cfg)
}

func newOIDCProvider(ctx context.Context, issuer string, cfg *config.OAuth) (*GoogleProvider, error) {
	relyingParty, err := rp.NewRelyingPartyOIDC(ctx,
		issuer,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.RedirectURL,
		[]string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail},
		rp.WithHTTPClient(&http.Client{Timeout: providerTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create relying party for %s: %w", issuer, err)
	}

	return &GoogleProvider{
		rp:     relyingParty,
		admins: NewAdminList(cfg.AdminEmails),
	}, nil
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return rp.AuthURL(state, p.rp, func() []oauth2.AuthCodeOption {
		return []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	})
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.Principal, error) {
	tokens, err := rp.CodeExchange[*oidc.IDTokenClaims](ctx, code, p.rp)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	info, err := rp.Userinfo[*oidc.UserInfo](ctx, tokens.AccessToken, tokens.TokenType, tokens.IDTokenClaims.GetSubject(), p.rp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response has no email")
	}
	if !bool(info.EmailVerified) {
		return nil, fmt.Errorf("%w: %s", ErrEmailNotVerified, info.Email)
	}

	return &domain.Principal{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
		Roles:   p.admins.Roles(info.Email),
	}, nil
}

const devCode = "dev"

// DevProvider signs in a fixed local identity without contacting an identity provider.
// It is selected when OAuth is disabled.
type DevProvider struct {
	callbackURL string
	email       string
	admins      AdminList
}

// NewDevProvider creates a provider that redirects straight back to the callback
func NewDevProvider(cfg *config.OAuth) *DevProvider {
	return &DevProvider{
		callbackURL: cfg.RedirectURL,
		email:       cfg.DevEmail,
		admins:      NewAdminList(cfg.AdminEmails),
	}
}

func (p *DevProvider) AuthCodeURL(state string) string {
	return p.callbackURL + "?" + url.Values{"state": {state}, "code": {devCode}}.Encode()
}

func (p *DevProvider) Exchange(_ context.Context, code string) (*domain.Principal, error) {
	if code != devCode {
		return nil, fmt.Errorf("unexpected authorization code %q", code)
	}
	return &domain.Principal{
		Subject: "dev:" + p.email,
		Email:   p.email,
		Name:    "Local Developer",
		Roles:   p.admins.Roles(p.email),
	}, nil
}
