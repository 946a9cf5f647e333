package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	SessionDriverMemory = "memory"
	SessionDriverRedis  = "redis"
)

type Config struct {
	Service   Service   `envconfig:"SERVICE"`
	Store     Store     `envconfig:"STORE"`
	Mongo     Mongo     `envconfig:"MONGO"`
	Session   Session   `envconfig:"SESSION"`
	Redis     Redis     `envconfig:"REDIS"`
	OAuth     OAuth     `envconfig:"OAUTH"`
	Leads     Leads     `envconfig:"LEADS"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
}

type Service struct {
	Environment    string   `envconfig:"ENVIRONMENT" default:"development"`
	APIPort        string   `envconfig:"API_PORT" default:"5000"`
	Host           string   `envconfig:"HOST" default:"localhost:5000"`
	FrontendURL    string   `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownSec    int      `envconfig:"SHUTDOWN_TIMEOUT_SEC" default:"10"`
}

type Store struct {
	Driver string `envconfig:"DRIVER" default:"mongo"`
	// SeedFile is a fixture file loaded into the store at startup; duplicates are skipped
	SeedFile string `envconfig:"SEED_FILE"`
}

type Mongo struct {
	URI               string `envconfig:"URI"`
	Database          string `envconfig:"DATABASE" default:"sydney_events"`
	ConnectTimeoutSec int    `envconfig:"CONNECT_TIMEOUT_SEC" default:"10"`
	MaxPoolSize       uint64 `envconfig:"MAX_POOL_SIZE" default:"20"`
}

type Session struct {
	Driver     string        `envconfig:"DRIVER" default:"memory"`
	CookieName string        `envconfig:"COOKIE_NAME" default:"sid"`
	TTL        time.Duration `envconfig:"TTL" default:"24h"`
	Secure     bool          `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite   string        `envconfig:"COOKIE_SAMESITE" default:"lax"`
}

type Redis struct {
	Host      string `envconfig:"HOST"`
	Port      string `envconfig:"PORT" default:"6379"`
	Password  string `envconfig:"PASSWORD" default:""`
	DB        int    `envconfig:"DB" default:"0"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"session:"`
}

type OAuth struct {
	Disabled         bool     `envconfig:"DISABLED" default:"false"`
	ClientID         string   `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret     string   `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL      string   `envconfig:"REDIRECT_URL" default:"http://localhost:5000/auth/google/callback"`
	AdminEmails      []string `envconfig:"ADMIN_EMAILS"`
	LoginFailurePath string   `envconfig:"LOGIN_FAILURE_PATH" default:"/login"`
	DevEmail         string   `envconfig:"DEV_EMAIL" default:"dev@localhost"`
}

type Leads struct {
	RequireConsent bool `envconfig:"REQUIRE_CONSENT" default:"false"`
}

type RateLimit struct {
	LeadsPerSecond float64 `envconfig:"LEADS_PER_SECOND" default:"2"`
	LeadsBurst     int     `envconfig:"LEADS_BURST" default:"5"`
}

// SeedConfig configures cmd/seed
type SeedConfig struct {
	Seed  Seed  `envconfig:"SEED"`
	Mongo Mongo `envconfig:"MONGO"`
}

type Seed struct {
	File     string `envconfig:"FILE" default:"fixtures/sydney-events.yaml"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadSeed loads the configuration of the fixture seeding command
func LoadSeed() (*SeedConfig, error) {
	var cfg SeedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("invalid config: MONGO_URI is required")
	}
	if strings.TrimSpace(cfg.Seed.File) == "" {
		return nil, fmt.Errorf("invalid config: SEED_FILE must not be empty")
	}

	return &cfg, nil
}

// Validate checks the constraints that span more than one field
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreDriverMongo)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (supported: mongo, memory)", c.Store.Driver)
	}

	switch c.Session.Driver {
	case SessionDriverRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when SESSION_DRIVER=%s", SessionDriverRedis)
		}
	case SessionDriverMemory:
	default:
		return fmt.Errorf("unsupported SESSION_DRIVER %q (supported: memory, redis)", c.Session.Driver)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if _, ok := sameSiteModes[strings.ToLower(c.Session.SameSite)]; !ok {
		return fmt.Errorf("unsupported SESSION_COOKIE_SAMESITE %q (supported: lax, strict, none)", c.Session.SameSite)
	}

	if !c.OAuth.Disabled && (c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "") {
		return fmt.Errorf("OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET are required unless OAUTH_DISABLED=true")
	}

	if c.RateLimit.LeadsPerSecond <= 0 || c.RateLimit.LeadsBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_LEADS_PER_SECOND and RATE_LIMIT_LEADS_BURST must be positive")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}

var sameSiteModes = map[string]http.SameSite{
	"lax":    http.SameSiteLaxMode,
	"strict": http.SameSiteStrictMode,
	"none":   http.SameSiteNoneMode,
}

// SameSiteMode returns the configured SameSite attribute of the session cookie
func (s Session) SameSiteMode() http.SameSite {
	if mode, ok := sameSiteModes[strings.ToLower(s.SameSite)]; ok {
		return mode
	}
	return http.SameSiteLaxMode
}

// Addr returns the host:port of the Redis server
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}
