package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mocinformacji/internal/render"
	"github.com/starford/mocinformacji/internal/views"
	"github.com/starford/mocinformacji/internal/web"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Site    SiteConfig        `yaml:"site"`
	Content ContentConfig     `yaml:"content"`
	Views   ViewsConfig       `yaml:"views"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Ads     AdsConfig         `yaml:"ads"`
	Auth    AuthConfig        `yaml:"auth"`
	Limits  LimitsConfig      `yaml:"limits"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.Views.Validate(); err != nil {
		return fmt.Errorf("views: %w", err)
	}
	if c.Views.Backend == views.BackendSQLite {
		if err := c.SQLite.Validate(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SiteConfig describes the public site.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// Validate validates the site configuration. URL feeds the sitemap, the
// RSS feed and canonical links, so it must be absolute.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, validation.By(absoluteURL)),
	)
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}

// ContentConfig holds the article tree location and the read cache lifetime.
type ContentConfig struct {
	Path string `yaml:"path"`
	// CacheTTL of zero re-reads the tree on every request.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Watch enables live reload on file-system changes.
	Watch bool `yaml:"watch"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
	)
}

// ViewsConfig holds view counter configuration.
type ViewsConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	MaxVisitors int    `yaml:"max_visitors"`
}

// Validate validates the views configuration.
func (c *ViewsConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = views.BackendFile
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.In(views.BackendFile, views.BackendSQLite)),
		validation.Field(&c.Path, validation.When(c.Backend == views.BackendFile, validation.Required)),
		validation.Field(&c.MaxVisitors, validation.Required, validation.Min(1)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AdsConfig controls the ad slot markers. Slots maps a slot position
// (header, in-article-1, ...) to an ad unit id.
type AdsConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Placeholder bool              `yaml:"placeholder"`
	Slots       map[string]string `yaml:"slots"`
}

// Web converts the configuration into the page renderer's ad settings.
func (c *AdsConfig) Web() web.Ads {
	ads := web.Ads{Enabled: c.Enabled, Placeholder: c.Placeholder}
	if len(c.Slots) > 0 {
		ads.Slots = make(map[render.Slot]string, len(c.Slots))
		for k, v := range c.Slots {
			ads.Slots[render.Slot(k)] = v
		}
	}
	return ads
}

// LimitsConfig holds request limits.
type LimitsConfig struct {
	// ViewsPerMinute caps POST /api/views per client IP; zero disables the limit.
	ViewsPerMinute int `yaml:"views_per_minute"`
}

// Validate validates the limits configuration.
func (c *LimitsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ViewsPerMinute, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration for admin endpoints.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): admin endpoints are open, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			Name:        "Moc Informacji",
			URL:         "http://localhost:8080",
			Description: "Eksperckie artykuły i praktyczne porady",
		},
		Content: ContentConfig{
			Path:     "./content",
			CacheTTL: time.Minute,
			Watch:    true,
		},
		Views: ViewsConfig{
			Backend:     views.BackendFile,
			Path:        "./data/views.json",
			MaxVisitors: views.DefaultMaxVisitors,
		},
		SQLite: SQLiteConfig{
			Path: "./data/views.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Limits: LimitsConfig{
			ViewsPerMinute: 30,
		},
	}
}

// counterPath returns the storage location for the configured view counter backend.
func (c *Config) counterPath() string {
	if c.Views.Backend == views.BackendSQLite {
		return c.SQLite.Path
	}
	return c.Views.Path
}
