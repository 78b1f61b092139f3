package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Catalog source selectors.
const (
	SourceEmbedded = "embedded"
	SourcePostgres = "postgres"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	ImageBaseURL string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com)" flag:"image-base-url"`
	Catalog      CatalogConfig
	WhatsApp     WhatsAppConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// CatalogConfig controls where the catalog is loaded from and how the
// collection view pages it.
type CatalogConfig struct {
	Source       string `default:"embedded" usage:"Catalog source: embedded or postgres"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (postgres source only)" flag:"database-url"`
	PageSize     int    `default:"12" usage:"Collection page size" flag:"page-size"`
	MaxPageSize  int    `default:"48" usage:"Maximum client-requested page size" flag:"max-page-size"`
	PreviewLimit int    `default:"8" usage:"Home-page preview length" flag:"preview-limit"`
}

// WhatsAppConfig identifies the outbound order-message recipient.
type WhatsAppConfig struct {
	Number  string `default:"918485918272" usage:"Recipient phone number for order messages"`
	BaseURL string `default:"https://wa.me" usage:"Click-to-chat endpoint" flag:"whatsapp-base-url"`
}

// SessionConfig controls cart session cookies and eviction.
type SessionConfig struct {
	Cookie          string        `default:"velora_cart" usage:"Cart session cookie name"`
	TTL             time.Duration `default:"24h" usage:"Idle cart session lifetime"`
	CleanupInterval time.Duration `default:"10m" usage:"Idle session eviction interval" flag:"cleanup-interval"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/velora/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Catalog.Source {
	case SourceEmbedded:
	case SourcePostgres:
		if cfg.Catalog.DatabaseURL == "" {
			return nil, errors.New("postgres catalog source requires STORE_CATALOG_DATABASE_URL or DATABASE_URL")
		}
	default:
		return nil, errors.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Catalog.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Catalog.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
