package infra

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"paceboard"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"paceboard"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"paceboard"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// JWT
	JWTSecret       string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTAgencyExpiry string `env:"JWT_AGENCY_EXPIRY" envDefault:"12h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Kafka (alert event publishing)
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// Ad-platform collaborators
	SearchAdsBaseURL string `env:"SEARCH_ADS_BASE_URL" envDefault:"https://api.searchads.example.com"`
	SearchAdsAPIKey  string `env:"SEARCH_ADS_API_KEY"`
	SocialAdsBaseURL string `env:"SOCIAL_ADS_BASE_URL" envDefault:"https://graph.socialads.example.com"`
	SocialAdsAPIKey  string `env:"SOCIAL_ADS_API_KEY"`

	// Background jobs
	SyncInterval       time.Duration `env:"SYNC_INTERVAL" envDefault:"30m"`
	AlertInterval      time.Duration `env:"ALERT_INTERVAL" envDefault:"5m"`
	CampaignCacheTTL   time.Duration `env:"CAMPAIGN_CACHE_TTL" envDefault:"30m"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is the insecure default; set it or ALLOW_INSECURE_DEFAULTS=true")
	}
	return nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PGUser, c.PGPassword),
		Host:     fmt.Sprintf("%s:%d", c.PGHost, c.PGPort),
		Path:     c.PGDatabase,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
