package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	insecureSessionSecret = "dev-session-secret-change-in-prod"
	insecureHMACSecret    = "dev-secret-change-in-prod"
)

// Config holds application configuration
type Config struct {
	Env    string
	Port   string
	DBPath string

	SessionSecret string
	HMACSecret    string
	BaseURL       string // absolute origin for links in outgoing email
	ApexDomain    string

	ResendAPIKey string
	EmailFrom    string

	GeocodeURL       string
	GeocodeUserAgent string
	GeocodeTimeout   time.Duration

	LogLevel  string
	LogFormat string // text or json

	MagicLinkTTL    time.Duration
	SessionTTL      time.Duration
	SignatureMaxAge time.Duration

	CORSOrigins string
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and the environment
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	cfg := &Config{
		Env:    getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", ":8080"),
		DBPath: getEnv("DB_PATH", "./data/pickmyfruit.db"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		HMACSecret:    os.Getenv("HMAC_SECRET"),
		BaseURL:       os.Getenv("BASE_URL"),
		ApexDomain:    getEnv("APEX_DOMAIN", "pickmyfruit.com"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "Pick My Fruit <notifications@pickmyfruit.com>"),

		GeocodeURL:       getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent: getEnv("GEOCODE_USER_AGENT", "PickMyFruit/1.0 (https://pickmyfruit.com)"),
		GeocodeTimeout:   getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		MagicLinkTTL:    getEnvAsDuration("MAGIC_LINK_TTL", 5*time.Minute),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		SignatureMaxAge: getEnvAsDuration("SIGNATURE_MAX_AGE", 7*24*time.Hour),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	// PORT=8080 as set by most hosts
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if cfg.SessionSecret == "" || cfg.HMACSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("SESSION_SECRET and HMAC_SECRET are required in production")
		}
		slog.Warn("using insecure development secrets")
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = insecureSessionSecret
		}
		if cfg.HMACSecret == "" {
			cfg.HMACSecret = insecureHMACSecret
		}
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		if cfg.IsProduction() {
			return nil, errors.New("BASE_URL is required in production")
		}
		cfg.BaseURL = "http://localhost" + cfg.Port
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or a plain number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("ignoring invalid duration", "key", key, "value", raw)
	return defaultValue
}
