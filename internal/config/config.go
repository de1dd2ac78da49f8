package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Env             string
	PublicURL       string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds Postgres settings
type DatabaseConfig struct {
	URL      string
	MaxConns int32
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinioConfig holds object storage settings for cached drive media
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// SessionConfig holds session token settings
type SessionConfig struct {
	Secret     string
	JWKSURL    string
	CookieName string
	TTL        time.Duration
	Issuer     string
}

// OAuthClientConfig is one OAuth provider's client registration
type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// StripeConfig holds billing provider settings
type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

// SchedulerConfig controls the scheduled publishing job
type SchedulerConfig struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Config holds all configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Minio     MinioConfig
	Session   SessionConfig
	Google    OAuthClientConfig
	LinkedIn  OAuthClientConfig
	Stripe    StripeConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

// Load reads configuration from the environment, loading .env first when present.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	publicURL := strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			PublicURL:       publicURL,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: int32(getEnvAsInt("DATABASE_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_MEDIA_BUCKET", "drive-media"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			JWKSURL:    getEnv("SESSION_JWKS_URL", ""),
			CookieName: getEnv("SESSION_COOKIE_NAME", "session_token"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Issuer:     getEnv("SESSION_ISSUER", "socialai"),
		},
		Google: OAuthClientConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URI", publicURL+"/api/integrations/google-drive/callback"),
		},
		LinkedIn: OAuthClientConfig{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("LINKEDIN_REDIRECT_URI", publicURL+"/api/integrations/linkedin/callback"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			BaseURL:   getEnv("STRIPE_API_BASE", "https://api.stripe.com"),
		},
		Scheduler: SchedulerConfig{
			Enabled:   getEnvAsBool("SCHEDULER_ENABLED", true),
			Interval:  getEnvAsDuration("SCHEDULER_INTERVAL", time.Minute),
			BatchSize: getEnvAsInt("SCHEDULER_BATCH_SIZE", 50),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
// Provider credentials are optional; their endpoints report Misconfigured.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Session.Secret == "" && c.Session.JWKSURL == "" {
		errs = append(errs, errors.New("SESSION_SECRET or SESSION_JWKS_URL is required"))
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters"))
	}
	if c.Scheduler.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("SCHEDULER_BATCH_SIZE must be positive, got %d", c.Scheduler.BatchSize))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFields returns the non-secret configuration for the startup log line.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("port", c.Server.Port),
		zap.String("public_url", c.Server.PublicURL),
		zap.String("redis_addr", c.Redis.Addr),
		zap.String("minio_endpoint", c.Minio.Endpoint),
		zap.Bool("jwks", c.Session.JWKSURL != ""),
		zap.Bool("google_configured", c.Google.ClientID != ""),
		zap.Bool("linkedin_configured", c.LinkedIn.ClientID != ""),
		zap.Bool("stripe_configured", c.Stripe.SecretKey != ""),
		zap.Bool("scheduler_enabled", c.Scheduler.Enabled),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
