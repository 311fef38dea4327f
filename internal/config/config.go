package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Storage     StorageConfig   `yaml:"storage"`
	Catalog     CatalogConfig   `yaml:"catalog"`
	Auth        AuthConfig      `yaml:"auth"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Email       EmailConfig     `yaml:"email"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects the key/value backend by URL scheme:
// memory://, sqlite:///path/to/file.db, postgres://..., redis://...
type StorageConfig struct {
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace"`
}

type CatalogConfig struct {
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	ProfileSecret string        `yaml:"profile_secret"`
	ProfileExpiry time.Duration `yaml:"profile_expiry"`
	CSRFKey       string        `yaml:"csrf_key"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
}

type RateLimitConfig struct {
	// LoginPerMinute bounds login and registration attempts per client IP.
	LoginPerMinute int `yaml:"login_per_minute"`
	// TrustedProxyCIDRs lists proxies whose X-Forwarded-For is believed.
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
	ContactInbox string `yaml:"contact_inbox"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

const minSecretLength = 32

// Defaults returns the configuration used when neither a file nor the
// environment says otherwise.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			URL:       "memory://",
			Namespace: "campus",
		},
		Catalog: CatalogConfig{
			Source:  "data/events.json",
			Timeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			ProfileExpiry: 30 * 24 * time.Hour,
			BcryptCost:    12,
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
		},
		Email: EmailConfig{
			From: "Campus Events <noreply@campus.events>",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:    "stdout",
			ServiceName: "campus-events",
			SampleRate:  1.0,
		},
		Environment: "development",
	}
}

// Load builds the configuration from defaults and the environment.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile overlays the YAML file at path (if any) on the defaults, then
// applies environment variables. A .env file in the working directory is
// read first when present; variables already set in the process win.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)

	cfg.Storage.URL = getEnv("STORAGE_URL", cfg.Storage.URL)
	cfg.Storage.Namespace = getEnv("STORAGE_NAMESPACE", cfg.Storage.Namespace)

	cfg.Catalog.Source = getEnv("CATALOG_SOURCE", cfg.Catalog.Source)
	cfg.Catalog.Timeout = getEnvSeconds("CATALOG_TIMEOUT_SECONDS", cfg.Catalog.Timeout)

	cfg.Auth.ProfileSecret = getEnv("PROFILE_SECRET", cfg.Auth.ProfileSecret)
	if hours := getEnvInt("PROFILE_EXPIRY_HOURS", 0); hours > 0 {
		cfg.Auth.ProfileExpiry = time.Duration(hours) * time.Hour
	}
	cfg.Auth.CSRFKey = getEnv("CSRF_KEY", cfg.Auth.CSRFKey)
	cfg.Auth.BcryptCost = getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.RateLimit.LoginPerMinute = getEnvInt("RATE_LIMIT_LOGIN", cfg.RateLimit.LoginPerMinute)
	if proxies := getEnv("RATE_LIMIT_TRUSTED_PROXIES", ""); proxies != "" {
		cfg.RateLimit.TrustedProxyCIDRs = splitList(proxies)
	}

	cfg.Email.Enabled = getEnvBool("EMAIL_ENABLED", cfg.Email.Enabled)
	cfg.Email.ResendAPIKey = getEnv("RESEND_API_KEY", cfg.Email.ResendAPIKey)
	cfg.Email.From = getEnv("EMAIL_FROM", cfg.Email.From)
	cfg.Email.ContactInbox = getEnv("CONTACT_INBOX", cfg.Email.ContactInbox)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = getEnv("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.OTLPEndpoint)
	cfg.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", cfg.Tracing.SampleRate)
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage.URL) == "" {
		return fmt.Errorf("STORAGE_URL is required")
	}
	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("CATALOG_SOURCE is required")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.IsProduction() {
		if len(c.Auth.ProfileSecret) < minSecretLength {
			return fmt.Errorf("PROFILE_SECRET must be at least %d bytes in production", minSecretLength)
		}
		if len(c.Auth.CSRFKey) < minSecretLength {
			return fmt.Errorf("CSRF_KEY must be at least %d bytes in production", minSecretLength)
		}
	}
	if c.Email.Enabled {
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_ENABLED is true")
		}
		if c.Email.ContactInbox == "" {
			return fmt.Errorf("CONTACT_INBOX is required when EMAIL_ENABLED is true")
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	seconds := getEnvInt(key, 0)
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
