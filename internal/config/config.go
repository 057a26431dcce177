package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every recognised environment variable carries.
// BRIGHTSCOPE_DATABASE_URL maps to database.url, BRIGHTSCOPE_AUTH_SECRET_KEY
// to auth.secret_key and so on.
const EnvPrefix = "BRIGHTSCOPE_"

const defaultSecretKey = "your-secret-key-change-in-production"

// Config holds application configuration
type Config struct {
	App      AppConfig      `koanf:"app" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	CORS     CORSConfig     `koanf:"cors"`
	Email    EmailConfig    `koanf:"email"`
	PayTabs  PayTabsConfig  `koanf:"paytabs"`
	Frontend FrontendConfig `koanf:"frontend"`
	Redis    RedisConfig    `koanf:"redis"`
	RabbitMQ RabbitMQConfig `koanf:"rabbitmq"`
	Booking  BookingConfig  `koanf:"booking"`
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name      string `koanf:"name" validate:"required"`
	Version   string `koanf:"version"`
	Debug     bool   `koanf:"debug"`
	Port      string `koanf:"port" validate:"required,numeric"`
	Host      string `koanf:"host"`
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"required"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	SecretKey           string `koanf:"secret_key" validate:"required"`
	AccessTokenMinutes  int    `koanf:"access_token_minutes" validate:"gt=0"`
	RefreshTokenDays    int    `koanf:"refresh_token_days" validate:"gt=0"`
	PasswordResetHours  int    `koanf:"password_reset_hours" validate:"gt=0"`
	RotateRefreshTokens bool   `koanf:"rotate_refresh_tokens"`
}

// AccessTokenTTL is the lifetime of an access token.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenMinutes) * time.Minute
}

// RefreshTokenTTL is the lifetime of a refresh token.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenDays) * 24 * time.Hour
}

// PasswordResetTTL is how long an emailed reset link stays valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetHours) * time.Hour
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string `koanf:"allowed_origins"`
	MaxAge         int    `koanf:"max_age"`
	AllowedMethods []string
	AllowedHeaders []string
}

// Origins splits the comma-separated allow list.
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	Provider     string `koanf:"provider" validate:"oneof=console smtp resend"`
	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	ResendAPIKey string `koanf:"resend_api_key"`
	FromEmail    string `koanf:"from" validate:"required,email"`
	FromName     string `koanf:"from_name"`
	AdminNotify  string `koanf:"admin_notify"`
}

// Enabled reports whether mail actually leaves the process.
func (e EmailConfig) Enabled() bool {
	return e.Provider == "smtp" || e.Provider == "resend"
}

// PayTabsConfig holds the hosted payment page credentials.
type PayTabsConfig struct {
	ProfileID   string `koanf:"profile_id"`
	ServerKey   string `koanf:"server_key"`
	BaseURL     string `koanf:"base_url" validate:"required,url"`
	CallbackURL string `koanf:"callback_url"`
	ReturnURL   string `koanf:"return_url"`
	TimeoutSecs int    `koanf:"timeout_secs" validate:"gt=0"`
}

// Timeout is the outbound request timeout for gateway calls.
func (p PayTabsConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// FrontendConfig holds the public site locations used in links and redirects.
type FrontendConfig struct {
	URL               string `koanf:"url" validate:"required,url"`
	PaymentSuccessURL string `koanf:"payment_success_url" validate:"required,url"`
	PaymentFailureURL string `koanf:"payment_failure_url" validate:"required,url"`
}

// RedisConfig enables the redis-backed token blacklist when URL is set.
type RedisConfig struct {
	URL string `koanf:"url"`
}

// RabbitMQConfig enables domain event publishing when URL is set.
type RabbitMQConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

// BookingConfig holds booking endpoint behaviour switches.
type BookingConfig struct {
	ListRequiresAuth bool `koanf:"list_requires_auth"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:      "Bright Scope API",
			Version:   "1.0.0",
			Debug:     false,
			Port:      "8000",
			Host:      "0.0.0.0",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Database: DatabaseConfig{
			URL: "sqlite:///./brightscope.db",
		},
		Auth: AuthConfig{
			SecretKey:           defaultSecretKey,
			AccessTokenMinutes:  60,
			RefreshTokenDays:    7,
			PasswordResetHours:  72,
			RotateRefreshTokens: true,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
			MaxAge:         86400,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
		},
		Email: EmailConfig{
			Provider:  "console",
			SMTPHost:  "smtp.gmail.com",
			SMTPPort:  587,
			FromEmail: "noreply@brightscope.ae",
			FromName:  "Bright Scope",
		},
		PayTabs: PayTabsConfig{
			BaseURL:     "https://secure.paytabs.com",
			TimeoutSecs: 15,
		},
		Frontend: FrontendConfig{
			URL:               "http://localhost:3000",
			PaymentSuccessURL: "http://localhost:3000/payment/success",
			PaymentFailureURL: "http://localhost:3000/payment/failure",
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "brightscope.events",
		},
	}
}

// Load loads configuration from .env and environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := Default()

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks struct constraints and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Email.Provider == "resend" && cfg.Email.ResendAPIKey == "" {
		return fmt.Errorf("email.resend_api_key must be set when email.provider is resend")
	}
	if cfg.Email.Provider == "smtp" && (cfg.Email.SMTPHost == "" || cfg.Email.Username == "") {
		return fmt.Errorf("email.smtp_host and email.username must be set when email.provider is smtp")
	}
	return nil
}

// ValidateSecrets rejects settings that must never reach a running server.
func ValidateSecrets(cfg *Config) error {
	if cfg.Auth.SecretKey == "" || cfg.Auth.SecretKey == defaultSecretKey {
		return fmt.Errorf("%sAUTH_SECRET_KEY must be set and changed from default value", EnvPrefix)
	}
	if len(cfg.Auth.SecretKey) < 32 {
		return fmt.Errorf("%sAUTH_SECRET_KEY must be at least 32 characters", EnvPrefix)
	}
	return nil
}

// IsPostgres checks if the database URL points at PostgreSQL
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}

// GetSQLitePath extracts SQLite database path from URL
func (c *DatabaseConfig) GetSQLitePath() string {
	return strings.TrimPrefix(c.URL, "sqlite:///")
}
