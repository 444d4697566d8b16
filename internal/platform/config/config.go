// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env.local'
file, when present, is loaded first through 'joho/godotenv' so that developers
do not have to export every variable by hand.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// LocalEnvFile is read before the environment is parsed, when it exists.
const LocalEnvFile = ".env.local"

// # Configuration Schema

// Config holds all runtime configuration for the Wild Oasis API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// ClientStaffAppURL is the admin portal base URL used in emailed links.
	ClientStaffAppURL string `env:"CLIENT_STAFF_APP_URL,required,notEmpty"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional; enables the shared rate limiter.
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic secrets for session, cookie and API key signing
	CookieSecret string `env:"COOKIE_SECRET,required,notEmpty"`
	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	HMACSecret   string `env:"HMAC_SECRET,required,notEmpty"`

	// Token lifetimes
	JWTExpiresIn                 time.Duration `env:"JWT_EXPIRES_IN"                          envDefault:"2160h"`
	JWTCookieExpiresInDays       int           `env:"JWT_COOKIE_EXPIRES_IN"                   envDefault:"90"`
	ResetPasswordTokenExpiryMins int           `env:"RESET_PASSWORD_TOKEN_EXPIRES_IN_MINS"    envDefault:"10"`
	EmailVerificationExpiryHours int           `env:"EMAIL_VERIFICATION_TOKEN_EXPIRES_IN_HRS" envDefault:"24"`
	APIKeyExpiresInDays          int           `env:"APIKEY_EXPIRES_IN_DAYS"                  envDefault:"90"`

	// Object Storage (S3-compatible)
	S3Endpoint  string `env:"S3_ENDPOINT,required,notEmpty"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3AccessKey string `env:"S3_ACCESS_KEY,required,notEmpty"`
	S3SecretKey string `env:"S3_SECRET_KEY,required,notEmpty"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Transactional email
	Notifier     string `env:"NOTIFIER"      envDefault:"smtp"`
	SMTPHost     string `env:"SMTP_HOST,required,notEmpty"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM,required,notEmpty"`
	AMQPURL      string `env:"AMQP_URL"`
	MailQueue    string `env:"MAIL_QUEUE"    envDefault:"mail.outbound"`

	// DefaultAvatarURL is assigned to users created without an avatar.
	DefaultAvatarURL string `env:"DEFAULT_AVATAR_URL" envDefault:"https://storage.wildoasis.app/avatars/default-user.jpg"`

	// Rate limiting per client address
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"    envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`

	// TrustedProxies are the CIDR ranges of reverse proxies whose forwarding
	// headers identify the client. Empty means the socket address is used.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Developer overrides. A missing file is not an error.
	if err := godotenv.Load(LocalEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read %s: %w", LocalEnvFile, err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values that parse but cannot be used safely.
func (c *Config) Validate() error {
	var problems []string

	secrets := map[string]string{
		"COOKIE_SECRET": c.CookieSecret,
		"JWT_SECRET":    c.JWTSecret,
		"HMAC_SECRET":   c.HMACSecret,
	}
	for name, value := range secrets {
		if len(value) < MinSecretLength {
			problems = append(problems, fmt.Sprintf("%s must be at least %d characters", name, MinSecretLength))
		}
	}

	if parsed, err := url.Parse(c.ClientStaffAppURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		problems = append(problems, "CLIENT_STAFF_APP_URL must be an absolute URL")
	}

	if c.JWTExpiresIn <= 0 {
		problems = append(problems, "JWT_EXPIRES_IN must be positive")
	}

	if c.JWTCookieExpiresInDays <= 0 || c.ResetPasswordTokenExpiryMins <= 0 ||
		c.EmailVerificationExpiryHours <= 0 || c.APIKeyExpiresInDays <= 0 {
		problems = append(problems, "token expiry settings must be positive")
	}

	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		problems = append(problems, "RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}

	for _, proxy := range c.TrustedProxies {
		if !validNetwork(proxy) {
			problems = append(problems, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an address or CIDR range", proxy))
		}
	}

	switch c.Notifier {
	case "smtp":
	case "amqp":
		if c.AMQPURL == "" {
			problems = append(problems, "AMQP_URL is required when NOTIFIER=amqp")
		}
	default:
		problems = append(problems, "NOTIFIER must be smtp or amqp")
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func validNetwork(entry string) bool {
	entry = strings.TrimSpace(entry)
	if _, err := netip.ParsePrefix(entry); err == nil {
		return true
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CookieTTL is how long the session cookie lives in the browser.
func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.JWTCookieExpiresInDays) * 24 * time.Hour
}

// ResetTokenTTL is how long a password reset token stays valid.
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetPasswordTokenExpiryMins) * time.Minute
}

// VerificationTokenTTL is how long an email verification token stays valid.
func (c *Config) VerificationTokenTTL() time.Duration {
	return time.Duration(c.EmailVerificationExpiryHours) * time.Hour
}

// APIKeyTTL is how long a generated API key stays valid.
func (c *Config) APIKeyTTL() time.Duration {
	return time.Duration(c.APIKeyExpiresInDays) * 24 * time.Hour
}
