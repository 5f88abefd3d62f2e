package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ridesafe/identity/pkg/jwtx"
)

type Config struct {
	Issuer       string        // Optional: iss claim of session tokens (default: ridesafe-identity)
	JWTSecret    string        // Required outside dev: HS256 secret, at least 32 bytes
	SessionTTL   time.Duration // Optional: session token lifetime (default: 7 days)
	StoreTimeout time.Duration // Optional: deadline for each store round trip (default: 5s)

	DatabaseFile string // Optional: path to SQLite database file (default: ./identity.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	BcryptCost   int    // Optional: bcrypt cost (default: 12)

	AllowedEmailDomains []string // Optional: comma separated (default: DefaultAllowedEmailDomains); must not be empty outside dev
	GoogleClientID      string   // Optional: enables Google sign-in
	RedisURL            string   // Optional: pending 2FA enrollments in redis instead of memory
	ResendAPIKey        string   // Optional: reset mail via Resend; otherwise logged
	MailFrom            string   // Required with ResendAPIKey
	AppBaseURL          string   // Optional: base of the reset link (default: http://localhost:3000)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// DefaultAllowedEmailDomains are the mail providers riders may register with
// when IDENTITY_ALLOWED_EMAIL_DOMAINS is not set.
const DefaultAllowedEmailDomains = "gmail.com,googlemail.com,outlook.com,hotmail.com,live.com,yahoo.com,icloud.com,proton.me"

func LoadConfig() Config {
	return Config{
		Issuer:       getEnvOrDefault("IDENTITY_ISSUER", "ridesafe-identity"),
		JWTSecret:    os.Getenv("IDENTITY_JWT_SECRET"),
		SessionTTL:   getEnvDurationOrDefault("IDENTITY_SESSION_TTL", jwtx.DefaultSessionTTL),
		StoreTimeout: getEnvDurationOrDefault("IDENTITY_STORE_TIMEOUT", 5*time.Second),

		DatabaseFile: getEnvOrDefault("IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:   getEnvOrDefault("IDENTITY_PEPPER_FILE", "pepper"),
		BcryptCost:   getEnvIntOrDefault("IDENTITY_BCRYPT_COST", 12),

		AllowedEmailDomains: splitList(getEnvOrDefault("IDENTITY_ALLOWED_EMAIL_DOMAINS", DefaultAllowedEmailDomains)),
		GoogleClientID:      os.Getenv("IDENTITY_GOOGLE_CLIENT_ID"),
		RedisURL:            os.Getenv("IDENTITY_REDIS_URL"),
		ResendAPIKey:        os.Getenv("IDENTITY_RESEND_API_KEY"),
		MailFrom:            os.Getenv("IDENTITY_MAIL_FROM"),
		AppBaseURL:          getEnvOrDefault("IDENTITY_APP_BASE_URL", "http://localhost:3000"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate rejects settings the service cannot run with. A missing JWT
// secret is tolerated in dev, where New generates a throwaway one.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && c.Env != "dev" {
		errs = append(errs, errors.New("IDENTITY_JWT_SECRET is required outside dev"))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("IDENTITY_JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.ResendAPIKey != "" && c.MailFrom == "" {
		errs = append(errs, errors.New("IDENTITY_MAIL_FROM is required with IDENTITY_RESEND_API_KEY"))
	}
	if len(c.AllowedEmailDomains) == 0 && c.Env != "dev" {
		errs = append(errs, errors.New("IDENTITY_ALLOWED_EMAIL_DOMAINS must list at least one domain outside dev"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("IDENTITY_SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
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
