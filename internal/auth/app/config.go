package app

import (
	"os"
	"strconv"
	"time"

	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for access tokens

	SigningKeyFile string // Optional: path to an Ed25519 PKCS#8 PEM; ephemeral key when empty
	DatabaseFile   string // Path to the SQLite database file (default: ./auth.db)
	PepperFile     string // Path to the password-hash pepper file (default: ./pepper)

	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh secret lifetime, pushed out on rotation (default: 168h)
	VerifyTTL  time.Duration // Email verification secret lifetime (default: 24h)
	ResetTTL   time.Duration // Password reset secret lifetime (default: 1h)

	// Argon2id cost for refresh and redeemable secrets. Zero values fall back
	// to the library defaults.
	ArgonMemory      uint32
	ArgonIterations  uint32
	ArgonParallelism uint8

	AppURL       string // Base URL used in emailed links
	SMTPAddr     string // host:port of the SMTP relay; mail is logged when empty
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-row sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "authd"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		VerifyTTL:  getEnvDurationOrDefault("AUTH_VERIFY_TTL", 24*time.Hour),
		ResetTTL:   getEnvDurationOrDefault("AUTH_RESET_TTL", 1*time.Hour),

		ArgonMemory:      uint32(getEnvIntOrDefault("AUTH_ARGON_MEMORY_KIB", int(cryptox.DefaultParams.Memory))),
		ArgonIterations:  uint32(getEnvIntOrDefault("AUTH_ARGON_ITERATIONS", int(cryptox.DefaultParams.Iterations))),
		ArgonParallelism: uint8(getEnvIntOrDefault("AUTH_ARGON_PARALLELISM", int(cryptox.DefaultParams.Parallelism))),

		AppURL:       getEnvOrDefault("AUTH_APP_URL", "http://localhost:8080"),
		SMTPAddr:     os.Getenv("AUTH_SMTP_ADDR"),
		SMTPFrom:     getEnvOrDefault("AUTH_SMTP_FROM", "no-reply@localhost"),
		SMTPUsername: os.Getenv("AUTH_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("AUTH_SMTP_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
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
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
