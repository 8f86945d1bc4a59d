package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the service reads from the environment. Defaults are
// tuned for local development; production deployments set them explicitly.
type Config struct {
	Env     string // "dev" or "prod"
	Port    string
	BaseURL string

	DatabaseFile string
	PepperFile   string
	TokenKeyFile string

	AuthIssuer   string
	AuthTokenTTL time.Duration

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

// LoadConfig reads configuration from the environment. In dev, a .env file
// in the working directory is loaded first so local runs need no exports.
func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")
	if env == "dev" {
		_ = godotenv.Load()
	}

	port := getEnvOrDefault("PORT", "8080")

	return Config{
		Env:     env,
		Port:    port,
		BaseURL: getEnvOrDefault("BASE_URL", "http://localhost:"+port),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "data/devfolio.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "data/pepper"),
		TokenKeyFile: getEnvOrDefault("TOKEN_KEY_FILE", "data/token_key.pem"),

		AuthIssuer:   getEnvOrDefault("AUTH_ISSUER", "devfolio"),
		AuthTokenTTL: getEnvDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),

		CORSOrigins: splitAndTrim(getEnvOrDefault("CORS_ORIGINS", "*")),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvDurationOrDefault accepts Go duration strings ("30s", "24h") or a
// plain number of seconds.
func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
