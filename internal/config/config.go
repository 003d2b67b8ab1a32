// Package config loads application configuration from environment variables.
// A .env file in the working directory is loaded first when present, so local
// development does not need exported variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Required variables are enforced by must(); missing
// values abort startup with a fatal log message.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty allowed
	DBHost string
	DBPort string
	DBName string

	JWTSecret        string // secret used to sign admin session tokens
	AdminPassword    string // bcrypt hash or plain secret for /events/admin/login
	AdminTokenTTLMin int    // admin token time-to-live in minutes

	// GoogleMapsAPIKey may be empty: geocoding then fails hard while
	// timezone lookups soft-degrade to UTC.
	GoogleMapsAPIKey  string
	GoogleMapsBaseURL string

	// BackfillCron is a cron expression for the coordinate backfill job.
	// Empty disables the schedule (the admin endpoint still works).
	BackfillCron string
}

// Load reads configuration from the environment and returns a Config.
func Load() Config {
	// Missing .env is fine; real deployments export variables directly.
	_ = godotenv.Load()

	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		AdminPassword:     must("ADMIN_PASSWORD"),
		AdminTokenTTLMin:  envInt("ADMIN_TOKEN_TTL_MIN", 60),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		GoogleMapsBaseURL: envStr("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com"),
		BackfillCron:      os.Getenv("GEOCODE_BACKFILL_CRON"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
