// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Required variables are
// enforced by must() and missing values abort startup; tunables fall
// back to sensible defaults.
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret string // secret used to verify bearer tokens

	LogFormat string // "json" (default) or "console"
	LogLevel  string // zap level name, default "info"

	AMQPURL        string // broker URL; empty disables async execution
	WorkerEnabled  bool   // run the queue consumer inside this process
	AsyncThreshold int    // roster size at which runs go to the worker
	SoftWindow     int    // soft-mode lookahead window (0 = solver default)
}

// Load reads the configuration.  A .env file in the working directory is
// honoured when present; real environment variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		LogFormat:      envStr("LOG_FORMAT", "json"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		AMQPURL:        envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		WorkerEnabled:  envBool("WORKER_ENABLED", true),
		AsyncThreshold: envInt("ALLOC_ASYNC_THRESHOLD", 500),
		SoftWindow:     envInt("SOLVER_SOFT_WINDOW", 0),
	}
}

// must retrieves the value of a required environment variable.  If the
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

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}
