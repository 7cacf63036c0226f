package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// Backend selects which store implementation backs every bounded context.
type Backend string

const (
	BackendMemory    Backend = "memory"
	BackendPostgres  Backend = "postgres"
	BackendMySQL     Backend = "mysql"
	BackendFirestore Backend = "firestore"
)

const defaultIdempotencyTTL = 24 * time.Hour

// Config carries environment-driven settings for the API, worker, and purger processes.
type Config struct {
	Port                  string
	Backend               Backend
	PostgresDSN           string
	MySQLDSN              string
	FirestoreProjectID    string
	FirestoreEmulatorHost string
	RedisAddr             string
	IdempotencyTTL        time.Duration
	ImageBaseURL          string
	ImageDir              string
	StatusPolicy          orderdomain.StatusPolicy
	TemporalAddress       string
	TemporalNamespace     string
	TemporalDisabled      bool
	AdminUsername         string
	AdminPassword         string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                  envDefault("PORT", "8080"),
		PostgresDSN:           strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MySQLDSN:              strings.TrimSpace(os.Getenv("MYSQL_DSN")),
		FirestoreProjectID:    strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		FirestoreEmulatorHost: strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST")),
		RedisAddr:             strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		IdempotencyTTL:        defaultIdempotencyTTL,
		ImageBaseURL:          envDefault("IMAGE_BASE_URL", "http://localhost:8080"),
		ImageDir:              envDefault("IMAGE_DIR", "images"),
		TemporalAddress:       envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:     envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:      isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		AdminUsername:         strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
	}

	backend, err := parseBackend(envDefault("STORE_BACKEND", string(BackendMemory)))
	if err != nil {
		return Config{}, err
	}
	cfg.Backend = backend

	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	}

	policy, err := orderdomain.PolicyByName(envDefault("ORDER_STATUS_POLICY", "permissive"))
	if err != nil {
		return Config{}, fmt.Errorf("ORDER_STATUS_POLICY: %w", err)
	}
	cfg.StatusPolicy = policy

	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

func parseBackend(raw string) (Backend, error) {
	switch backend := Backend(strings.ToLower(strings.TrimSpace(raw))); backend {
	case BackendMemory, BackendPostgres, BackendMySQL, BackendFirestore:
		return backend, nil
	default:
		return "", fmt.Errorf("STORE_BACKEND must be one of memory, postgres, mysql, firestore (got %q)", raw)
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
