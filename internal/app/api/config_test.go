package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	ordersworkflows "github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "POSTGRES_DSN", "MYSQL_DSN", "FIRESTORE_PROJECT_ID",
		"FIRESTORE_EMULATOR_HOST", "REDIS_ADDR", "IDEMPOTENCY_TTL_HOURS", "IMAGE_BASE_URL", "IMAGE_DIR",
		"ORDER_STATUS_POLICY", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"ADMIN_USERNAME", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "images", cfg.ImageDir)
	assert.Equal(t, "permissive", cfg.StatusPolicy.Name())
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "MySQL")
	t.Setenv("MYSQL_DSN", "shop:secret@tcp(localhost:3306)/shop")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "6")
	t.Setenv("ORDER_STATUS_POLICY", "strict")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin123")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendMySQL, cfg.Backend)
	assert.Equal(t, 6*time.Hour, cfg.IdempotencyTTL)
	assert.IsType(t, orderdomain.StrictPolicy{}, cfg.StatusPolicy)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":    {"STORE_BACKEND": "sqlite"},
		"non numeric ttl":    {"IDEMPOTENCY_TTL_HOURS": "soon"},
		"zero ttl":           {"IDEMPOTENCY_TTL_HOURS": "0"},
		"unknown policy":     {"ORDER_STATUS_POLICY": "lenient"},
		"admin without pass": {"ADMIN_USERNAME": "admin"},
		"pass without admin": {"ADMIN_PASSWORD": "admin123"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestOpenStores_FallsBackToMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores, cleanup := OpenStores(context.Background(), cfg, logger)
	defer cleanup()

	assert.Equal(t, BackendMemory, stores.Backend)
	assert.Nil(t, stores.Ping)
	assert.NotNil(t, stores.Idempotency)
}

func TestConnectTemporal_Disabled(t *testing.T) {
	_, err := ConnectTemporal(Config{TemporalDisabled: true}, nil, "temporal-client")
	assert.ErrorIs(t, err, ErrTemporalDisabled)
}

func TestSelectOrderWorkflows_MemoryBackendStaysInline(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dialled := false
	dial := func() (client.Client, error) {
		dialled = true
		return &mocks.Client{}, nil
	}

	workflows, closeWorkflows := selectOrderWorkflows(BackendMemory, nil, dial, logger)
	defer closeWorkflows()

	assert.False(t, dialled)
	assert.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, workflows)
}

func TestSelectOrderWorkflows_SharedBackendUsesTemporal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	temporalClient := &mocks.Client{}
	temporalClient.On("Close").Return()

	workflows, closeWorkflows := selectOrderWorkflows(BackendPostgres, nil, func() (client.Client, error) {
		return temporalClient, nil
	}, logger)
	assert.IsType(t, &ordersworkflows.TemporalOrderWorkflows{}, workflows)
	closeWorkflows()
	temporalClient.AssertCalled(t, "Close")

	fallback, closeFallback := selectOrderWorkflows(BackendMySQL, nil, func() (client.Client, error) {
		return nil, ErrTemporalDisabled
	}, logger)
	defer closeFallback()
	assert.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, fallback)
}
