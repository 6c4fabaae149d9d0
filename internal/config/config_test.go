package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "shop-events", cfg.KafkaTopic)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_BACKEND", "oracle")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_KafkaBrokers(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_TokenTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}
