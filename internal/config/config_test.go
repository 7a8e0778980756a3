package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, StoreDynamoDB, cfg.StoreBackend)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.Payout.EnforceCeiling)
		assert.Equal(t, 6, cfg.Payout.RequestRatePerMinute)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("REQUEST_TIMEOUT", "250ms")
		t.Setenv("ADMIN_USER_IDS", "a, b,,c ")
		t.Setenv("PAYOUT_MIN_AMOUNT", "25.50")
		t.Setenv("PAYOUT_ENFORCE_CEILING", "false")
		t.Setenv("REDIS_DB", "2")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StoreMemory, cfg.StoreBackend)
		assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.Payout.Admins())
		assert.False(t, cfg.Payout.EnforceCeiling)
		assert.Equal(t, 2, cfg.Redis.DB)

		min, err := cfg.Payout.MinPayout()
		require.NoError(t, err)
		assert.Equal(t, "25.5", min.String())
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad minimum", func(t *testing.T) {
		t.Setenv("PAYOUT_MIN_AMOUNT", "1.005")
		_, err := Load()
		assert.Error(t, err)
	})
}
