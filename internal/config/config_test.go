package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("STAKEBRIDGE_CHAIN_RPC_ENDPOINT", "http://localhost:8545")
	t.Setenv("STAKEBRIDGE_STAKE_CONTRACT_ADDRESS", "0x1111111111111111111111111111111111111111")
	t.Setenv("STAKEBRIDGE_ISSUER_ACCOUNT", "GISSUER")
	t.Setenv("STAKEBRIDGE_ISSUER_SECRET", "SSECRET")
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only required variables are set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8545", cfg.ChainRPCEndpoint)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.StakeContractAddress)
		assert.Equal(t, "GISSUER", cfg.IssuerAccount)
		assert.Equal(t, "SSECRET", cfg.IssuerSecret)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.TelemetryEnabled)
		assert.Equal(t, 12*time.Second, cfg.ChainPollInterval)
		assert.Equal(t, "https://horizon-testnet.stellar.org", cfg.HorizonEndpoint)
		assert.Equal(t, "testnet", cfg.Network)
		assert.Equal(t, "10", cfg.RewardMultiplier.String())
		assert.False(t, cfg.SyntheticFallback)
		assert.Equal(t, ":8080", cfg.ListenAddress)
		assert.Empty(t, cfg.RedisAddress)
	})

	t.Run("fails when a required variable is missing", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STAKEBRIDGE_CHAIN_RPC_ENDPOINT", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("honors overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STAKEBRIDGE_LOG_LEVEL", "debug")
		t.Setenv("STAKEBRIDGE_CHAIN_POLL_INTERVAL", "3s")
		t.Setenv("STAKEBRIDGE_REWARD_MULTIPLIER", "2.5")
		t.Setenv("STAKEBRIDGE_SYNTHETIC_FALLBACK", "true")
		t.Setenv("STAKEBRIDGE_LISTEN_ADDRESS", ":9090")
		t.Setenv("STAKEBRIDGE_NETWORK", "public")
		t.Setenv("STAKEBRIDGE_REDIS_ADDRESS", "localhost:6379")
		t.Setenv("STAKEBRIDGE_REDIS_DB", "3")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 3*time.Second, cfg.ChainPollInterval)
		assert.Equal(t, "2.5", cfg.RewardMultiplier.String())
		assert.True(t, cfg.SyntheticFallback)
		assert.Equal(t, ":9090", cfg.ListenAddress)
		assert.Equal(t, "public", cfg.Network)
		assert.Equal(t, "localhost:6379", cfg.RedisAddress)
		assert.Equal(t, 3, cfg.RedisDB)
	})

	t.Run("rejects an unparseable multiplier", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STAKEBRIDGE_REWARD_MULTIPLIER", "lots")

		_, err := Load()
		require.Error(t, err)
	})
}
