// Package config loads the stakebridge runtime configuration from the
// environment. All variables share the STAKEBRIDGE prefix (e.g.,
// STAKEBRIDGE_CHAIN_RPC_ENDPOINT) and are parsed with envconfig.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// envPrefix is the shared prefix for every environment variable.
const envPrefix = "stakebridge"

// Config holds every runtime setting of the relay.
type Config struct {
	// LogLevel sets the minimum level of the global logger.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// TelemetryEnabled turns on OTLP logs/metrics/traces export.
	TelemetryEnabled bool `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// ChainRPCEndpoint is the JSON-RPC URL of the source chain node.
	ChainRPCEndpoint string `envconfig:"CHAIN_RPC_ENDPOINT" required:"true"`

	// StakeContractAddress is the staking contract emitting Staked events.
	StakeContractAddress string `envconfig:"STAKE_CONTRACT_ADDRESS" required:"true"`

	// ChainPollInterval is how often the source chain is polled for new logs.
	ChainPollInterval time.Duration `envconfig:"CHAIN_POLL_INTERVAL" default:"12s"`

	// HorizonEndpoint is the REST URL of the destination ledger frontend.
	HorizonEndpoint string `envconfig:"HORIZON_ENDPOINT" default:"https://horizon-testnet.stellar.org"`

	// IssuerAccount is the funded account rewards are paid from.
	IssuerAccount string `envconfig:"ISSUER_ACCOUNT" required:"true"`

	// IssuerSecret is the signing credential handed to the envelope builder.
	// The relay never parses it.
	IssuerSecret string `envconfig:"ISSUER_SECRET" required:"true"`

	// Network selects the destination ledger network ("testnet" or "public").
	Network string `envconfig:"NETWORK" default:"testnet"`

	// RewardMultiplier converts a deposit amount into a reward amount.
	RewardMultiplier decimal.Decimal `envconfig:"REWARD_MULTIPLIER" default:"10"`

	// SyntheticFallback enables the degraded mode in which exhausted
	// submissions yield a tagged synthetic transaction id instead of an error.
	SyntheticFallback bool `envconfig:"SYNTHETIC_FALLBACK" default:"false"`

	// ListenAddress is the WebSocket server bind address.
	ListenAddress string `envconfig:"LISTEN_ADDRESS" default:":8080"`

	// RedisAddress, when set, switches the address book to Redis-backed
	// storage so mappings survive restarts. Empty keeps the in-memory map.
	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:""`
	RedisUsername string `envconfig:"REDIS_USERNAME" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
