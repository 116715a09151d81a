// Package ethereum implements the stakewatch.Blockchain interface for
// Ethereum-compatible nodes. It polls the staking contract's event logs over
// JSON-RPC and streams decoded stake notifications.
package ethereum

import (
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/stakebridge/internal/stakewatch"

	"github.com/ethereum/go-ethereum/common"
)

// defaultPollInterval matches the source chain's average block time.
const defaultPollInterval = 12 * time.Second

// client implements the stakewatch.Blockchain interface for Ethereum-based
// networks. It communicates with a node via a JSON-RPC client.
type client struct {
	conn         jsonrpc.Client // underlying JSON-RPC client
	contract     common.Address // staking contract emitting Staked events
	pollInterval time.Duration
}

// Ensure client implements the stakewatch.Blockchain interface at compile time.
var _ stakewatch.Blockchain = (*client)(nil)

// config holds construction options for the client.
type config struct {
	pollInterval time.Duration
}

// Option configures the Ethereum client.
type Option func(*config)

// WithPollInterval overrides how often the node is polled for new logs.
// Default: 12 seconds.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// NewClient creates an Ethereum client watching the given staking contract
// through the provided JSON-RPC connection.
func NewClient(conn jsonrpc.Client, contractAddress string, opts ...Option) *client {
	cfg := config{
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		conn:         conn,
		contract:     common.HexToAddress(contractAddress),
		pollInterval: cfg.pollInterval,
	}
}
