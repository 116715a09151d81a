package cli

import (
	"context"
	"os"

	"github.com/gabapcia/stakebridge/internal/addressbook"
	"github.com/gabapcia/stakebridge/internal/bridge"
	"github.com/gabapcia/stakebridge/internal/rewardissuer"

	"github.com/urfave/cli/v3"
)

// SessionServer runs the client-facing session endpoint until the context is
// canceled. Implemented by the WebSocket transport.
type SessionServer interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// Run initializes and executes the stakebridge CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Starts the relay: chain ingestion, reward issuance, and the session endpoint.
//   - `balance`: Reads an account's native balance on the destination ledger.
//   - `register`: Upserts a source→destination address mapping.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - listenAddr: Bind address of the session endpoint used by `start`.
//   - br: The bridge orchestrator run by `start`.
//   - sessions: The session transport run by `start`.
//   - ri: The rewardissuer service used by `balance`.
//   - ab: The addressbook service used by `register`.
func Run(ctx context.Context, listenAddr string, br bridge.Service, sessions SessionServer, ri rewardissuer.Service, ab addressbook.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "stakebridge",
		Description:           "Command-line interface for running and operating the stakebridge relay.",
		Usage:                 "stakebridge [command] [flags]",
		Commands: []*cli.Command{
			startRelayCommand(listenAddr, br, sessions),
			readBalanceCommand(ri),
			registerMappingCommand(ab),
		},
	}

	return app.Run(ctx, os.Args)
}
