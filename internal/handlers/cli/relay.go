package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/stakebridge/internal/bridge"

	"github.com/urfave/cli/v3"
)

// startRelayCommand returns a CLI command that starts the full relay: the
// source chain subscription, reward issuance, and the client session
// endpoint.
//
// Usage example:
//
//	stakebridge start
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM) or the
// session endpoint fails.
func startRelayCommand(listenAddr string, br bridge.Service, sessions SessionServer) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the relay: chain event ingestion, reward issuance, and the WebSocket session endpoint.",
		Usage:       "Initializes and runs the full relay. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if err := br.Start(ctx); err != nil {
				return err
			}
			defer br.Close()

			serverErrCh := make(chan error, 1)
			go func() {
				serverErrCh <- sessions.ListenAndServe(ctx, listenAddr)
			}()

			select {
			case <-quit:
				return nil
			case err := <-serverErrCh:
				return err
			}
		},
	}
}
