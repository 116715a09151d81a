package cli

import (
	"context"

	"github.com/gabapcia/stakebridge/internal/addressbook"

	"github.com/urfave/cli/v3"
)

// registerMappingCommand returns a CLI command that upserts a
// source→destination address mapping into the address book. It is mainly
// useful with the Redis-backed address book, where mappings outlive the
// process that wrote them.
//
// Usage example:
//
//	stakebridge register --source 0xABC123... --destination GABC123...
func registerMappingCommand(ab addressbook.Service) *cli.Command {
	return &cli.Command{
		Name:        "register",
		Description: "Register a source-chain address to receive rewards at a destination-ledger account.",
		Usage:       "Upserts an address mapping. Must provide both source and destination.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Source-chain address the deposits come from",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "destination",
				Usage:    "Destination-ledger account the rewards go to",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				source      = c.String("source")
				destination = c.String("destination")
			)

			return ab.Register(ctx, source, destination)
		},
	}
}
