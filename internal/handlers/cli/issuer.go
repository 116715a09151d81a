package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/stakebridge/internal/rewardissuer"

	"github.com/urfave/cli/v3"
)

// readBalanceCommand returns a CLI command that reads an account's native
// balance on the destination ledger. The read is best-effort: an unreachable
// ledger reports "0".
//
// Usage example:
//
//	stakebridge balance --account GABC123...
func readBalanceCommand(ri rewardissuer.Service) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Read the native balance of a destination-ledger account.",
		Usage:       "Prints the account's native balance. Must provide the account id.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "account",
				Usage:    "Destination-ledger account id to query",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			balance := ri.GetBalance(ctx, c.String("account"))
			_, err := fmt.Println(balance)
			return err
		},
	}
}
