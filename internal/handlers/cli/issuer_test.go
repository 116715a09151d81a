package cli

import (
	"context"
	"testing"

	"github.com/gabapcia/stakebridge/internal/rewardissuer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// issuerFake serves one canned balance and records the queried account.
type issuerFake struct {
	balance string
	queried []string
}

func (i *issuerFake) EnsureAccount(context.Context, string) error { return nil }

func (i *issuerFake) SendReward(context.Context, string, decimal.Decimal) (rewardissuer.RewardTransfer, error) {
	return rewardissuer.RewardTransfer{}, nil
}

func (i *issuerFake) GetBalance(_ context.Context, account string) string {
	i.queried = append(i.queried, account)
	return i.balance
}

func TestReadBalanceCommand(t *testing.T) {
	t.Run("creates command with correct metadata", func(t *testing.T) {
		cmd := readBalanceCommand(&issuerFake{})

		assert.Equal(t, "balance", cmd.Name)
		require.Len(t, cmd.Flags, 1)

		accountFlag := cmd.Flags[0].(*cli.StringFlag)
		assert.Equal(t, "account", accountFlag.Name)
		assert.True(t, accountFlag.Required)
	})

	t.Run("queries the balance of the given account", func(t *testing.T) {
		issuer := &issuerFake{balance: "42.5"}

		app := &cli.Command{Commands: []*cli.Command{readBalanceCommand(issuer)}}
		err := app.Run(context.Background(), []string{"test", "balance", "--account", "GDEST"})
		require.NoError(t, err)

		assert.Equal(t, []string{"GDEST"}, issuer.queried)
	})

	t.Run("fails when the account flag is missing", func(t *testing.T) {
		app := &cli.Command{Commands: []*cli.Command{readBalanceCommand(&issuerFake{})}}
		err := app.Run(context.Background(), []string{"test", "balance"})

		require.Error(t, err)
	})
}
