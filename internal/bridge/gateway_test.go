package bridge

import (
	"context"
	"testing"

	"github.com/gabapcia/stakebridge/internal/rewardissuer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerGateway_ProcessClaim(t *testing.T) {
	t.Run("provisions the account and reports the settled transfer", func(t *testing.T) {
		amount, err := decimal.NewFromString("2.5")
		require.NoError(t, err)

		issuer := &issuerFake{transfer: rewardissuer.RewardTransfer{
			Destination: "GDEST",
			Amount:      amount,
			Status:      rewardissuer.StatusConfirmed,
			TxID:        "tx-claim",
		}}
		gateway := NewIssuerGateway(issuer)

		result, err := gateway.ProcessClaim(context.Background(), "GDEST", amount)
		require.NoError(t, err)

		assert.Equal(t, "tx-claim", result.TxID)
		assert.True(t, amount.Equal(result.Amount))
		assert.False(t, result.Synthetic)
		assert.Equal(t, []string{"GDEST"}, issuer.ensureCalls)
	})

	t.Run("fails without submitting when provisioning fails", func(t *testing.T) {
		issuer := &issuerFake{ensureErr: rewardissuer.ErrAccountLoadFailed}
		gateway := NewIssuerGateway(issuer)

		_, err := gateway.ProcessClaim(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.ErrorIs(t, err, rewardissuer.ErrAccountLoadFailed)
		assert.Empty(t, issuer.sendCalls)
	})

	t.Run("propagates submission failures", func(t *testing.T) {
		issuer := &issuerFake{sendErr: rewardissuer.ErrSubmissionRejected}
		gateway := NewIssuerGateway(issuer)

		_, err := gateway.ProcessClaim(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.ErrorIs(t, err, rewardissuer.ErrSubmissionRejected)
	})

	t.Run("flags synthetic settlements", func(t *testing.T) {
		issuer := &issuerFake{transfer: rewardissuer.RewardTransfer{
			Status: rewardissuer.StatusSynthetic,
			TxID:   "synthetic-1",
			Amount: decimal.NewFromInt(1),
		}}
		gateway := NewIssuerGateway(issuer)

		result, err := gateway.ProcessClaim(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, result.Synthetic)
	})
}

func TestIssuerGateway_NativeBalance(t *testing.T) {
	t.Run("delegates to the issuer's balance read", func(t *testing.T) {
		gateway := NewIssuerGateway(&issuerFake{balance: "42.5"})
		assert.Equal(t, "42.5", gateway.NativeBalance(context.Background(), "GDEST"))
	})
}
