package bridge

import (
	"context"

	"github.com/gabapcia/stakebridge/internal/rewardissuer"
	"github.com/gabapcia/stakebridge/internal/sessionhub"

	"github.com/shopspring/decimal"
)

// IssuerGateway routes client-initiated commands from the session hub into
// the reward issuer, so ad-hoc claims share the serialized issuance path with
// automatic rewards.
type IssuerGateway struct {
	issuer rewardissuer.Service
}

// Compile-time checks against the hub-facing interfaces.
var (
	_ sessionhub.ClaimProcessor = (*IssuerGateway)(nil)
	_ sessionhub.BalanceReader  = (*IssuerGateway)(nil)
)

// ProcessClaim provisions the destination account if needed, then submits the
// reward payment. There is no leading stake broadcast on this path.
func (g *IssuerGateway) ProcessClaim(ctx context.Context, destination string, amount decimal.Decimal) (sessionhub.ClaimResult, error) {
	if err := g.issuer.EnsureAccount(ctx, destination); err != nil {
		return sessionhub.ClaimResult{}, err
	}

	transfer, err := g.issuer.SendReward(ctx, destination, amount)
	if err != nil {
		return sessionhub.ClaimResult{}, err
	}

	return sessionhub.ClaimResult{
		TxID:      transfer.TxID,
		Amount:    transfer.Amount,
		Synthetic: transfer.Status == rewardissuer.StatusSynthetic,
	}, nil
}

// NativeBalance reads the account's native balance, best-effort.
func (g *IssuerGateway) NativeBalance(ctx context.Context, account string) string {
	return g.issuer.GetBalance(ctx, account)
}

// NewIssuerGateway creates the hub-facing adapter over the reward issuer.
func NewIssuerGateway(issuer rewardissuer.Service) *IssuerGateway {
	return &IssuerGateway{
		issuer: issuer,
	}
}
