package horizon

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// nativeAssetType marks the ledger's native settlement asset in a balance
// entry.
const nativeAssetType = "native"

// AccountExists reports whether the account is known to the ledger.
func (c *Client) AccountExists(ctx context.Context, account string) (bool, error) {
	_, found, err := c.loadAccount(ctx, account)
	return found, err
}

// NativeBalance returns the account's balance of the native settlement asset.
// An existing account always carries a native balance entry; its absence is
// treated as zero.
func (c *Client) NativeBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	data, found, err := c.loadAccount(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, fmt.Errorf("account %s does not exist", account)
	}

	for _, balance := range data.Balances {
		if balance.AssetType != nativeAssetType {
			continue
		}
		return decimal.NewFromString(balance.Balance)
	}

	return decimal.Zero, nil
}

// SubmitPayment loads the issuer account, has the envelope builder produce a
// signed native-asset payment, and submits it.
func (c *Client) SubmitPayment(ctx context.Context, destination, amount string) (string, error) {
	source, err := c.loadIssuerAccount(ctx)
	if err != nil {
		return "", err
	}

	envelope, err := c.envelopes.Payment(source, destination, amount)
	if err != nil {
		return "", err
	}

	return c.submitEnvelope(ctx, envelope)
}

// CreateAccount loads the issuer account, has the envelope builder produce a
// signed create-account operation, and submits it.
func (c *Client) CreateAccount(ctx context.Context, destination, startingBalance string) (string, error) {
	source, err := c.loadIssuerAccount(ctx)
	if err != nil {
		return "", err
	}

	envelope, err := c.envelopes.CreateAccount(source, destination, startingBalance)
	if err != nil {
		return "", err
	}

	return c.submitEnvelope(ctx, envelope)
}
