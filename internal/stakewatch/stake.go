package stakewatch

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gabapcia/stakebridge/internal/pkg/types"

	"github.com/shopspring/decimal"
)

// sourceChainDecimals is the number of fractional digits of the source
// chain's base unit (wei-style 18-decimal accounting).
const sourceChainDecimals = 18

// EventRef locates a stake notification on the source chain. It is the
// identity used to suppress provider redelivery.
type EventRef struct {
	BlockNumber types.Hex // block the event was included in
	TxHash      string    // transaction that emitted the event
	LogIndex    types.Hex // position of the log within the block
}

// Key returns the redelivery-suppression identity of the reference.
func (r EventRef) Key() string {
	return fmt.Sprintf("%s:%s", r.TxHash, r.LogIndex)
}

// StakeEvent is a decoded deposit notification observed on the source chain.
type StakeEvent struct {
	Depositor string          // source-chain address that made the deposit
	Amount    decimal.Decimal // deposit amount in whole units
	Ref       EventRef        // source-chain position of the event
}

// StakeNotification is a raw delivery from the chain provider. Either Event
// carries an undecoded stake (amount still in base units) or Err explains why
// the provider could not produce one.
type StakeNotification struct {
	Depositor      string
	AmountBaseUnit types.Hex // deposit amount in the chain's smallest unit
	Ref            EventRef
	Err            error
}

// Blockchain defines a source of stake events.
//
// Subscribe begins streaming stake notifications from fromBlock (inclusive).
// If fromBlock is the zero value, the implementation should start from the
// latest known block. The returned channel is closed when ctx is canceled.
// Delivery is at-least-once; duplicates are the subscriber's problem.
type Blockchain interface {
	Subscribe(ctx context.Context, fromBlock types.Hex) (<-chan StakeNotification, error)
}

// decodeBaseUnits converts an amount in the chain's smallest integer unit
// into whole units as an exact decimal.
func decodeBaseUnits(amount types.Hex) decimal.Decimal {
	raw := amount.BigInt()
	return decimal.NewFromBigInt(new(big.Int).Set(raw), -sourceChainDecimals)
}
