package rewardissuer

import (
	"context"

	"github.com/shopspring/decimal"
)

// minimumReserve is the starting balance used when funding a destination
// account that does not exist yet.
const minimumReserve = "1"

// Ledger defines the destination-ledger operations the issuer depends on.
// Amounts cross this boundary as decimal strings with at most 7 fractional
// digits, matching the ledger's wire format.
//
// Implementations must wrap failures with the package's sentinel errors
// (ErrSubmissionTimeout, ErrLedgerUnavailable, ErrSubmissionRejected,
// ErrAccountLoadFailed) so the issuer can classify them.
type Ledger interface {
	// AccountExists reports whether the account is known to the ledger.
	AccountExists(ctx context.Context, account string) (bool, error)

	// NativeBalance returns the account's balance of the native settlement
	// asset.
	NativeBalance(ctx context.Context, account string) (decimal.Decimal, error)

	// SubmitPayment signs and submits a native-asset payment from the issuer
	// account and returns the resulting transaction id.
	SubmitPayment(ctx context.Context, destination, amount string) (string, error)

	// CreateAccount signs and submits a create-account operation from the
	// issuer account, funding destination with startingBalance.
	CreateAccount(ctx context.Context, destination, startingBalance string) (string, error)
}
