package rewardissuer

import (
	"errors"

	"github.com/shopspring/decimal"
)

// networkPrecision is the maximum number of fractional digits the destination
// ledger accepts on an amount.
const networkPrecision = 7

// Error taxonomy of the issuance path. Infrastructure adapters wrap their
// failures with these sentinels so the service can classify them with
// errors.Is, independent of transport details.
var (
	// ErrInvalidAmount rejects non-positive reward amounts before any
	// ledger interaction.
	ErrInvalidAmount = errors.New("invalid reward amount")

	// ErrAccountLoadFailed means the issuer's own account could not be
	// loaded from the destination ledger.
	ErrAccountLoadFailed = errors.New("failed to load issuer account")

	// ErrSubmissionTimeout marks a submission that did not complete within
	// its deadline. Transient; retried.
	ErrSubmissionTimeout = errors.New("transaction submission timed out")

	// ErrLedgerUnavailable marks a server-side (5xx) submission failure.
	// Transient; retried.
	ErrLedgerUnavailable = errors.New("destination ledger unavailable")

	// ErrSubmissionRejected marks a submission the ledger refused.
	// Permanent; never retried.
	ErrSubmissionRejected = errors.New("transaction submission rejected")
)

// TransferStatus is the lifecycle state of a reward transfer. A transfer is
// terminal once its status leaves StatusPending.
type TransferStatus string

const (
	StatusPending   TransferStatus = "pending"   // created, not yet submitted
	StatusSubmitted TransferStatus = "submitted" // handed to the ledger, outcome unknown
	StatusConfirmed TransferStatus = "confirmed" // ledger accepted the transaction
	StatusFailed    TransferStatus = "failed"    // all attempts exhausted
	StatusSynthetic TransferStatus = "synthetic" // degraded-mode placeholder, not a real settlement
)

// RewardTransfer records one issuance attempt toward the destination ledger.
type RewardTransfer struct {
	Destination string          // destination-ledger account id
	Amount      decimal.Decimal // rounded amount actually submitted
	Status      TransferStatus
	Attempts    int    // number of submission attempts performed
	TxID        string // resulting transaction id (synthetic ids are prefixed)
}

// Settled reports whether the transfer reached a terminal state that should
// be announced to clients as a completed reward. Synthetic transfers count as
// settled for relay-liveness purposes but remain distinguishable via Status.
func (t RewardTransfer) Settled() bool {
	return t.Status == StatusConfirmed || t.Status == StatusSynthetic
}

// Round7 rounds an amount to the destination ledger's precision ceiling of 7
// fractional digits, half away from zero. Rounding is idempotent:
// Round7(Round7(d)) == Round7(d). String rendering of the result carries no
// trailing zeros.
func Round7(d decimal.Decimal) decimal.Decimal {
	return d.Round(networkPrecision)
}

// isTransient reports whether a submission error is worth retrying.
// Timeouts and server-side failures are; rejections and account-load
// failures are not.
func isTransient(err error) bool {
	return errors.Is(err, ErrSubmissionTimeout) || errors.Is(err, ErrLedgerUnavailable)
}
