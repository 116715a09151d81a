package rewardissuer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/resilience/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// ledgerFake scripts ledger responses per call.
type ledgerFake struct {
	exists    bool
	existsErr error

	balance    decimal.Decimal
	balanceErr error

	// submitErrs are consumed one per SubmitPayment call; once drained, the
	// submission succeeds with submitTxID.
	submitErrs []error
	submitTxID string

	createTxID string
	createErr  error

	submitCalls []string // amounts as submitted
	createCalls []string // destinations funded
}

var _ Ledger = (*ledgerFake)(nil)

func (l *ledgerFake) AccountExists(context.Context, string) (bool, error) {
	return l.exists, l.existsErr
}

func (l *ledgerFake) NativeBalance(context.Context, string) (decimal.Decimal, error) {
	return l.balance, l.balanceErr
}

func (l *ledgerFake) SubmitPayment(_ context.Context, _, amount string) (string, error) {
	l.submitCalls = append(l.submitCalls, amount)
	if len(l.submitErrs) > 0 {
		err := l.submitErrs[0]
		l.submitErrs = l.submitErrs[1:]
		return "", err
	}
	return l.submitTxID, nil
}

func (l *ledgerFake) CreateAccount(_ context.Context, destination, _ string) (string, error) {
	l.createCalls = append(l.createCalls, destination)
	return l.createTxID, l.createErr
}

// fastRetry mirrors the production retry policy with a negligible delay so
// tests do not wait through real backoff.
func fastRetry() retry.Retry {
	return retry.New(
		retry.WithAttempts(submissionAttempts),
		retry.WithDelay(time.Millisecond),
		retry.WithMaxDelay(time.Duration(submissionAttempts)*time.Millisecond),
		retry.WithLinearBackoff(),
		retry.WithRetryIf(isTransient),
	)
}

func TestService_EnsureAccount(t *testing.T) {
	t.Run("is a no-op when the account exists", func(t *testing.T) {
		ledger := &ledgerFake{exists: true}
		svc := New(ledger, WithRetry(fastRetry()))

		err := svc.EnsureAccount(context.Background(), "GDEST")
		require.NoError(t, err)
		assert.Empty(t, ledger.createCalls)
	})

	t.Run("funds a missing account with the minimum reserve", func(t *testing.T) {
		ledger := &ledgerFake{exists: false, createTxID: "tx-create"}
		svc := New(ledger, WithRetry(fastRetry()))

		err := svc.EnsureAccount(context.Background(), "GDEST")
		require.NoError(t, err)
		assert.Equal(t, []string{"GDEST"}, ledger.createCalls)
	})

	t.Run("propagates existence check failures", func(t *testing.T) {
		expectedErr := fmt.Errorf("%w: probe failed", ErrLedgerUnavailable)
		ledger := &ledgerFake{existsErr: expectedErr}
		svc := New(ledger, WithRetry(fastRetry()))

		err := svc.EnsureAccount(context.Background(), "GDEST")
		require.ErrorIs(t, err, ErrLedgerUnavailable)
		assert.Empty(t, ledger.createCalls)
	})

	t.Run("propagates account creation failures", func(t *testing.T) {
		expectedErr := errors.New("create refused")
		ledger := &ledgerFake{exists: false, createErr: expectedErr}
		svc := New(ledger, WithRetry(fastRetry()))

		err := svc.EnsureAccount(context.Background(), "GDEST")
		require.ErrorIs(t, err, expectedErr)
	})
}

func TestService_SendReward(t *testing.T) {
	t.Run("rejects a zero amount without touching the ledger", func(t *testing.T) {
		ledger := &ledgerFake{}
		svc := New(ledger, WithRetry(fastRetry()))

		_, err := svc.SendReward(context.Background(), "GDEST", decimal.Zero)
		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, ledger.submitCalls)
	})

	t.Run("rejects a negative amount without touching the ledger", func(t *testing.T) {
		ledger := &ledgerFake{}
		svc := New(ledger, WithRetry(fastRetry()))

		_, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(-5))
		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, ledger.submitCalls)
	})

	t.Run("confirms a successful first-attempt submission", func(t *testing.T) {
		ledger := &ledgerFake{submitTxID: "tx-123"}
		svc := New(ledger, WithRetry(fastRetry()))

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(5))
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, transfer.Status)
		assert.Equal(t, "tx-123", transfer.TxID)
		assert.Equal(t, "GDEST", transfer.Destination)
		assert.Equal(t, 1, transfer.Attempts)
		assert.True(t, transfer.Settled())
	})

	t.Run("submits the rounded amount", func(t *testing.T) {
		ledger := &ledgerFake{submitTxID: "tx-123"}
		svc := New(ledger, WithRetry(fastRetry()))

		amount, err := decimal.NewFromString("1.123456789")
		require.NoError(t, err)

		transfer, err := svc.SendReward(context.Background(), "GDEST", amount)
		require.NoError(t, err)

		assert.Equal(t, "1.1234568", transfer.Amount.String())
		require.Len(t, ledger.submitCalls, 1)
		assert.Equal(t, "1.1234568", ledger.submitCalls[0])
	})

	t.Run("retries transient failures and succeeds on the third attempt", func(t *testing.T) {
		ledger := &ledgerFake{
			submitErrs: []error{
				fmt.Errorf("%w: attempt 1", ErrSubmissionTimeout),
				fmt.Errorf("%w: attempt 2", ErrLedgerUnavailable),
			},
			submitTxID: "tx-eventually",
		}
		svc := New(ledger, WithRetry(fastRetry()))

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, transfer.Status)
		assert.Equal(t, "tx-eventually", transfer.TxID)
		assert.Equal(t, 3, transfer.Attempts)
		assert.Len(t, ledger.submitCalls, 3)
	})

	t.Run("fails after exhausting all attempts on transient errors", func(t *testing.T) {
		ledger := &ledgerFake{
			submitErrs: []error{
				fmt.Errorf("%w: attempt 1", ErrSubmissionTimeout),
				fmt.Errorf("%w: attempt 2", ErrSubmissionTimeout),
				fmt.Errorf("%w: attempt 3", ErrSubmissionTimeout),
			},
		}
		svc := New(ledger, WithRetry(fastRetry()))

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.ErrorIs(t, err, ErrSubmissionTimeout)

		assert.Equal(t, StatusFailed, transfer.Status)
		assert.Equal(t, 3, transfer.Attempts)
		assert.Len(t, ledger.submitCalls, 3)
	})

	t.Run("does not retry a rejected submission", func(t *testing.T) {
		ledger := &ledgerFake{
			submitErrs: []error{fmt.Errorf("%w: tx_bad_seq", ErrSubmissionRejected)},
		}
		svc := New(ledger, WithRetry(fastRetry()))

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.ErrorIs(t, err, ErrSubmissionRejected)

		assert.Equal(t, StatusFailed, transfer.Status)
		assert.Equal(t, 1, transfer.Attempts)
		assert.Len(t, ledger.submitCalls, 1)
	})

	t.Run("issues a synthetic transfer when fallback mode is enabled", func(t *testing.T) {
		ledger := &ledgerFake{
			submitErrs: []error{
				fmt.Errorf("%w: attempt 1", ErrLedgerUnavailable),
				fmt.Errorf("%w: attempt 2", ErrLedgerUnavailable),
				fmt.Errorf("%w: attempt 3", ErrLedgerUnavailable),
			},
		}
		svc := New(ledger, WithRetry(fastRetry()), WithSyntheticFallback())

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.NoError(t, err)

		assert.Equal(t, StatusSynthetic, transfer.Status)
		assert.True(t, strings.HasPrefix(transfer.TxID, syntheticTxPrefix))
		assert.Equal(t, 3, transfer.Attempts)
		assert.True(t, transfer.Settled())
	})

	t.Run("does not go synthetic when a submission succeeds", func(t *testing.T) {
		ledger := &ledgerFake{submitTxID: "tx-real"}
		svc := New(ledger, WithRetry(fastRetry()), WithSyntheticFallback())

		transfer, err := svc.SendReward(context.Background(), "GDEST", decimal.NewFromInt(1))
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, transfer.Status)
		assert.Equal(t, "tx-real", transfer.TxID)
	})
}

func TestService_GetBalance(t *testing.T) {
	t.Run("returns the ledger balance as a string", func(t *testing.T) {
		balance, err := decimal.NewFromString("123.4567")
		require.NoError(t, err)

		svc := New(&ledgerFake{balance: balance}, WithRetry(fastRetry()))

		assert.Equal(t, "123.4567", svc.GetBalance(context.Background(), "GDEST"))
	})

	t.Run("degrades to zero on read failure", func(t *testing.T) {
		svc := New(&ledgerFake{balanceErr: errors.New("ledger offline")}, WithRetry(fastRetry()))

		assert.Equal(t, "0", svc.GetBalance(context.Background(), "GDEST"))
	})
}

func TestNew(t *testing.T) {
	t.Run("creates a service with a default retry policy", func(t *testing.T) {
		ledger := &ledgerFake{}
		svc := New(ledger)

		require.NotNil(t, svc)
		assert.Equal(t, ledger, svc.ledger)
		assert.NotNil(t, svc.retry)
		assert.False(t, svc.syntheticFallback)
	})

	t.Run("applies options", func(t *testing.T) {
		r := fastRetry()
		svc := New(&ledgerFake{}, WithRetry(r), WithSyntheticFallback())

		assert.Equal(t, r, svc.retry)
		assert.True(t, svc.syntheticFallback)
	})
}
