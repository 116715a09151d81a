// Package rewardissuer turns (destination, amount) pairs into signed,
// submitted payments on the destination ledger. It owns rounding to the
// ledger's precision, transient-failure retries with linearly increasing
// backoff, destination account provisioning, and the process-wide
// serialization of every submission from the single funded issuer account.
package rewardissuer

import (
	"context"
	"sync"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/resilience/retry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// submissionAttempts is the total number of submission tries, including
	// the first.
	submissionAttempts = 3

	// submissionBackoffBase is the wait before the first retry; waits grow
	// linearly (2s, 4s, 6s).
	submissionBackoffBase = 2 * time.Second

	// syntheticTxPrefix tags placeholder transaction ids produced in
	// degraded mode so they can never be mistaken for real ones.
	syntheticTxPrefix = "synthetic-"
)

// Service defines the reward issuance operations.
type Service interface {
	// EnsureAccount provisions the destination account on the ledger if it
	// does not exist yet, funding it with the minimum reserve from the
	// issuer account. It is idempotent: a no-op when the account exists.
	EnsureAccount(ctx context.Context, destination string) error

	// SendReward rounds the amount to the ledger's precision, then signs
	// and submits a native-asset payment from the issuer account. Transient
	// failures are retried up to 3 total attempts with increasing backoff.
	//
	// On success the returned transfer has StatusConfirmed. When every
	// attempt is exhausted the submission error is returned, unless the
	// synthetic fallback mode is enabled, in which case the transfer comes
	// back with StatusSynthetic and a tagged placeholder transaction id.
	//
	// Returns ErrInvalidAmount without touching the ledger when amount <= 0.
	SendReward(ctx context.Context, destination string, amount decimal.Decimal) (RewardTransfer, error)

	// GetBalance returns the account's native balance as a decimal string.
	// Balance display is best-effort: failures degrade to "0".
	GetBalance(ctx context.Context, account string) string
}

// service is the internal implementation of the rewardissuer Service.
type service struct {
	// submitMu serializes every call that consumes an issuer-account
	// sequence number. The issuer account is a single shared resource;
	// concurrent submissions from it race on sequence numbers.
	submitMu sync.Mutex

	ledger            Ledger
	retry             retry.Retry
	syntheticFallback bool
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// EnsureAccount provisions the destination account if the ledger does not
// know it yet.
func (s *service) EnsureAccount(ctx context.Context, destination string) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	exists, err := s.ledger.AccountExists(ctx, destination)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info(ctx, "funding destination account",
		"account.destination", destination,
		"account.starting_balance", minimumReserve,
	)

	txID, err := s.ledger.CreateAccount(ctx, destination, minimumReserve)
	if err != nil {
		return err
	}

	logger.Info(ctx, "destination account created",
		"account.destination", destination,
		"tx.id", txID,
	)
	return nil
}

// SendReward submits a rounded native-asset payment, retrying transient
// failures, and reports the resulting transfer.
func (s *service) SendReward(ctx context.Context, destination string, amount decimal.Decimal) (RewardTransfer, error) {
	if amount.Sign() <= 0 {
		return RewardTransfer{}, ErrInvalidAmount
	}

	transfer := RewardTransfer{
		Destination: destination,
		Amount:      Round7(amount),
		Status:      StatusPending,
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	err := s.retry.Execute(ctx, func() error {
		transfer.Attempts++
		transfer.Status = StatusSubmitted

		txID, err := s.ledger.SubmitPayment(ctx, destination, transfer.Amount.String())
		if err != nil {
			return err
		}

		transfer.TxID = txID
		return nil
	})
	if err == nil {
		transfer.Status = StatusConfirmed
		logger.Info(ctx, "reward payment confirmed",
			"transfer.destination", transfer.Destination,
			"transfer.amount", transfer.Amount.String(),
			"transfer.attempts", transfer.Attempts,
			"tx.id", transfer.TxID,
		)
		return transfer, nil
	}

	if s.syntheticFallback {
		transfer.Status = StatusSynthetic
		transfer.TxID = syntheticTxPrefix + uuid.NewString()
		logger.Warn(ctx, "submission exhausted, issuing synthetic transaction id",
			"transfer.destination", transfer.Destination,
			"transfer.amount", transfer.Amount.String(),
			"transfer.attempts", transfer.Attempts,
			"tx.id", transfer.TxID,
			"error", err,
		)
		return transfer, nil
	}

	transfer.Status = StatusFailed
	return transfer, err
}

// GetBalance reads the account's native balance, degrading to "0" on any
// failure.
func (s *service) GetBalance(ctx context.Context, account string) string {
	balance, err := s.ledger.NativeBalance(ctx, account)
	if err != nil {
		logger.Warn(ctx, "balance read failed, reporting placeholder",
			"account", account,
			"error", err,
		)
		return "0"
	}

	return balance.String()
}

// config holds construction options for the service.
type config struct {
	retry             retry.Retry
	syntheticFallback bool
}

// Option configures the rewardissuer service.
type Option func(*config)

// WithRetry replaces the submission retrier. Intended for tests that cannot
// afford real backoff delays.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithSyntheticFallback enables the operator-controlled degraded mode: when
// every submission attempt is exhausted, SendReward reports a synthetic
// transfer instead of failing, keeping the relay functioning through an
// outage. The result is always programmatically distinguishable from a real
// confirmation via TransferStatus.
func WithSyntheticFallback() Option {
	return func(c *config) {
		c.syntheticFallback = true
	}
}

// New creates a rewardissuer service over the given ledger.
func New(ledger Ledger, opts ...Option) *service {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.retry == nil {
		cfg.retry = retry.New(
			retry.WithAttempts(submissionAttempts),
			retry.WithDelay(submissionBackoffBase),
			retry.WithMaxDelay(time.Duration(submissionAttempts)*submissionBackoffBase),
			retry.WithLinearBackoff(),
			retry.WithRetryIf(isTransient),
		)
	}

	return &service{
		ledger:            ledger,
		retry:             cfg.retry,
		syntheticFallback: cfg.syntheticFallback,
	}
}
