// Package bridge coordinates the end-to-end relay flow: stake events observed
// on the source chain are routed through address-mapping resolution and reward
// issuance, and every step is fanned out to the connected client sessions.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/stakebridge/internal/addressbook"
	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/x/chflow"
	"github.com/gabapcia/stakebridge/internal/rewardissuer"
	"github.com/gabapcia/stakebridge/internal/sessionhub"
	"github.com/gabapcia/stakebridge/internal/stakewatch"

	"github.com/shopspring/decimal"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

// pendingTxMarker is the placeholder transaction hash carried by a stake
// frame until its reward settles.
const pendingTxMarker = "pending"

// Service defines the bridge orchestrator lifecycle.
type Service interface {
	// Start subscribes to the stake event stream and begins relaying. It
	// fails if the initial chain subscription cannot be established.
	//
	// Returns ErrServiceAlreadyStarted if Start is called more than once.
	Start(ctx context.Context) error

	// Close shuts the relay down and cancels all background routines. It is
	// safe to call Close even if the service was never started.
	Close()
}

// closeFunc defines a cleanup routine to stop background goroutines and dependencies.
type closeFunc func()

// service is the internal implementation of the bridge Service.
type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool
	closeFunc closeFunc

	stakes     stakewatch.Service  // source of decoded stake events
	registry   addressbook.Service // depositor → destination resolution
	issuer     rewardissuer.Service
	hub        sessionhub.Service
	multiplier decimal.Decimal // deposit → reward exchange rate
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// Start launches the relay loop over the stake event stream.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	eventsCh, err := s.stakes.Start(ctx)
	if err != nil {
		cancel()
		return err
	}

	go s.relayStakeEvents(ctx, eventsCh)

	s.closeFunc = func() {
		cancel()
		s.stakes.Close()
	}
	s.isStarted = true
	return nil
}

// Close shuts down the relay and its stake subscription.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
	s.isStarted = false
}

// relayStakeEvents consumes the stake stream until it closes or ctx is
// canceled. Each event is handled in its own goroutine so one transfer's
// retry backoff never delays ingestion of the next event; the issuer
// serializes the actual submissions internally.
func (s *service) relayStakeEvents(ctx context.Context, eventsCh <-chan stakewatch.StakeEvent) {
	for {
		event, ok := chflow.Receive(ctx, eventsCh)
		if !ok {
			return
		}

		go s.handleStakeEvent(ctx, event)
	}
}

// handleStakeEvent runs one deposit through the full relay flow.
func (s *service) handleStakeEvent(ctx context.Context, event stakewatch.StakeEvent) {
	logger.Info(ctx, "stake event received",
		"stake.depositor", event.Depositor,
		"stake.amount", event.Amount.String(),
		"stake.ref", event.Ref.Key(),
	)

	// Announce the deposit before any destination-ledger interaction.
	s.hub.Broadcast(sessionhub.NewFrame(sessionhub.FrameStake, sessionhub.StakePayload{
		Depositor: event.Depositor,
		Amount:    event.Amount,
		TxHash:    pendingTxMarker,
	}))

	destination, err := s.registry.Resolve(ctx, event.Depositor)
	if err != nil {
		if errors.Is(err, addressbook.ErrMappingNotFound) {
			logger.Warn(ctx, "no destination mapped for depositor",
				"stake.depositor", event.Depositor,
			)
			s.hub.Broadcast(sessionhub.NewFrame(sessionhub.FrameError, sessionhub.ErrorPayload{
				Message:   fmt.Sprintf("no destination address mapped for %s", event.Depositor),
				Depositor: event.Depositor,
			}))
			return
		}

		s.broadcastFailure(ctx, event, event.Amount, err)
		return
	}

	reward := event.Amount.Mul(s.multiplier)

	if err := s.issuer.EnsureAccount(ctx, destination); err != nil {
		s.broadcastFailure(ctx, event, reward, err)
		return
	}

	transfer, err := s.issuer.SendReward(ctx, destination, reward)
	if err != nil {
		s.broadcastFailure(ctx, event, reward, err)
		return
	}

	s.hub.Broadcast(sessionhub.NewFrame(sessionhub.FrameReward, sessionhub.RewardPayload{
		Depositor:     event.Depositor,
		Destination:   transfer.Destination,
		Amount:        transfer.Amount,
		DepositAmount: event.Amount,
		TxHash:        transfer.TxID,
		Synthetic:     transfer.Status == rewardissuer.StatusSynthetic,
	}))
}

// broadcastFailure reports a relay failure for the given deposit to every
// session, with enough context to identify the attempt.
func (s *service) broadcastFailure(ctx context.Context, event stakewatch.StakeEvent, attempted decimal.Decimal, err error) {
	logger.Error(ctx, "stake event relay failed",
		"stake.depositor", event.Depositor,
		"stake.ref", event.Ref.Key(),
		"reward.amount", attempted.String(),
		"error", err,
	)

	s.hub.Broadcast(sessionhub.NewFrame(sessionhub.FrameError, sessionhub.ErrorPayload{
		Message:   fmt.Sprintf("failed to relay stake event: %v", err),
		Depositor: event.Depositor,
		Amount:    attempted.String(),
	}))
}

// New creates a bridge orchestrator over the given collaborators.
func New(stakes stakewatch.Service, registry addressbook.Service, issuer rewardissuer.Service, hub sessionhub.Service, multiplier decimal.Decimal) *service {
	return &service{
		stakes:     stakes,
		registry:   registry,
		issuer:     issuer,
		hub:        hub,
		multiplier: multiplier,
	}
}
