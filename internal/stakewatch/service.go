// Package stakewatch subscribes to the source chain's staking contract and
// turns raw deposit notifications into decoded StakeEvents. It performs no
// confirmation-depth wait; delivery toward the consumer is at-least-once with
// in-process redelivery suppression.
package stakewatch

import (
	"context"
	"errors"
	"sync"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/types"
	"github.com/gabapcia/stakebridge/internal/pkg/x/chflow"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

// stakeEventChannelBufferSize buffers decoded events so a slow consumer does
// not immediately backpressure the provider stream.
const stakeEventChannelBufferSize = 10

// Service defines the stake-watching lifecycle.
type Service interface {
	// Start subscribes to the staking contract and returns the stream of
	// decoded stake events. It fails if the initial subscription cannot be
	// established; the caller is expected to treat that as fatal.
	//
	// Returns ErrServiceAlreadyStarted if Start is called more than once.
	Start(ctx context.Context) (<-chan StakeEvent, error)

	// Close cancels the subscription and closes the event stream. It is safe
	// to call Close even if the service was never started.
	Close()
}

// closeFunc defines a cleanup routine to stop background goroutines.
type closeFunc func()

// service is the internal implementation of the stakewatch Service.
type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool
	closeFunc closeFunc

	chain Blockchain
	seen  *seenSet
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// Start subscribes to the chain and launches the decode/forward loop.
func (s *service) Start(ctx context.Context) (<-chan StakeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	notificationsCh, err := s.chain.Subscribe(ctx, types.Hex(""))
	if err != nil {
		cancel()
		return nil, err
	}

	eventsCh := make(chan StakeEvent, stakeEventChannelBufferSize)
	go s.forwardNotifications(ctx, notificationsCh, eventsCh)

	s.closeFunc = func() {
		cancel()
		close(eventsCh)
	}
	s.isStarted = true
	return eventsCh, nil
}

// Close cancels the subscription and stops internal goroutines.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
	s.isStarted = false
}

// forwardNotifications drains the provider stream, decodes amounts, drops
// notifications that carry errors or were already forwarded, and emits the
// rest on eventsCh. It returns when the provider stream closes or ctx is
// canceled.
func (s *service) forwardNotifications(ctx context.Context, notificationsCh <-chan StakeNotification, eventsCh chan<- StakeEvent) {
	for {
		notification, ok := chflow.Receive(ctx, notificationsCh)
		if !ok {
			return
		}

		if notification.Err != nil {
			logger.Error(ctx, "stake notification failure",
				"stake.ref", notification.Ref.Key(),
				"error", notification.Err,
			)
			continue
		}

		if !s.seen.MarkSeen(notification.Ref.Key()) {
			logger.Debug(ctx, "duplicate stake notification dropped",
				"stake.ref", notification.Ref.Key(),
			)
			continue
		}

		event := StakeEvent{
			Depositor: notification.Depositor,
			Amount:    decodeBaseUnits(notification.AmountBaseUnit),
			Ref:       notification.Ref,
		}

		if ok := chflow.Send(ctx, eventsCh, event); !ok {
			return
		}
	}
}

// config holds construction options for the service.
type config struct {
	seenCapacity int
}

// Option configures the stakewatch service.
type Option func(*config)

// WithSeenCapacity overrides how many event references the redelivery guard
// remembers. Default: 4096.
func WithSeenCapacity(n int) Option {
	return func(c *config) {
		c.seenCapacity = n
	}
}

// New creates a stakewatch service over the given chain source.
func New(chain Blockchain, opts ...Option) *service {
	cfg := config{
		seenCapacity: defaultSeenCapacity,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		chain: chain,
		seen:  newSeenSet(cfg.seenCapacity),
	}
}
