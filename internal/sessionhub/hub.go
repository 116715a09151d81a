// Package sessionhub manages the set of live client sessions: it parses
// inbound commands, sends targeted replies, and fans relay-wide events out to
// every open connection. The hub is transport-agnostic; connections reach it
// through the Conn interface.
package sessionhub

import (
	"context"
	"sync"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// Messages surfaced to clients on refused claims.
const (
	msgInvalidClaimAmount   = "Invalid claim amount"
	msgNoDestinationAddress = "no destination address registered"
	msgClaimFailed          = "Claim failed"
)

// ClaimResult describes a processed claim.
type ClaimResult struct {
	TxID      string
	Amount    decimal.Decimal // rounded amount actually settled
	Synthetic bool            // degraded-mode placeholder, not a real settlement
}

// ClaimProcessor executes an ad-hoc reward claim toward the destination
// ledger. Implemented by the bridge orchestrator so claims share the
// serialized issuance path with automatic rewards.
type ClaimProcessor interface {
	ProcessClaim(ctx context.Context, destination string, amount decimal.Decimal) (ClaimResult, error)
}

// BalanceReader reads an account's native balance, best-effort.
type BalanceReader interface {
	NativeBalance(ctx context.Context, account string) string
}

// AddressRegistry upserts source→destination mappings on client registration.
type AddressRegistry interface {
	Register(ctx context.Context, sourceAddress, destinationAddress string) error
}

// Service defines the session hub operations used by the transport layer and
// the orchestrator.
type Service interface {
	// Attach registers a new session for the connection and sends it the
	// initial status frame.
	Attach(conn Conn) *Session

	// Detach removes the session from the active set and closes its
	// connection. Frames sent to a detached session are silently dropped.
	Detach(session *Session)

	// HandleMessage parses one inbound client message and dispatches the
	// command it carries. Malformed or unknown messages earn the session a
	// targeted error frame; they never tear the relay down.
	HandleMessage(ctx context.Context, session *Session, raw []byte)

	// Broadcast sends a frame to every currently open session.
	Broadcast(frame Frame)
}

// service is the internal implementation of the sessionhub Service.
type service struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}

	registry AddressRegistry
	claims   ClaimProcessor
	balances BalanceReader
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// Attach registers the connection and greets it with a status frame.
func (s *service) Attach(conn Conn) *Session {
	session := &Session{conn: conn}

	s.mu.Lock()
	s.sessions[session] = struct{}{}
	s.mu.Unlock()

	session.send(NewFrame(FrameStatus, StatusPayload{
		Connected:     true,
		BridgeRunning: true,
	}))

	return session
}

// Detach removes the session and closes its connection.
func (s *service) Detach(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session)
	s.mu.Unlock()

	session.conn.Close()
}

// Broadcast fans a frame out to every open session. Slow clients are the
// transport's problem; this never blocks on socket I/O.
func (s *service) Broadcast(frame Frame) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for session := range s.sessions {
		session.send(frame)
	}
}

// HandleMessage parses and dispatches one inbound message.
func (s *service) HandleMessage(ctx context.Context, session *Session, raw []byte) {
	cmd, err := parseCommand(raw)
	if err != nil {
		session.send(NewFrame(FrameError, ErrorPayload{Message: err.Error()}))
		return
	}

	switch cmd.Type {
	case CommandRegister:
		s.handleRegister(ctx, session, cmd)
	case CommandGetBalance:
		s.handleGetBalance(ctx, session)
	case CommandClaim:
		s.handleClaim(ctx, session, cmd)
	case CommandPing:
		session.send(NewFrame(FramePong, PongPayload{Timestamp: time.Now().UnixMilli()}))
	default:
		session.send(NewFrame(FrameError, ErrorPayload{Message: "unknown command type: " + string(cmd.Type)}))
	}
}

// handleRegister binds the address pair to the session and upserts it into
// the address registry.
func (s *service) handleRegister(ctx context.Context, session *Session, cmd Command) {
	input := registerInput{
		SourceAddress:      cmd.SourceAddress,
		DestinationAddress: cmd.DestinationAddress,
	}
	if err := validator.Validate(input); err != nil {
		session.send(NewFrame(FrameError, ErrorPayload{Message: err.Error()}))
		return
	}

	if err := s.registry.Register(ctx, cmd.SourceAddress, cmd.DestinationAddress); err != nil {
		session.send(NewFrame(FrameError, ErrorPayload{Message: err.Error()}))
		return
	}

	session.bind(cmd.SourceAddress, cmd.DestinationAddress)

	logger.Info(ctx, "session registered address mapping",
		"mapping.source", cmd.SourceAddress,
		"mapping.destination", cmd.DestinationAddress,
	)
}

// handleGetBalance replies with the session's destination balance, to the
// requester only. Sessions with no bound destination get nothing, matching
// the relay's historical behavior.
func (s *service) handleGetBalance(ctx context.Context, session *Session) {
	destination := session.DestinationAddress()
	if destination == "" {
		logger.Debug(ctx, "balance request from session with no bound destination")
		return
	}

	session.send(NewFrame(FrameBalance, BalancePayload{
		Address: destination,
		Balance: s.balances.NativeBalance(ctx, destination),
	}))
}

// handleClaim validates and executes an ad-hoc claim. Success is broadcast to
// every session; failure is reported to the requester only.
func (s *service) handleClaim(ctx context.Context, session *Session, cmd Command) {
	destination := session.DestinationAddress()
	if destination == "" {
		session.send(NewFrame(FrameClaimError, ClaimErrorPayload{Message: msgNoDestinationAddress}))
		return
	}

	if cmd.Amount.Sign() <= 0 {
		session.send(NewFrame(FrameClaimError, ClaimErrorPayload{Message: msgInvalidClaimAmount}))
		return
	}

	result, err := s.claims.ProcessClaim(ctx, destination, cmd.Amount)
	if err != nil {
		session.send(NewFrame(FrameClaimError, ClaimErrorPayload{
			Message: msgClaimFailed,
			Reason:  err.Error(),
		}))
		return
	}

	s.Broadcast(NewFrame(FrameClaimSuccess, ClaimSuccessPayload{
		SourceAddress: session.SourceAddress(),
		Destination:   destination,
		Amount:        result.Amount,
		TxHash:        result.TxID,
		Synthetic:     result.Synthetic,
	}))
}

// New creates a session hub wired to the given registry, claim processor, and
// balance reader.
func New(registry AddressRegistry, claims ClaimProcessor, balances BalanceReader) *service {
	return &service{
		sessions: make(map[*Session]struct{}),
		registry: registry,
		claims:   claims,
		balances: balances,
	}
}
