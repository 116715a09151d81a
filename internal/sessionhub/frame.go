package sessionhub

import (
	"time"

	"github.com/shopspring/decimal"
)

// FrameType tags an outbound frame on the session wire protocol.
type FrameType string

const (
	FrameStake        FrameType = "stake"         // broadcast: deposit observed on the source chain
	FrameReward       FrameType = "reward"        // broadcast: reward settled on the destination ledger
	FrameError        FrameType = "error"         // broadcast: relay-level failure
	FrameStatus       FrameType = "status"        // targeted: initial connection status
	FrameBalance      FrameType = "balance"       // targeted: native balance read
	FramePong         FrameType = "pong"          // targeted: ping reply
	FrameClaimSuccess FrameType = "claim_success" // broadcast: ad-hoc claim settled
	FrameClaimError   FrameType = "claim_error"   // targeted: claim refused or failed
)

// Frame is the wire representation of a relay event sent to clients.
type Frame struct {
	Type      FrameType `json:"type"`
	Data      any       `json:"data"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
}

// NewFrame stamps a frame with the current time.
func NewFrame(t FrameType, data any) Frame {
	return Frame{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// StatusPayload is sent to a session right after it attaches.
type StatusPayload struct {
	Connected     bool `json:"connected"`
	BridgeRunning bool `json:"bridgeRunning"`
}

// StakePayload announces a deposit before any destination-ledger interaction;
// TxHash carries the pending marker until the reward settles.
type StakePayload struct {
	Depositor string          `json:"depositor"`
	Amount    decimal.Decimal `json:"amount"`
	TxHash    string          `json:"txHash"`
}

// RewardPayload announces a settled automatic reward.
type RewardPayload struct {
	Depositor     string          `json:"depositor"`
	Destination   string          `json:"destination"`
	Amount        decimal.Decimal `json:"amount"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	TxHash        string          `json:"txHash"`
	Synthetic     bool            `json:"synthetic,omitempty"`
}

// ErrorPayload carries a human-readable relay failure with optional context.
type ErrorPayload struct {
	Message   string `json:"message"`
	Depositor string `json:"depositor,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

// BalancePayload answers a getBalance command.
type BalancePayload struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// PongPayload answers a ping command.
type PongPayload struct {
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
}

// ClaimSuccessPayload announces a settled ad-hoc claim.
type ClaimSuccessPayload struct {
	SourceAddress string          `json:"sourceAddress,omitempty"`
	Destination   string          `json:"destination"`
	Amount        decimal.Decimal `json:"amount"`
	TxHash        string          `json:"txHash"`
	Synthetic     bool            `json:"synthetic,omitempty"`
}

// ClaimErrorPayload explains a refused or failed claim to its requester.
type ClaimErrorPayload struct {
	Message string `json:"message"`
	Reason  string `json:"error,omitempty"`
}
