package sessionhub

import (
	"encoding/json"
	"fmt"

	"github.com/gabapcia/stakebridge/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// CommandType tags an inbound client command.
type CommandType string

const (
	CommandRegister   CommandType = "register"
	CommandGetBalance CommandType = "getBalance"
	CommandClaim      CommandType = "claim"
	CommandPing       CommandType = "ping"
)

// Command is an inbound frame from a client session. Fields beyond Type are
// populated depending on the command.
type Command struct {
	Type               CommandType     `json:"type" validate:"required"`
	SourceAddress      string          `json:"sourceAddress"`
	DestinationAddress string          `json:"destinationAddress"`
	Amount             decimal.Decimal `json:"amount"`
}

// registerInput is the validated shape of a register command.
type registerInput struct {
	SourceAddress      string `validate:"required"`
	DestinationAddress string `validate:"required"`
}

// parseCommand decodes and validates an inbound message.
func parseCommand(raw []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, fmt.Errorf("malformed command: %w", err)
	}

	return cmd, validator.Validate(cmd)
}
