package addressbook

import (
	"context"
	"errors"
	"strings"

	"github.com/gabapcia/stakebridge/internal/pkg/validator"
)

// ErrMappingNotFound is returned by lookups for source addresses that were
// never registered.
var ErrMappingNotFound = errors.New("no destination mapped for source address")

// Mapping links a source-chain address to the destination-ledger address that
// should receive its rewards.
//
// Both fields are required and validated upon creation. The source address is
// stored in normalized (lower-case) form, so lookups are case-insensitive.
type Mapping struct {
	SourceAddress      string `validate:"required"` // normalized source-chain address
	DestinationAddress string `validate:"required"` // destination-ledger account id
}

// Storage defines the persistence interface for address mappings.
//
// Implementations must be safe for concurrent use: the orchestrator reads on
// every chain event while the session hub writes on client registration.
type Storage interface {
	// SaveMapping upserts the mapping for its source address.
	// Last write wins; mappings are never deleted.
	SaveMapping(ctx context.Context, m Mapping) error

	// LookupDestination returns the destination address mapped to the given
	// normalized source address, or ErrMappingNotFound.
	LookupDestination(ctx context.Context, sourceAddress string) (string, error)
}

// normalizeSourceAddress lower-cases a source-chain address so that mixed-case
// renderings of the same address share one mapping slot.
func normalizeSourceAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// buildMapping constructs and validates a Mapping from raw input, normalizing
// the source address.
func buildMapping(sourceAddress, destinationAddress string) (Mapping, error) {
	m := Mapping{
		SourceAddress:      normalizeSourceAddress(sourceAddress),
		DestinationAddress: strings.TrimSpace(destinationAddress),
	}

	return m, validator.Validate(m)
}
