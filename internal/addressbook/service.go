// Package addressbook maintains the mapping from source-chain addresses to
// destination-ledger accounts. Lookups are case-insensitive and writes follow
// last-write-wins semantics.
package addressbook

import "context"

// Service defines the address registry operations used by the orchestrator
// and the session hub.
type Service interface {
	// Register validates and upserts a source→destination mapping,
	// overwriting any prior destination for the same source address.
	Register(ctx context.Context, sourceAddress, destinationAddress string) error

	// Resolve returns the destination address mapped to the given source
	// address, or ErrMappingNotFound.
	Resolve(ctx context.Context, sourceAddress string) (string, error)
}

// service is the concrete implementation of the Service interface.
type service struct {
	storage Storage
}

// Ensure compile-time compliance with the Service interface.
var _ Service = (*service)(nil)

// Register validates the pair and persists it through the configured Storage.
func (s *service) Register(ctx context.Context, sourceAddress, destinationAddress string) error {
	m, err := buildMapping(sourceAddress, destinationAddress)
	if err != nil {
		return err
	}

	return s.storage.SaveMapping(ctx, m)
}

// Resolve normalizes the source address and looks up its destination.
func (s *service) Resolve(ctx context.Context, sourceAddress string) (string, error) {
	return s.storage.LookupDestination(ctx, normalizeSourceAddress(sourceAddress))
}

// New creates a new addressbook service using the provided Storage
// implementation.
func New(storage Storage) *service {
	return &service{
		storage: storage,
	}
}
