package addressbook

import (
	"context"
	"sync"
)

// MemoryStorage is the default, in-process Storage implementation: a
// RWMutex-guarded map. Contents do not survive a restart; that is an accepted
// limitation of the relay, not a bug.
type MemoryStorage struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// Compile-time assertion that MemoryStorage satisfies the Storage interface.
var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory mapping store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		mappings: make(map[string]string),
	}
}

// SaveMapping upserts the mapping under its normalized source address.
func (s *MemoryStorage) SaveMapping(_ context.Context, m Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappings[m.SourceAddress] = m.DestinationAddress
	return nil
}

// LookupDestination returns the mapped destination or ErrMappingNotFound.
func (s *MemoryStorage) LookupDestination(_ context.Context, sourceAddress string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	destination, ok := s.mappings[sourceAddress]
	if !ok {
		return "", ErrMappingNotFound
	}

	return destination, nil
}
