package addressbook

import (
	"context"
	"errors"
	"testing"

	"github.com/gabapcia/stakebridge/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageFake records SaveMapping calls and serves canned lookups.
type storageFake struct {
	saved   []Mapping
	saveErr error

	lookups map[string]string
}

var _ Storage = (*storageFake)(nil)

func (s *storageFake) SaveMapping(_ context.Context, m Mapping) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, m)
	return nil
}

func (s *storageFake) LookupDestination(_ context.Context, sourceAddress string) (string, error) {
	destination, ok := s.lookups[sourceAddress]
	if !ok {
		return "", ErrMappingNotFound
	}
	return destination, nil
}

func TestService_Register(t *testing.T) {
	t.Run("persists a normalized mapping", func(t *testing.T) {
		storage := &storageFake{}
		svc := New(storage)

		err := svc.Register(context.Background(), "0xABCdef", "GDEST")
		require.NoError(t, err)

		require.Len(t, storage.saved, 1)
		assert.Equal(t, "0xabcdef", storage.saved[0].SourceAddress)
		assert.Equal(t, "GDEST", storage.saved[0].DestinationAddress)
	})

	t.Run("rejects an empty source address without touching storage", func(t *testing.T) {
		storage := &storageFake{}
		svc := New(storage)

		err := svc.Register(context.Background(), "", "GDEST")
		require.ErrorIs(t, err, validator.ErrValidation)
		assert.Empty(t, storage.saved)
	})

	t.Run("rejects an empty destination address without touching storage", func(t *testing.T) {
		storage := &storageFake{}
		svc := New(storage)

		err := svc.Register(context.Background(), "0xabc", "  ")
		require.ErrorIs(t, err, validator.ErrValidation)
		assert.Empty(t, storage.saved)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		expectedErr := errors.New("storage offline")
		svc := New(&storageFake{saveErr: expectedErr})

		err := svc.Register(context.Background(), "0xabc", "GDEST")
		require.ErrorIs(t, err, expectedErr)
	})
}

func TestService_Resolve(t *testing.T) {
	t.Run("resolves a registered source address", func(t *testing.T) {
		svc := New(&storageFake{lookups: map[string]string{"0xabc": "GDEST"}})

		destination, err := svc.Resolve(context.Background(), "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "GDEST", destination)
	})

	t.Run("resolves regardless of source address casing", func(t *testing.T) {
		svc := New(&storageFake{lookups: map[string]string{"0xabc": "GDEST"}})

		destination, err := svc.Resolve(context.Background(), "0xABC")
		require.NoError(t, err)
		assert.Equal(t, "GDEST", destination)
	})

	t.Run("returns ErrMappingNotFound for an unregistered source", func(t *testing.T) {
		svc := New(&storageFake{})

		_, err := svc.Resolve(context.Background(), "0xnobody")
		require.ErrorIs(t, err, ErrMappingNotFound)
	})
}

func TestService_RegisterThenResolve(t *testing.T) {
	t.Run("round-trips through the in-memory storage", func(t *testing.T) {
		svc := New(NewMemoryStorage())
		ctx := context.Background()

		require.NoError(t, svc.Register(ctx, "0xDEADbeef", "GFIRST"))
		require.NoError(t, svc.Register(ctx, "0xdeadBEEF", "GSECOND"))

		// Mixed-case renderings share one slot; last write wins.
		destination, err := svc.Resolve(ctx, "0xDeAdBeEf")
		require.NoError(t, err)
		assert.Equal(t, "GSECOND", destination)
	})
}
