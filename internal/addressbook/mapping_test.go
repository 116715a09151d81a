package addressbook

import (
	"testing"

	"github.com/gabapcia/stakebridge/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSourceAddress(t *testing.T) {
	t.Run("lower-cases the address", func(t *testing.T) {
		assert.Equal(t, "0xabcdef", normalizeSourceAddress("0xABCdef"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "0xabc", normalizeSourceAddress("  0xAbC  "))
	})
}

func TestBuildMapping(t *testing.T) {
	t.Run("builds a normalized mapping", func(t *testing.T) {
		m, err := buildMapping("0xDEADbeef", " GDEST ")
		require.NoError(t, err)
		assert.Equal(t, "0xdeadbeef", m.SourceAddress)
		assert.Equal(t, "GDEST", m.DestinationAddress)
	})

	t.Run("rejects an empty source address", func(t *testing.T) {
		_, err := buildMapping("   ", "GDEST")
		require.ErrorIs(t, err, validator.ErrValidation)
	})

	t.Run("rejects an empty destination address", func(t *testing.T) {
		_, err := buildMapping("0xabc", "")
		require.ErrorIs(t, err, validator.ErrValidation)
	})
}
