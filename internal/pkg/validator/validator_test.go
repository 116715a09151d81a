package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	t.Run("passes a valid struct", func(t *testing.T) {
		err := Validate(sampleInput{Name: "relay", Email: "ops@example.com"})
		require.NoError(t, err)
	})

	t.Run("returns ErrValidation for a missing required field", func(t *testing.T) {
		err := Validate(sampleInput{})
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'Name'")
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("reports every failing field", func(t *testing.T) {
		err := Validate(sampleInput{Email: "not-an-email"})
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'Name'")
		assert.Contains(t, err.Error(), "'Email'")
	})

	t.Run("self-initializes without an explicit Init call", func(t *testing.T) {
		require.NotPanics(t, func() {
			_ = Validate(sampleInput{Name: "x"})
		})
	})
}

func TestInit(t *testing.T) {
	t.Run("is safe to call repeatedly", func(t *testing.T) {
		require.NotPanics(t, func() {
			Init()
			Init()
		})
	})
}
