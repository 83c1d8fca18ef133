package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

var errOverLimit = apperr.Rejected("requested amount exceeds credit limit")

func TestError_WithKeepsIdentity(t *testing.T) {
	err := errOverLimit.With("creditLimit", 200)

	assert.ErrorIs(t, err, errOverLimit)
	assert.Equal(t, 200, err.Fields["creditLimit"])
	assert.Nil(t, errOverLimit.Fields, "sentinel must not be mutated")
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("creating loan: %w", errOverLimit)

	got, ok := apperr.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRejected, got.Kind)

	_, ok = apperr.As(errors.New("boom"))
	assert.False(t, ok)
}

func TestError_IsDistinguishesKinds(t *testing.T) {
	a := apperr.Validation("group is required")
	b := apperr.NotFound("group is required")

	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, apperr.Validation("group is required")))
}
