package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, Validation(MsgLastLine), ErrValidation)
	assert.Equal(t, MsgLastLine, Validation(MsgLastLine).Error())
	assert.NotErrorIs(t, Validation("x"), ErrMissingField)

	assert.ErrorIs(t, InvalidTaxRate(2, "igst_rate_bp"), ErrInvalidTaxRate)
	assert.ErrorIs(t, NotFound("invoice", "9"), ErrNotFound)

	conflict := error(&ConflictError{Expected: 3, Actual: 4})
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", conflict), ErrConflict)

	var c *ConflictError
	require.True(t, errors.As(conflict, &c))
	assert.Equal(t, int64(4), c.Actual)
}

func TestStorageWrapping(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage("insert invoice", cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert invoice")

	v := MissingField("shipment_id")
	assert.Same(t, v, Storage("x", v))
	assert.ErrorIs(t, Storage("x", context.Canceled), context.Canceled)
	assert.NotErrorIs(t, Storage("x", context.Canceled), ErrStorage)
	assert.NoError(t, Storage("x", nil))
}
