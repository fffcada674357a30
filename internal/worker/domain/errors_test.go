package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryableError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewRetryableError(cause)

	assert.Equal(t, "retryable error: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))
	assert.True(t, IsRetryable(fmt.Errorf("failed to record event: %w", err)))
	assert.False(t, IsRetryable(cause))
	assert.False(t, IsRetryable(nil))
}
