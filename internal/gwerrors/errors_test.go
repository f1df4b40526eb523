package gwerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorUnwrapsToKindSentinel(t *testing.T) {
	err := fmt.Errorf("loading links: %w", NewAPIError(KindUnauthorized, 401, "Token is invalid", nil))

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.NotErrorIs(t, err, ErrServer)
	assert.Equal(t, "loading links: Token is invalid", err.Error())
	assert.True(t, IsAuthFailure(err))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUnauthorized, kind)
}

func TestAPIErrorKeepsCause(t *testing.T) {
	err := NewAPIError(KindTimeout, 0, "request timed out", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsAuthFailure(err))
}

func TestAPIErrorNotFound(t *testing.T) {
	err := NewAPIError(KindValidation, 404, "Not found.", nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}
