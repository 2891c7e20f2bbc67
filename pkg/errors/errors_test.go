package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewValidationError("bad input", nil)
	assert.Equal(t, "bad input", err.Error())

	wrapped := NewInternalError("query failed", fmt.Errorf("disk full"), nil)
	assert.Equal(t, "query failed: disk full", wrapped.Error())
}

func TestIsType(t *testing.T) {
	err := NewNotFoundError("missing", nil)
	assert.True(t, IsType(err, NotFoundError))
	assert.False(t, IsType(err, ValidationError))
	assert.False(t, IsType(fmt.Errorf("plain"), NotFoundError))
	assert.False(t, IsType(nil, NotFoundError))

	// Wrapped AppErrors are still recognized.
	outer := fmt.Errorf("context: %w", NewConfigurationError("no key", nil))
	assert.True(t, IsType(outer, ConfigurationError))
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewForbiddenError("nope"))
	assert.True(t, ok)
	assert.Equal(t, ForbiddenError, appErr.Type)

	_, ok = AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewInternalError("wrapper", cause, nil)
	assert.Equal(t, cause, err.Unwrap())
}
