package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistence_NilPassesThrough(t *testing.T) {
	assert.NoError(t, Persistence("add report", nil))
}

func TestPersistence_WrapsAndUnwraps(t *testing.T) {
	err := Persistence("update status", ErrPermissionDenied)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "update status: permission denied", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsPersistence(wrapped))
}

func TestAuthError_MessagePassthrough(t *testing.T) {
	base := errors.New("email already registered")
	err := NewAuthError(base)

	assert.True(t, IsAuth(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "email already registered", err.Error())
}

func TestValidationError_JoinsFieldMessages(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "location", Message: "location is required"},
		{Field: "description", Message: "description is required"},
	}}

	assert.True(t, IsValidation(err))
	assert.Equal(t, "location is required; description is required", err.Error())
	assert.False(t, IsValidation(errors.New("other")))
}
