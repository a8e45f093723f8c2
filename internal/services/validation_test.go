package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(&dto.CreateReportRequest{Location: "", Description: ""})
	require.Error(t, err)

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "location", verr.Fields[0].Field)
	assert.Equal(t, "location is required", verr.Fields[0].Message)
	assert.Equal(t, "description", verr.Fields[1].Field)
}

func TestValidator_OneOfAndEmail(t *testing.T) {
	v := NewValidator()

	err := v.Struct(&dto.SetRoleRequest{Role: "janitor"})
	assert.EqualError(t, err, "role must be one of: person, cleaner")

	err = v.Struct(&dto.PasswordResetRequest{Email: "not-an-email"})
	assert.EqualError(t, err, "email must be a valid email address")

	assert.NoError(t, v.Struct(&dto.SetRoleRequest{Role: "cleaner"}))
}

func TestValidator_FormTagName(t *testing.T) {
	err := NewValidator().Struct(&dto.CreateIssueRequest{})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "description", verr.Fields[0].Field)
}
