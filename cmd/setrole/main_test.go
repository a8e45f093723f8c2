package main

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	profiles := repository.NewProfileRepository(testutils.SetupSQLite(t))
	ctx := context.Background()
	uid := uuid.New()
	_, err := profiles.Create(ctx, uid, "janitor@campus.edu", models.RolePerson)
	require.NoError(t, err)

	require.NoError(t, run(ctx, profiles, " Janitor@Campus.edu ", models.RoleCleaner))
	got, err := profiles.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCleaner, got.Role)

	assert.ErrorIs(t, run(ctx, profiles, "ghost@campus.edu", models.RoleCleaner), repository.ErrProfileNotFound)
	assert.True(t, apperr.IsValidation(run(ctx, profiles, "janitor@campus.edu", models.Role("admin"))))
}
