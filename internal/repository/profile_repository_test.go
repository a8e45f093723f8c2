package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/testutils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_CreateDefaultsToPerson(t *testing.T) {
	repo := NewProfileRepository(testutils.SetupSQLite(t))
	ctx := context.Background()
	uid := uuid.New()

	created, err := repo.Create(ctx, uid, "student@campus.edu", "")
	require.NoError(t, err)
	assert.Equal(t, models.RolePerson, created.Role)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "student@campus.edu", got.Email)
	assert.Equal(t, models.RolePerson, got.Role)
}

func TestProfileRepository_CreateTwiceFails(t *testing.T) {
	repo := NewProfileRepository(testutils.SetupSQLite(t))
	ctx := context.Background()
	uid := uuid.New()

	_, err := repo.Create(ctx, uid, "a@campus.edu", models.RolePerson)
	require.NoError(t, err)

	_, err = repo.Create(ctx, uid, "a@campus.edu", models.RoleCleaner)
	assert.ErrorIs(t, err, ErrProfileExists)

	got, err := repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RolePerson, got.Role)
}

func TestProfileRepository_CreateLosingRaceIsProfileExists(t *testing.T) {
	db, mock := testutils.SetupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), uuid.New(), "student@campus.edu", models.RoleCleaner)
	assert.ErrorIs(t, err, ErrProfileExists)
	assert.False(t, apperr.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_CreateRejectsUnknownRole(t *testing.T) {
	repo := NewProfileRepository(testutils.SetupSQLite(t))
	_, err := repo.Create(context.Background(), uuid.New(), "a@campus.edu", models.Role("janitor"))
	assert.True(t, apperr.IsValidation(err))
}

func TestProfileRepository_GetMissing(t *testing.T) {
	repo := NewProfileRepository(testutils.SetupSQLite(t))
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_ListAndSetRole(t *testing.T) {
	repo := NewProfileRepository(testutils.SetupSQLite(t))
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	_, err := repo.Create(ctx, first, "one@campus.edu", models.RolePerson)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second, "two@campus.edu", models.RolePerson)
	require.NoError(t, err)

	require.NoError(t, repo.SetRole(ctx, second, models.RoleCleaner))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	roles := map[uuid.UUID]models.Role{}
	for _, p := range all {
		roles[p.UID] = p.Role
	}
	assert.Equal(t, models.RolePerson, roles[first])
	assert.Equal(t, models.RoleCleaner, roles[second])

	assert.ErrorIs(t, repo.SetRole(ctx, uuid.New(), models.RoleCleaner), ErrProfileNotFound)
}
