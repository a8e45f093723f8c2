package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, ttl time.Duration) (*ResetTokenStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResetTokenStore(client, ttl), mr
}

func TestResetTokenStore_SaveAndConsumeOnce(t *testing.T) {
	store, mr := setupStore(t, time.Hour)
	ctx := context.Background()
	account := uuid.New()

	require.NoError(t, store.Save(ctx, "raw-token", account))
	assert.False(t, mr.Exists("pwreset:raw-token"), "raw token must not be used as key")

	got, err := store.Consume(ctx, "raw-token")
	require.NoError(t, err)
	assert.Equal(t, account, got)

	_, err = store.Consume(ctx, "raw-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResetTokenStore_Expires(t *testing.T) {
	store, mr := setupStore(t, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok", uuid.New()))
	mr.FastForward(11 * time.Minute)

	_, err := store.Consume(ctx, "tok")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResetTokenStore_NilClient(t *testing.T) {
	var store *ResetTokenStore
	assert.ErrorIs(t, store.Save(context.Background(), "x", uuid.New()), ErrCacheNotAvailable)
	_, err := store.Consume(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCacheNotAvailable)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}
