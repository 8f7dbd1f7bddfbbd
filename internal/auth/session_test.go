package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-service/internal/domain"
)

func newTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Hour, zap.NewNop()), mr
}

func TestRevokeAndCheck(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	assert.False(t, store.IsRevoked(ctx, "some-token"))

	err := store.Revoke(ctx, "some-token", time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, store.IsRevoked(ctx, "some-token"))
	assert.False(t, store.IsRevoked(ctx, "other-token"))
}

func TestRevokeAlreadyExpiredTokenIsNoop(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	err := store.Revoke(ctx, "dead-token", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	assert.False(t, store.IsRevoked(ctx, "dead-token"))
}

func TestRevocationEntryExpiresWithToken(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok", time.Now().Add(30*time.Second)))
	assert.True(t, store.IsRevoked(ctx, "tok"))

	mr.FastForward(time.Minute)
	assert.False(t, store.IsRevoked(ctx, "tok"))
}

func TestIdentityCacheRoundTrip(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()
	clinicID := "clinic-1"
	identity := &domain.Identity{
		ID:       "user-1",
		Username: "doc",
		Email:    "doc@example.com",
		Role:     domain.RoleDoctor,
		ClinicID: &clinicID,
		Active:   true,
	}

	assert.Nil(t, store.CachedIdentity(ctx, "user-1"))

	store.CacheIdentity(ctx, identity)
	cached := store.CachedIdentity(ctx, "user-1")
	require.NotNil(t, cached)
	assert.Equal(t, identity.Email, cached.Email)
	assert.Equal(t, identity.Role, cached.Role)

	store.InvalidateIdentity(ctx, "user-1")
	assert.Nil(t, store.CachedIdentity(ctx, "user-1"))
}

func TestNilClientDegradesGracefully(t *testing.T) {
	store := NewSessionStore(nil, time.Hour, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, store.Revoke(ctx, "tok", time.Now().Add(time.Hour)))
	assert.False(t, store.IsRevoked(ctx, "tok"))
	store.CacheIdentity(ctx, &domain.Identity{ID: "u1"})
	assert.Nil(t, store.CachedIdentity(ctx, "u1"))
}

func TestRedisDownMeansNotRevoked(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok", time.Now().Add(time.Hour)))
	mr.Close()

	// availability wins over lockout when the store is unreachable
	assert.False(t, store.IsRevoked(ctx, "tok"))
}
