package cache

import (
	"context"
	"testing"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/memory"
	"logistics-auth-service/internal/token"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDenylist(t *testing.T) (*RedisDenylist, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDenylist(client), mr
}

func TestRedisDenylistRevokeAndExpire(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newTestDenylist(t)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Minute, mr.TTL(denylistPrefix+"jti-1"))

	mr.FastForward(time.Minute + time.Second)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisDenylistSkipsSpentTokens(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newTestDenylist(t)

	require.NoError(t, denylist.Revoke(ctx, "jti-2", 0))
	require.NoError(t, denylist.Revoke(ctx, "jti-3", -time.Second))
	assert.Empty(t, mr.Keys())
}

func TestRedisDenylistReportsConnectionErrors(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newTestDenylist(t)
	mr.Close()

	_, err := denylist.IsRevoked(ctx, "jti-4")
	assert.Error(t, err)
	assert.Error(t, denylist.Revoke(ctx, "jti-4", time.Minute))
}

func TestSignedLogoutThroughRedis(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newTestDenylist(t)
	store := memory.NewStore()
	scheme := token.NewSignedScheme("test-secret-key-with-enough-entropy", store.Users(), store.Profiles(), denylist, time.Hour)

	u := &domainUser.User{ID: uuid.New(), Username: "rider", Email: "rider@example.com", IsActive: true}
	u.SetRole(domainUser.RoleRegularUser)
	require.NoError(t, store.Users().Create(ctx, u))

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	p, err := scheme.Resolve(ctx, cred.Token)
	require.NoError(t, err)

	require.NoError(t, scheme.Revoke(ctx, p))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenRevoked)

	ttl := mr.TTL(denylistPrefix + p.TokenID)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}
