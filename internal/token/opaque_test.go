package token

import (
	"context"
	"sync"
	"testing"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/memory"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func createUser(t *testing.T, store *memory.Store, role domainUser.Role) *domainUser.User {
	t.Helper()

	u := &domainUser.User{
		ID:       uuid.New(),
		Username: "user-" + uuid.NewString()[:8],
		IsActive: true,
	}
	u.Email = u.Username + "@example.com"
	u.SetRole(role)
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestOpaqueIssueKeepsSingleLiveToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), 7*24*time.Hour)
	u := createUser(t, store, domainUser.RoleRegularUser)

	var creds []*Credential
	for i := 0; i < 5; i++ {
		cred, err := scheme.Issue(ctx, u)
		require.NoError(t, err)
		creds = append(creds, cred)
	}

	assert.Equal(t, 1, store.TokenCount(u.ID))

	latest := creds[len(creds)-1]
	p, err := scheme.Resolve(ctx, latest.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.User.ID)
	assert.Equal(t, latest.Token, p.Token)

	for _, old := range creds[:len(creds)-1] {
		_, err := scheme.Resolve(ctx, old.Token)
		assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
	}
}

func TestOpaqueConcurrentIssueLeavesOneToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Hour)
	u := createUser(t, store, domainUser.RoleRegularUser)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := scheme.Issue(ctx, u)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.TokenCount(u.ID))
}

func TestOpaqueTokenExpiryIsSevenDaysAhead(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), 7*24*time.Hour, WithClock(clock.Now))
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, clock.Now().Add(7*24*time.Hour), cred.ExpiresAt)
}

func TestOpaqueExpiredTokenIsRejectedAndDeleted(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Hour, WithClock(clock.Now))
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)

	_, err = store.Tokens().GetByKeyHash(ctx, utils.HashToken(cred.Token))
	assert.ErrorIs(t, err, domainUser.ErrTokenNotFound)
	assert.Equal(t, 0, store.TokenCount(u.ID))
}

func TestOpaqueConcurrentExpiredReadsRejectCleanly(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Minute, WithClock(clock.Now))
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := scheme.Resolve(ctx, cred.Token)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		var appErr *appErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.CodeAuthentication, appErr.Code)
		assert.True(t, err == appErrors.ErrTokenExpired || err == appErrors.ErrTokenInvalid)
	}
	assert.Equal(t, 0, store.TokenCount(u.ID))
}

func TestOpaqueInactiveUserIsRejectedAsInactive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Hour)
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)

	u.IsActive = false
	require.NoError(t, store.Users().Update(ctx, u))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrUserInactive)
}

func TestOpaqueUnknownTokenIsInvalid(t *testing.T) {
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Hour)

	_, err := scheme.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	_, err = scheme.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestOpaqueRevokeDeletesToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	scheme := NewOpaqueScheme(store.Tokens(), store.Users(), time.Hour)
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	p, err := scheme.Resolve(ctx, cred.Token)
	require.NoError(t, err)

	require.NoError(t, scheme.Revoke(ctx, p))
	require.NoError(t, scheme.Revoke(ctx, p))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}
