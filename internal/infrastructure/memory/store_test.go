package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username string, role domainUser.Role) *domainUser.User {
	u := &domainUser.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	u.SetRole(role)
	return u
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser("rollback", domainUser.RoleSupplier)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx domainUser.Store) error {
		require.NoError(t, tx.Users().Create(ctx, u))
		require.NoError(t, tx.Profiles().Create(ctx, &domainUser.Supplier{UserID: u.ID, CompanyName: "Acme", Code: "SUP-1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Users().GetByUsername(ctx, "rollback")
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
	_, err = store.Profiles().Get(ctx, u.ID, domainUser.RoleSupplier)
	assert.ErrorIs(t, err, domainUser.ErrProfileNotFound)
}

func TestWithinTxCommitsAndNests(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser("nested", domainUser.RoleRegularUser)

	err := store.WithinTx(ctx, func(tx domainUser.Store) error {
		return tx.WithinTx(ctx, func(inner domainUser.Store) error {
			return inner.Users().Create(ctx, u)
		})
	})
	require.NoError(t, err)

	got, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "nested", got.Username)
}

func TestWithinTxRestoresOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser("panicky", domainUser.RoleRegularUser)

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(tx domainUser.Store) error {
			_ = tx.Users().Create(ctx, u)
			panic("boom")
		})
	})

	_, err := store.Users().GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Users().Create(ctx, newUser("alice", domainUser.RoleRegularUser)))

	dup := newUser("alice", domainUser.RoleRegularUser)
	assert.ErrorIs(t, store.Users().Create(ctx, dup), domainUser.ErrUserAlreadyExists)

	exists, err := store.Users().ExistsByEmail(ctx, "alice@example.com", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser("driver", domainUser.RoleDriver)
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, store.Profiles().Create(ctx, &domainUser.Driver{UserID: u.ID, VehicleID: "V-1"}))
	require.NoError(t, store.Tokens().Replace(ctx, &domainUser.AccessToken{ID: uuid.New(), UserID: u.ID, KeyHash: "h", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.ResetTokens().ReplaceForUser(ctx, &domainUser.PasswordResetToken{UserID: u.ID, TokenHash: "r", CreatedAt: time.Now()}))

	require.NoError(t, store.Users().Delete(ctx, u.ID))

	_, err := store.Profiles().Get(ctx, u.ID, domainUser.RoleDriver)
	assert.ErrorIs(t, err, domainUser.ErrProfileNotFound)
	assert.Equal(t, 0, store.TokenCount(u.ID))
	assert.Equal(t, 0, store.ResetTokenCount(u.ID))
	assert.ErrorIs(t, store.Users().Delete(ctx, u.ID), domainUser.ErrUserNotFound)
}

func TestListPaginatesAndFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d"} {
		role := domainUser.RoleRegularUser
		if i%2 == 0 {
			role = domainUser.RoleVendor
		}
		u := newUser(name, role)
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Users().Create(ctx, u))
	}

	page, total, err := store.Users().List(ctx, domainUser.ListFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Username)
	assert.Equal(t, "c", page[1].Username)

	vendor := domainUser.RoleVendor
	page, total, err = store.Users().List(ctx, domainUser.ListFilter{Role: &vendor, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 2)

	page, _, err = store.Users().List(ctx, domainUser.ListFilter{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, _, err = store.Users().List(ctx, domainUser.ListFilter{Offset: -10, Limit: math.MaxInt})
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, "a", page[0].Username)
}

func TestResetTokenConsumeIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	u := newUser("reset", domainUser.RoleRegularUser)
	require.NoError(t, store.Users().Create(ctx, u))

	first := &domainUser.PasswordResetToken{UserID: u.ID, TokenHash: "one", CreatedAt: time.Now()}
	require.NoError(t, store.ResetTokens().ReplaceForUser(ctx, first))
	second := &domainUser.PasswordResetToken{UserID: u.ID, TokenHash: "two", CreatedAt: time.Now()}
	require.NoError(t, store.ResetTokens().ReplaceForUser(ctx, second))
	assert.Equal(t, 1, store.ResetTokenCount(u.ID))

	_, err := store.ResetTokens().Find(ctx, u.ID, "one")
	assert.ErrorIs(t, err, domainUser.ErrResetTokenNotFound)

	found, err := store.ResetTokens().Find(ctx, u.ID, "two")
	require.NoError(t, err)
	require.NoError(t, store.ResetTokens().Consume(ctx, found.ID))
	assert.ErrorIs(t, store.ResetTokens().Consume(ctx, found.ID), domainUser.ErrResetTokenNotFound)
}

func TestDenylistExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDenylist().WithClock(func() time.Time { return now })

	require.NoError(t, d.Revoke(ctx, "jti", time.Minute))
	revoked, err := d.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
