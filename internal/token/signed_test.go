package token

import (
	"context"
	"testing"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/memory"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-enough-entropy"

func newSignedFixture(t *testing.T) (*SignedScheme, *memory.Store, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	store := memory.NewStore()
	denylist := memory.NewDenylist().WithClock(clock.Now)
	scheme := NewSignedScheme(testSecret, store.Users(), store.Profiles(), denylist, time.Hour, WithClock(clock.Now))
	return scheme, store, clock
}

func TestSignedIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	scheme, store, _ := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleVendor)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, KeywordSigned, scheme.Keyword())

	p, err := scheme.Resolve(ctx, cred.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.User.ID)
	assert.NotEmpty(t, p.TokenID)
	assert.Equal(t, cred.ExpiresAt.Unix(), p.ExpiresAt.Unix())
}

func TestSignedExpiredToken(t *testing.T) {
	ctx := context.Background()
	scheme, store, clock := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)
}

func TestSignedRejectsOtherAlgorithms(t *testing.T) {
	ctx := context.Background()
	scheme, store, clock := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleRegularUser)

	claims := &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = scheme.Resolve(ctx, hs512)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = scheme.Resolve(ctx, none)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestSignedRejectsTamperedAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	scheme, store, clock := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)

	tampered := cred.Token[:len(cred.Token)-2] + "xx"
	_, err = scheme.Resolve(ctx, tampered)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	foreign := NewSignedScheme("another-secret", store.Users(), store.Profiles(), memory.NewDenylist(), time.Hour, WithClock(clock.Now))
	other, err := foreign.Issue(ctx, u)
	require.NoError(t, err)
	_, err = scheme.Resolve(ctx, other.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	_, err = scheme.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestSignedRequiresExpiry(t *testing.T) {
	ctx := context.Background()
	scheme, store, _ := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleRegularUser)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: u.ID}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = scheme.Resolve(ctx, raw)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestSignedOwnerChecks(t *testing.T) {
	ctx := context.Background()
	scheme, store, _ := newSignedFixture(t)

	deleted := createUser(t, store, domainUser.RoleRegularUser)
	cred, err := scheme.Issue(ctx, deleted)
	require.NoError(t, err)
	require.NoError(t, store.Users().Delete(ctx, deleted.ID))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenUserNotFound)

	inactive := createUser(t, store, domainUser.RoleRegularUser)
	cred, err = scheme.Issue(ctx, inactive)
	require.NoError(t, err)
	inactive.IsActive = false
	require.NoError(t, store.Users().Update(ctx, inactive))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrUserInactive)
}

func TestSignedRevokeUsesDenylist(t *testing.T) {
	ctx := context.Background()
	scheme, store, clock := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleRegularUser)

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	p, err := scheme.Resolve(ctx, cred.Token)
	require.NoError(t, err)

	require.NoError(t, scheme.Revoke(ctx, p))

	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenRevoked)

	other, err := scheme.Issue(ctx, u)
	require.NoError(t, err)
	_, err = scheme.Resolve(ctx, other.Token)
	assert.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = scheme.Resolve(ctx, cred.Token)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)
}

func TestSignedDriverClaimsCarryVehicle(t *testing.T) {
	ctx := context.Background()
	scheme, store, _ := newSignedFixture(t)
	u := createUser(t, store, domainUser.RoleDriver)
	require.NoError(t, store.Profiles().Create(ctx, &domainUser.Driver{
		UserID:        u.ID,
		LicenseNumber: "DL-1",
		VehicleType:   "truck",
		VehicleID:     "TRUCK-42",
	}))

	cred, err := scheme.Issue(ctx, u)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(cred.Token, claims)
	require.NoError(t, err)
	assert.Equal(t, "TRUCK-42", claims.VehicleID)
	assert.Equal(t, int(domainUser.RoleDriver), claims.RoleID)
	assert.Equal(t, u.Username, claims.Username)
}
