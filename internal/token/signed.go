package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Claims struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	RoleID      int       `json:"role_id"`
	VehicleID   string    `json:"vehicle_id,omitempty"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	jwt.RegisteredClaims
}

// SignedScheme issues HS256 tokens. Nothing is stored at issue time; logout
// puts the token id on the denylist for its remaining lifetime.
type SignedScheme struct {
	secret   []byte
	users    domainUser.UserRepository
	profiles domainUser.ProfileRepository
	denylist Denylist
	ttl      time.Duration
	now      func() time.Time
}

func NewSignedScheme(
	secret string,
	users domainUser.UserRepository,
	profiles domainUser.ProfileRepository,
	denylist Denylist,
	ttl time.Duration,
	opts ...Option,
) *SignedScheme {
	o := buildOptions(opts)
	return &SignedScheme{
		secret:   []byte(secret),
		users:    users,
		profiles: profiles,
		denylist: denylist,
		ttl:      ttl,
		now:      o.now,
	}
}

func (s *SignedScheme) Keyword() string {
	return KeywordSigned
}

func (s *SignedScheme) Issue(ctx context.Context, u *domainUser.User) (*Credential, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		RoleID:   int(u.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	if err := s.addRoleClaims(ctx, u, claims); err != nil {
		return nil, err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Credential{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *SignedScheme) addRoleClaims(ctx context.Context, u *domainUser.User, claims *Claims) error {
	role := u.Role()
	if role != domainUser.RoleDriver && role != domainUser.RoleWarehouseManager {
		return nil
	}

	profile, err := s.profiles.Get(ctx, u.ID, role)
	if err != nil {
		if errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load role profile: %w", err)
	}

	switch p := profile.(type) {
	case *domainUser.Driver:
		claims.VehicleID = p.VehicleID
	case *domainUser.WarehouseManager:
		claims.WarehouseID = p.WarehouseID
	}
	return nil
}

func (s *SignedScheme) Resolve(ctx context.Context, raw string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.ErrTokenExpired
		}
		logger.Debug("Signed token rejected",
			zap.String("event", "token_rejected_invalid"),
			zap.Error(err),
		)
		return nil, appErrors.ErrTokenInvalid
	}

	if claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, appErrors.Internal("Internal server error", fmt.Errorf("denylist lookup: %w", err))
		}
		if revoked {
			return nil, appErrors.ErrTokenRevoked
		}
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrTokenUserNotFound
		}
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if !u.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	return &Principal{
		User:      u,
		Token:     raw,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *SignedScheme) Revoke(ctx context.Context, p *Principal) error {
	if p.TokenID == "" {
		return nil
	}
	remaining := p.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, p.TokenID, remaining); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
