package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpaqueScheme keeps at most one live token per user. Expired tokens are
// evicted when a request presents them.
type OpaqueScheme struct {
	tokens domainUser.TokenRepository
	users  domainUser.UserRepository
	ttl    time.Duration
	now    func() time.Time
}

func NewOpaqueScheme(tokens domainUser.TokenRepository, users domainUser.UserRepository, ttl time.Duration, opts ...Option) *OpaqueScheme {
	o := buildOptions(opts)
	return &OpaqueScheme{
		tokens: tokens,
		users:  users,
		ttl:    ttl,
		now:    o.now,
	}
}

func (s *OpaqueScheme) Keyword() string {
	return KeywordOpaque
}

func (s *OpaqueScheme) Issue(ctx context.Context, u *domainUser.User) (*Credential, error) {
	key, err := utils.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token key: %w", err)
	}

	now := s.now()
	record := &domainUser.AccessToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		KeyHash:   utils.HashToken(key),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.tokens.Replace(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	logger.Debug("Opaque token issued",
		zap.String("user_id", u.ID.String()),
		zap.String("token_id", record.ID.String()),
		zap.Time("expires_at", record.ExpiresAt),
		zap.String("event", "token_issued"),
	)

	return &Credential{Token: key, ExpiresAt: record.ExpiresAt}, nil
}

func (s *OpaqueScheme) Resolve(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, appErrors.ErrTokenInvalid
	}

	keyHash := utils.HashToken(raw)
	record, err := s.tokens.GetByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, domainUser.ErrTokenNotFound) {
			return nil, appErrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if record.Expired(s.now()) {
		// A concurrent request may have evicted it already; the delete is idempotent.
		if err := s.tokens.DeleteByKeyHash(ctx, keyHash); err != nil {
			logger.Error("Failed to evict expired token",
				zap.String("token_id", record.ID.String()),
				zap.Error(err),
			)
		}
		logger.Info("Expired token evicted",
			zap.String("user_id", record.UserID.String()),
			zap.String("token_id", record.ID.String()),
			zap.String("event", "token_expired_evicted"),
		)
		return nil, appErrors.ErrTokenExpired
	}

	u, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserInactive
		}
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if !u.IsActive {
		logger.Warn("Token presented for inactive user",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "token_rejected_inactive_user"),
		)
		return nil, appErrors.ErrUserInactive
	}

	return &Principal{
		User:      u,
		Token:     raw,
		TokenID:   record.ID.String(),
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *OpaqueScheme) Revoke(ctx context.Context, p *Principal) error {
	if err := s.tokens.DeleteByKeyHash(ctx, utils.HashToken(p.Token)); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
