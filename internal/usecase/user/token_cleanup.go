package user

import (
	"context"
	"time"

	"logistics-auth-service/internal/logger"

	"go.uber.org/zap"
)

// StartTokenCleanupJob periodically removes opaque and reset tokens that
// expired more than the retention window ago. Validation never depends on it.
func (s *Service) StartTokenCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Token cleanup job started",
		zap.Duration("interval", interval),
	)

	s.CleanupExpiredTokens(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup job stopped")
			return
		case <-ticker.C:
			s.CleanupExpiredTokens(ctx)
		}
	}
}

func (s *Service) CleanupExpiredTokens(ctx context.Context) {
	retain := s.config.Auth.CleanupRetain
	now := s.now()

	tokens, err := s.store.Tokens().DeleteExpiredBefore(ctx, now.Add(-retain))
	if err != nil {
		logger.Error("Failed to delete expired tokens", zap.Error(err))
		return
	}

	resets, err := s.store.ResetTokens().DeleteCreatedBefore(ctx, now.Add(-s.config.Reset.TTL-retain))
	if err != nil {
		logger.Error("Failed to delete expired reset tokens", zap.Error(err))
		return
	}

	logger.Debug("Expired tokens cleaned up successfully",
		zap.Int64("tokens", tokens),
		zap.Int64("reset_tokens", resets),
		zap.Duration("retain", retain),
	)
}
