package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"logistics-auth-service/internal/domain/mail"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resetMailSubject = "Password Reset Request"

func (s *Service) ChangePassword(ctx context.Context, actor *domainUser.User, req *ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return appErrors.Validation("Please provide both old and new passwords", nil)
	}

	u, err := s.store.Users().GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change with incorrect old password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_change_failed"),
		)
		return appErrors.ErrIncorrectOldPassword
	}
	if !utils.IsStrongPassword(req.NewPassword) {
		return appErrors.ErrWeakPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.Users().UpdatePassword(ctx, u.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info("Password changed",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_changed"),
	)
	return nil
}

// RequestPasswordReset issues a reset link when email belongs to an active
// user. The caller cannot tell whether it did.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ResetRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return appErrors.Validation("Please provide email address", nil)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for unknown email",
				zap.String("event", "password_reset_unknown_email"),
			)
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.IsActive {
		logger.Info("Password reset requested for inactive user",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_reset_inactive_user"),
		)
		return nil
	}

	raw, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &domainUser.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: utils.HashToken(raw),
		CreatedAt: s.now(),
	}
	if err := s.store.ResetTokens().ReplaceForUser(ctx, reset); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	logger.Info("Password reset requested",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_reset_requested"),
	)

	s.deliverResetMail(ctx, u, s.resetLink(u.ID, raw))
	return nil
}

func (s *Service) resetLink(userID uuid.UUID, raw string) string {
	base := strings.TrimRight(s.config.Reset.FrontendURL, "/")
	return fmt.Sprintf("%s/reset-password/%s/%s/", base, utils.EncodeUID(userID), raw)
}

// deliverResetMail sends in the background. Failures are logged only.
func (s *Service) deliverResetMail(ctx context.Context, u *domainUser.User, link string) {
	if s.mailer == nil {
		return
	}

	msg := mail.Message{
		Subject: resetMailSubject,
		Body: fmt.Sprintf(
			"Hello %s,\n\nClick the link below to reset your password:\n%s\n\nThe link is valid for %s. If you did not request a reset, ignore this email.\n",
			u.Username, link, s.config.Reset.TTL,
		),
		From: s.config.Reset.FromEmail,
		To:   u.Email,
	}

	mailCtx := context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.mailer.Send(mailCtx, msg); err != nil {
			logger.Error("Failed to send password reset email",
				zap.String("user_id", u.ID.String()),
				zap.String("event", "password_reset_mail_failed"),
				zap.Error(err),
			)
			return
		}
		logger.Info("Password reset email sent",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_reset_mail_sent"),
		)
	}()
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, uidb64, raw string, req *ResetConfirmRequest) error {
	userID, err := utils.DecodeUID(uidb64)
	if err != nil {
		return appErrors.ErrResetLinkInvalid
	}

	reset, err := s.store.ResetTokens().Find(ctx, userID, utils.HashToken(raw))
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenNotFound) {
			return appErrors.ErrResetLinkInvalid
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if !reset.IsValid(s.now(), s.config.Reset.TTL) {
		logger.Warn("Expired password reset token presented",
			zap.String("user_id", userID.String()),
			zap.String("event", "password_reset_expired"),
		)
		return appErrors.ErrResetLinkInvalid
	}

	if req.NewPassword == "" {
		return appErrors.Validation("Please provide a new password", nil)
	}
	if !utils.IsStrongPassword(req.NewPassword) {
		return appErrors.ErrWeakPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		if err := tx.ResetTokens().Consume(ctx, reset.ID); err != nil {
			if errors.Is(err, domainUser.ErrResetTokenNotFound) {
				return appErrors.ErrResetLinkInvalid
			}
			return err
		}
		if err := tx.Users().UpdatePassword(ctx, userID, hashed); err != nil {
			return err
		}
		return tx.Tokens().DeleteByUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("user_id", userID.String()),
		zap.String("event", "password_reset_completed"),
	)
	return nil
}
