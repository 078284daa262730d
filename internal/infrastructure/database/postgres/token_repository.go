package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	db *gorm.DB
}

// Replace locks the owning user row so concurrent logins for one user serialize
// on the delete+insert pair.
func (r *TokenRepository) Replace(ctx context.Context, token *domainUser.AccessToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.UserModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&owner, "id = ?", token.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainUser.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock token owner: %w", err)
		}

		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.AccessTokenModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous tokens: %w", err)
		}

		if err := tx.Create(toAccessTokenModel(token)).Error; err != nil {
			return fmt.Errorf("failed to create token: %w", err)
		}
		return nil
	})
}

func (r *TokenRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domainUser.AccessToken, error) {
	var dbModel models.AccessTokenModel
	err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return toAccessTokenEntity(&dbModel), nil
}

func (r *TokenRepository) DeleteByKeyHash(ctx context.Context, keyHash string) error {
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).Delete(&models.AccessTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AccessTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteExpiredBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.AccessTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type ResetTokenRepository struct {
	db *gorm.DB
}

func (r *ResetTokenRepository) ReplaceForUser(ctx context.Context, token *domainUser.PasswordResetToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.PasswordResetTokenModel{}).Error; err != nil {
			return fmt.Errorf("failed to purge reset tokens: %w", err)
		}
		if err := tx.Create(toResetTokenModel(token)).Error; err != nil {
			return fmt.Errorf("failed to create reset token: %w", err)
		}
		return nil
	})
}

func (r *ResetTokenRepository) Find(ctx context.Context, userID uuid.UUID, tokenHash string) (*domainUser.PasswordResetToken, error) {
	var dbModel models.PasswordResetTokenModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, tokenHash).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrResetTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return toResetTokenEntity(&dbModel), nil
}

// Consume reports ErrResetTokenNotFound when a concurrent confirmation won.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PasswordResetTokenModel{}, "id = ?", tokenID)
	if result.Error != nil {
		return fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrResetTokenNotFound
	}
	return nil
}

func (r *ResetTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PasswordResetTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.PasswordResetTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
