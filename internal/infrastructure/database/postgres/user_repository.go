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
)

// UserRepository implements domainUser.UserRepository
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	dbModel := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domainUser.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) exists(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.UserModel{}).Where(column+" = ?", value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *UserRepository) List(ctx context.Context, filter domainUser.ListFilter) ([]*domainUser.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.Role != nil {
		if *filter.Role == domainUser.RoleRegularUser {
			q = q.Where("role_id = ? OR role_id IS NULL", int(*filter.Role))
		} else {
			q = q.Where("role_id = ?", int(*filter.Role))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var dbModels []models.UserModel
	q = q.Order("created_at ASC, id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now()

	var roleID *int
	if u.RoleID != nil {
		id := int(*u.RoleID)
		roleID = &id
	}

	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"username":    u.Username,
			"email":       u.Email,
			"first_name":  u.FirstName,
			"last_name":   u.LastName,
			"phone":       u.Phone,
			"role_id":     roleID,
			"is_active":   u.IsActive,
			"is_verified": u.IsVerified,
			"updated_at":  u.UpdatedAt,
		})

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed": passwordHash,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", at)

	if result.Error != nil {
		return fmt.Errorf("failed to record login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for profiles and tokens.
func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}
