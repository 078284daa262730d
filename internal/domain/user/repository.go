package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ListFilter struct {
	Role   *Role
	Offset int
	Limit  int
}

// UserRepository defines the interface for user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByUsername and ExistsByEmail ignore the row with excludeID; pass uuid.Nil to check all rows.
	ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile Profile) error
	Get(ctx context.Context, userID uuid.UUID, kind Role) (Profile, error)
	Update(ctx context.Context, profile Profile) error
	// Delete is a no-op when the profile does not exist.
	Delete(ctx context.Context, userID uuid.UUID, kind Role) error
	ListDrivers(ctx context.Context) ([]*Driver, error)
	FindDriverByVehicle(ctx context.Context, vehicleID string) (*Driver, error)
	ListSuppliers(ctx context.Context, active *bool) ([]*Supplier, error)
	CountSuppliers(ctx context.Context, active *bool) (int64, error)
}

// TokenRepository stores opaque access tokens.
type TokenRepository interface {
	// Replace atomically removes every token of token.UserID and stores token.
	Replace(ctx context.Context, token *AccessToken) error
	GetByKeyHash(ctx context.Context, keyHash string) (*AccessToken, error)
	// DeleteByKeyHash is idempotent.
	DeleteByKeyHash(ctx context.Context, keyHash string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredBefore(ctx context.Context, before time.Time) (int64, error)
}

type ResetTokenRepository interface {
	// ReplaceForUser purges prior reset tokens of token.UserID and stores token.
	ReplaceForUser(ctx context.Context, token *PasswordResetToken) error
	Find(ctx context.Context, userID uuid.UUID, tokenHash string) (*PasswordResetToken, error)
	// Consume deletes the token and returns ErrResetTokenNotFound if it was already gone.
	Consume(ctx context.Context, tokenID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Tokens() TokenRepository
	ResetTokens() ResetTokenRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
