package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record. RoleID may be nil for accounts created without
// a role; those behave as RoleRegularUser.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHashed string
	FirstName      string
	LastName       string
	Phone          *string
	RoleID         *Role
	IsActive       bool
	IsVerified     bool
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) Role() Role {
	if u.RoleID == nil || !u.RoleID.Valid() {
		return RoleRegularUser
	}
	return *u.RoleID
}

func (u *User) IsAdmin() bool {
	return u.Role() == RoleAdmin
}

func (u *User) SetRole(r Role) {
	u.RoleID = &r
}

// AccessToken is an opaque credential. Only the SHA-256 of the key is stored.
type AccessToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	KeyHash   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// PasswordResetToken is valid for a fixed window measured from CreatedAt.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
}

func (t *PasswordResetToken) IsValid(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) < ttl
}
