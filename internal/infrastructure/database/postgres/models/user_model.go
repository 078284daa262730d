package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleModel struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (RoleModel) TableName() string {
	return "roles"
}

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	FirstName      string     `gorm:"type:varchar(150);not null"`
	LastName       string     `gorm:"type:varchar(150);not null"`
	Phone          *string    `gorm:"type:varchar(20)"`
	RoleID         *int       `gorm:"index"`
	Role           *RoleModel `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL"`
	IsActive       bool       `gorm:"not null"`
	IsVerified     bool       `gorm:"not null"`
	LastLoginAt    *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// AccessTokenModel holds at most one row per user; user_id is unique.
type AccessTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	KeyHash   string     `gorm:"type:char(64);not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (AccessTokenModel) TableName() string {
	return "access_tokens"
}

// PasswordResetTokenModel represents the database model for PasswordResetToken
type PasswordResetTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_reset_user_token"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TokenHash string     `gorm:"type:char(64);not null;index:idx_reset_user_token"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
