package postgres

import (
	"context"

	domainUser "logistics-auth-service/internal/domain/user"

	"gorm.io/gorm"
)

// Store implements domainUser.Store on gorm. Inside WithinTx every repository
// shares the transaction handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db.DB}
}

func (s *Store) Users() domainUser.UserRepository {
	return &UserRepository{db: s.db}
}

func (s *Store) Profiles() domainUser.ProfileRepository {
	return &ProfileRepository{db: s.db}
}

func (s *Store) Tokens() domainUser.TokenRepository {
	return &TokenRepository{db: s.db}
}

func (s *Store) ResetTokens() domainUser.ResetTokenRepository {
	return &ResetTokenRepository{db: s.db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx domainUser.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
