package memory

import (
	"context"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
)

type tokenRepository struct {
	s *Store
}

func (r *tokenRepository) Replace(ctx context.Context, token *domainUser.AccessToken) error {
	defer r.s.lock()()

	for hash, t := range r.s.st.tokens {
		if t.UserID == token.UserID {
			delete(r.s.st.tokens, hash)
		}
	}
	r.s.st.tokens[token.KeyHash] = *token
	return nil
}

func (r *tokenRepository) GetByKeyHash(ctx context.Context, keyHash string) (*domainUser.AccessToken, error) {
	defer r.s.lock()()

	t, ok := r.s.st.tokens[keyHash]
	if !ok {
		return nil, domainUser.ErrTokenNotFound
	}
	return &t, nil
}

func (r *tokenRepository) DeleteByKeyHash(ctx context.Context, keyHash string) error {
	defer r.s.lock()()

	delete(r.s.st.tokens, keyHash)
	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()

	for hash, t := range r.s.st.tokens {
		if t.UserID == userID {
			delete(r.s.st.tokens, hash)
		}
	}
	return nil
}

func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, before time.Time) (int64, error) {
	defer r.s.lock()()

	var n int64
	for hash, t := range r.s.st.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.s.st.tokens, hash)
			n++
		}
	}
	return n, nil
}

type resetTokenRepository struct {
	s *Store
}

func (r *resetTokenRepository) ReplaceForUser(ctx context.Context, token *domainUser.PasswordResetToken) error {
	defer r.s.lock()()

	for id, t := range r.s.st.resets {
		if t.UserID == token.UserID {
			delete(r.s.st.resets, id)
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.s.st.resets[token.ID] = *token
	return nil
}

func (r *resetTokenRepository) Find(ctx context.Context, userID uuid.UUID, tokenHash string) (*domainUser.PasswordResetToken, error) {
	defer r.s.lock()()

	for _, t := range r.s.st.resets {
		if t.UserID == userID && t.TokenHash == tokenHash {
			t := t
			return &t, nil
		}
	}
	return nil, domainUser.ErrResetTokenNotFound
}

func (r *resetTokenRepository) Consume(ctx context.Context, tokenID uuid.UUID) error {
	defer r.s.lock()()

	if _, ok := r.s.st.resets[tokenID]; !ok {
		return domainUser.ErrResetTokenNotFound
	}
	delete(r.s.st.resets, tokenID)
	return nil
}

func (r *resetTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()

	for id, t := range r.s.st.resets {
		if t.UserID == userID {
			delete(r.s.st.resets, id)
		}
	}
	return nil
}

func (r *resetTokenRepository) DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	defer r.s.lock()()

	var n int64
	for id, t := range r.s.st.resets {
		if t.CreatedAt.Before(before) {
			delete(r.s.st.resets, id)
			n++
		}
	}
	return n, nil
}
