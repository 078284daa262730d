// Package token issues and resolves bearer credentials. Two schemes exist:
// opaque keys validated by a server-side lookup, and signed JWTs validated
// from their signature and expiry.
package token

import (
	"context"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"
)

const (
	KeywordOpaque = "Token"
	KeywordSigned = "Bearer"
)

// Credential is what a successful login returns to the client.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Principal is the result of resolving a presented credential. It carries the
// credential itself so callers can revoke it.
type Principal struct {
	User      *domainUser.User
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type Scheme interface {
	// Keyword is the Authorization header scheme this implementation accepts.
	Keyword() string
	Issue(ctx context.Context, u *domainUser.User) (*Credential, error)
	Resolve(ctx context.Context, raw string) (*Principal, error)
	Revoke(ctx context.Context, p *Principal) error
}

// Denylist records revoked signed-token ids until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
