// Package memory is a single-process implementation of the user store. It is
// used by STORAGE_DRIVER=memory and by the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
)

type state struct {
	mu sync.Mutex

	users     map[uuid.UUID]domainUser.User
	suppliers map[uuid.UUID]domainUser.Supplier
	vendors   map[uuid.UUID]domainUser.Vendor
	managers  map[uuid.UUID]domainUser.WarehouseManager
	drivers   map[uuid.UUID]domainUser.Driver
	tokens    map[string]domainUser.AccessToken
	resets    map[uuid.UUID]domainUser.PasswordResetToken
}

func newState() *state {
	return &state{
		users:     make(map[uuid.UUID]domainUser.User),
		suppliers: make(map[uuid.UUID]domainUser.Supplier),
		vendors:   make(map[uuid.UUID]domainUser.Vendor),
		managers:  make(map[uuid.UUID]domainUser.WarehouseManager),
		drivers:   make(map[uuid.UUID]domainUser.Driver),
		tokens:    make(map[string]domainUser.AccessToken),
		resets:    make(map[uuid.UUID]domainUser.PasswordResetToken),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) snapshot() *state {
	return &state{
		users:     cloneMap(st.users),
		suppliers: cloneMap(st.suppliers),
		vendors:   cloneMap(st.vendors),
		managers:  cloneMap(st.managers),
		drivers:   cloneMap(st.drivers),
		tokens:    cloneMap(st.tokens),
		resets:    cloneMap(st.resets),
	}
}

func (st *state) restore(snap *state) {
	st.users = snap.users
	st.suppliers = snap.suppliers
	st.vendors = snap.vendors
	st.managers = snap.managers
	st.drivers = snap.drivers
	st.tokens = snap.tokens
	st.resets = snap.resets
}

// Store serializes every operation on one mutex. A Store handed to a WithinTx
// callback already holds it.
type Store struct {
	st   *state
	inTx bool
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *Store) Users() domainUser.UserRepository             { return &userRepository{s: s} }
func (s *Store) Profiles() domainUser.ProfileRepository       { return &profileRepository{s: s} }
func (s *Store) Tokens() domainUser.TokenRepository           { return &tokenRepository{s: s} }
func (s *Store) ResetTokens() domainUser.ResetTokenRepository { return &resetTokenRepository{s: s} }

// WithinTx runs fn with exclusive access and discards its writes if it fails.
// Nested calls join the outer unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domainUser.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	snap := s.st.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.st.restore(snap)
			panic(r)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	if err = fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.restore(snap)
		return err
	}
	return nil
}

// TokenCount reports how many opaque tokens userID currently owns.
func (s *Store) TokenCount(userID uuid.UUID) int {
	defer s.lock()()
	n := 0
	for _, t := range s.st.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// ResetTokenCount reports how many reset tokens userID currently owns.
func (s *Store) ResetTokenCount(userID uuid.UUID) int {
	defer s.lock()()
	n := 0
	for _, t := range s.st.resets {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// SetResetTokenCreatedAt backdates the reset tokens of userID.
func (s *Store) SetResetTokenCreatedAt(userID uuid.UUID, at time.Time) {
	defer s.lock()()
	for id, t := range s.st.resets {
		if t.UserID == userID {
			t.CreatedAt = at
			s.st.resets[id] = t
		}
	}
}

func cloneUser(u domainUser.User) *domainUser.User {
	out := u
	if u.Phone != nil {
		p := *u.Phone
		out.Phone = &p
	}
	if u.RoleID != nil {
		r := *u.RoleID
		out.RoleID = &r
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

func sortUsers(users []*domainUser.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
}
