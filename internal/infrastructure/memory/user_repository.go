package memory

import (
	"context"
	"time"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, u *domainUser.User) error {
	defer r.s.lock()()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.s.st.users {
		if existing.ID == u.ID || existing.Username == u.Username || existing.Email == u.Email {
			return domainUser.ErrUserAlreadyExists
		}
	}
	r.s.st.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	defer r.s.lock()()

	u, ok := r.s.st.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) find(match func(domainUser.User) bool) (*domainUser.User, error) {
	defer r.s.lock()()

	for _, u := range r.s.st.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domainUser.User, error) {
	return r.find(func(u domainUser.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.find(func(u domainUser.User) bool { return u.Email == email })
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	_, err := r.find(func(u domainUser.User) bool { return u.Username == username && u.ID != excludeID })
	return err == nil, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	_, err := r.find(func(u domainUser.User) bool { return u.Email == email && u.ID != excludeID })
	return err == nil, nil
}

func (r *userRepository) List(ctx context.Context, filter domainUser.ListFilter) ([]*domainUser.User, int64, error) {
	defer r.s.lock()()

	var all []*domainUser.User
	for _, u := range r.s.st.users {
		if filter.Role != nil && cloneUser(u).Role() != *filter.Role {
			continue
		}
		all = append(all, cloneUser(u))
	}
	sortUsers(all)

	total := int64(len(all))
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Offset >= len(all) {
		return []*domainUser.User{}, total, nil
	}
	end := len(all)
	if filter.Limit > 0 && filter.Limit < end-filter.Offset {
		end = filter.Offset + filter.Limit
	}
	return all[filter.Offset:end], total, nil
}

func (r *userRepository) Update(ctx context.Context, u *domainUser.User) error {
	defer r.s.lock()()

	if _, ok := r.s.st.users[u.ID]; !ok {
		return domainUser.ErrUserNotFound
	}
	for id, existing := range r.s.st.users {
		if id != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
			return domainUser.ErrUserAlreadyExists
		}
	}
	r.s.st.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	defer r.s.lock()()

	u, ok := r.s.st.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHashed = passwordHash
	u.UpdatedAt = time.Now()
	r.s.st.users[userID] = u
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	defer r.s.lock()()

	u, ok := r.s.st.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.LastLoginAt = &at
	r.s.st.users[userID] = u
	return nil
}

// Delete cascades to the profile, tokens and reset tokens of the user.
func (r *userRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()

	st := r.s.st
	if _, ok := st.users[userID]; !ok {
		return domainUser.ErrUserNotFound
	}
	delete(st.users, userID)
	delete(st.suppliers, userID)
	delete(st.vendors, userID)
	delete(st.managers, userID)
	delete(st.drivers, userID)
	for hash, t := range st.tokens {
		if t.UserID == userID {
			delete(st.tokens, hash)
		}
	}
	for id, t := range st.resets {
		if t.UserID == userID {
			delete(st.resets, id)
		}
	}
	return nil
}
