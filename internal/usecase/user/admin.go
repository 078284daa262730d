package user

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"logistics-auth-service/internal/access"
	"logistics-auth-service/internal/domain/event"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (s *Service) ListUsers(ctx context.Context, actor *domainUser.User, q *ListUsersQuery) (*UserListResponse, error) {
	if err := access.Authorize(actor, access.AdminOnly); err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	// Keeps (page-1)*limit from overflowing; such a page is past the end anyway.
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}

	filter := domainUser.ListFilter{
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if q.RoleID != 0 {
		role := domainUser.Role(q.RoleID)
		if !role.Valid() {
			return nil, appErrors.Validation("Invalid role", map[string]string{"role_id": "Invalid value"})
		}
		filter.Role = &role
	}

	users, total, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*ProfileResponse, 0, len(users))
	for _, u := range users {
		profile, err := loadProfile(ctx, s.store, u)
		if err != nil {
			return nil, err
		}
		out = append(out, ToProfileResponse(u, profile))
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &UserListResponse{
		Users: out,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}

// AdminUpdateUser edits another account. A role change replaces the role
// profile in the same transaction.
func (s *Service) AdminUpdateUser(ctx context.Context, actor *domainUser.User, targetID uuid.UUID, req *AdminUpdateRequest) (*ProfileResponse, error) {
	if err := access.Authorize(actor, access.AdminOnly); err != nil {
		return nil, err
	}

	var (
		updated    *domainUser.User
		profile    domainUser.Profile
		oldRole    domainUser.Role
		oldProfile domainUser.Profile
	)

	err := s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		u, err := tx.Users().GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.ErrUserNotFound
			}
			return err
		}
		oldRole = u.Role()

		if err := s.applyIdentity(ctx, tx, u, req.Username, req.Email); err != nil {
			return err
		}
		if req.FirstName != nil {
			u.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			u.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.IsVerified != nil {
			u.IsVerified = *req.IsVerified
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}

		newRole := oldRole
		if req.RoleID != nil {
			newRole = domainUser.Role(*req.RoleID)
			if !newRole.Valid() {
				return appErrors.Validation("Invalid role", map[string]string{"role_id": "Invalid value"})
			}
		}
		u.SetRole(newRole)
		u.UpdatedAt = s.now()

		if err := tx.Users().Update(ctx, u); err != nil {
			if errors.Is(err, domainUser.ErrUserAlreadyExists) {
				return appErrors.NewAppError(appErrors.CodeConflict, "Username or email already exists", err)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		if newRole == oldRole {
			profile, err = s.patchProfile(ctx, tx, u, req.RoleData)
		} else {
			oldProfile, profile, err = s.switchProfile(ctx, tx, u, oldRole, req.RoleData)
		}
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if supplier, ok := oldProfile.(*domainUser.Supplier); ok {
		s.publishSupplier(ctx, event.SupplierDeleted, updated, supplier)
	}
	if supplier, ok := profile.(*domainUser.Supplier); ok {
		eventType := event.SupplierUpdated
		if oldRole != domainUser.RoleSupplier {
			eventType = event.SupplierCreated
		}
		s.publishSupplier(ctx, eventType, updated, supplier)
	}

	logger.Info("User updated by admin",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", updated.ID.String()),
		zap.Int("old_role_id", int(oldRole)),
		zap.Int("role_id", int(updated.Role())),
		zap.String("event", "admin_user_updated"),
	)

	return ToProfileResponse(updated, profile), nil
}

// switchProfile removes the profile of the previous role and builds the one
// the new role requires from attrs.
func (s *Service) switchProfile(ctx context.Context, tx domainUser.Store, u *domainUser.User, oldRole domainUser.Role, attrs domainUser.Attributes) (old, created domainUser.Profile, err error) {
	if _, ok := domainUser.SpecFor(oldRole); ok {
		old, err = tx.Profiles().Get(ctx, u.ID, oldRole)
		if err != nil && !errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil, nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if err := tx.Profiles().Delete(ctx, u.ID, oldRole); err != nil {
			return nil, nil, fmt.Errorf("failed to delete profile: %w", err)
		}
	}

	spec, ok := domainUser.SpecFor(u.Role())
	if !ok {
		return old, nil, nil
	}
	if err := requireProfileFields(spec, attrs); err != nil {
		return nil, nil, err
	}

	created = spec.New(u.ID, attrs, s.now())
	if err := tx.Profiles().Create(ctx, created); err != nil {
		return nil, nil, appErrors.Internal("Error creating user profile", err)
	}
	return old, created, nil
}

func (s *Service) AdminDeleteUser(ctx context.Context, actor *domainUser.User, targetID uuid.UUID) error {
	if err := access.AuthorizeDeletion(actor, targetID); err != nil {
		if errors.Is(err, appErrors.ErrSelfDeletion) {
			logger.Warn("Admin attempted to delete own account",
				zap.String("user_id", actor.ID.String()),
				zap.String("event", "self_delete_denied"),
			)
		}
		return err
	}

	var (
		target   *domainUser.User
		supplier *domainUser.Supplier
	)
	err := s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		u, err := tx.Users().GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.ErrUserNotFound
			}
			return err
		}
		target = u

		if u.Role() == domainUser.RoleSupplier {
			if p, err := tx.Profiles().Get(ctx, u.ID, domainUser.RoleSupplier); err == nil {
				supplier = p.(*domainUser.Supplier)
			}
		}
		return tx.Users().Delete(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	if supplier != nil {
		s.publishSupplier(ctx, event.SupplierDeleted, target, supplier)
	}

	logger.Info("User deleted by admin",
		zap.String("admin_id", actor.ID.String()),
		zap.String("user_id", targetID.String()),
		zap.String("event", "admin_user_deleted"),
	)
	return nil
}
