package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"logistics-auth-service/internal/domain/event"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"go.uber.org/zap"
)

// loadProfile returns the role profile of u, or nil when its role has none.
func loadProfile(ctx context.Context, store domainUser.Store, u *domainUser.User) (domainUser.Profile, error) {
	if _, ok := domainUser.SpecFor(u.Role()); !ok {
		return nil, nil
	}

	profile, err := store.Profiles().Get(ctx, u.ID, u.Role())
	if err != nil {
		if errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, u *domainUser.User) (*ProfileResponse, error) {
	profile, err := loadProfile(ctx, s.store, u)
	if err != nil {
		return nil, err
	}
	return ToProfileResponse(u, profile), nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *domainUser.User, req *UpdateProfileRequest) (*ProfileResponse, error) {
	var (
		updated *domainUser.User
		profile domainUser.Profile
	)

	err := s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		u, err := tx.Users().GetByID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.ErrUserNotFound
			}
			return err
		}

		if err := s.applyIdentity(ctx, tx, u, req.Username, req.Email); err != nil {
			return err
		}
		if req.FirstName != nil {
			u.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			u.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Phone != nil {
			phone := utils.SanitizePhone(*req.Phone)
			u.Phone = &phone
		}
		u.UpdatedAt = s.now()

		if err := tx.Users().Update(ctx, u); err != nil {
			if errors.Is(err, domainUser.ErrUserAlreadyExists) {
				return appErrors.NewAppError(appErrors.CodeConflict, "Username or email already exists", err)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		profile, err = s.patchProfile(ctx, tx, u, req.RoleData)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if supplier, ok := profile.(*domainUser.Supplier); ok && len(req.RoleData) > 0 {
		s.publishSupplier(ctx, event.SupplierUpdated, updated, supplier)
	}

	logger.Info("Profile updated",
		zap.String("user_id", updated.ID.String()),
		zap.String("event", "profile_updated"),
	)

	return ToProfileResponse(updated, profile), nil
}

// applyIdentity changes username and email after checking format and uniqueness
// against every other user.
func (s *Service) applyIdentity(ctx context.Context, tx domainUser.Store, u *domainUser.User, username, email *string) error {
	if username != nil {
		name := strings.TrimSpace(*username)
		if name == "" {
			return appErrors.Validation("Username cannot be empty", map[string]string{"username": "This field is required"})
		}
		if name != u.Username {
			taken, err := tx.Users().ExistsByUsername(ctx, name, u.ID)
			if err != nil {
				return fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return appErrors.ErrUsernameTaken
			}
			u.Username = name
		}
	}

	if email != nil {
		addr := strings.TrimSpace(*email)
		if !utils.IsValidEmail(addr) {
			return appErrors.ErrInvalidEmail
		}
		if addr != u.Email {
			taken, err := tx.Users().ExistsByEmail(ctx, addr, u.ID)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return appErrors.ErrEmailTaken
			}
			u.Email = addr
		}
	}
	return nil
}

// patchProfile applies attrs to the profile of u. A missing profile is created
// when attrs carry every required field.
func (s *Service) patchProfile(ctx context.Context, tx domainUser.Store, u *domainUser.User, attrs domainUser.Attributes) (domainUser.Profile, error) {
	spec, ok := domainUser.SpecFor(u.Role())
	if !ok {
		return nil, nil
	}

	profile, err := loadProfile(ctx, tx, u)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return profile, nil
	}

	now := s.now()
	if profile == nil {
		if err := requireProfileFields(spec, attrs); err != nil {
			return nil, err
		}
		profile = spec.New(u.ID, attrs, now)
		if err := tx.Profiles().Create(ctx, profile); err != nil {
			return nil, appErrors.Internal("Error creating user profile", err)
		}
		return profile, nil
	}

	spec.Apply(profile, attrs, now)
	if err := requireProfileFields(spec, profile.Data()); err != nil {
		return nil, err
	}
	if err := tx.Profiles().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
