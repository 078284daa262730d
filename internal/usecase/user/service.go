package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"logistics-auth-service/internal/config"
	"logistics-auth-service/internal/domain/event"
	"logistics-auth-service/internal/domain/mail"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/token"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements user use cases
type Service struct {
	store  domainUser.Store
	scheme token.Scheme
	mailer mail.Sender
	events event.Publisher
	config *config.Config
	now    func() time.Time

	background sync.WaitGroup
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new user service
func NewService(
	store domainUser.Store,
	scheme token.Scheme,
	mailer mail.Sender,
	events event.Publisher,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		store:  store,
		scheme: scheme,
		mailer: mailer,
		events: events,
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scheme exposes the credential scheme for the HTTP middleware.
func (s *Service) Scheme() token.Scheme {
	return s.scheme
}

// Wait blocks until background mail deliveries have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// Register creates an account. It never issues a credential.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domainUser.User, error) {
	role := domainUser.RoleRegularUser
	if req.RoleID != 0 {
		role = domainUser.Role(req.RoleID)
		if !role.Valid() || role == domainUser.RoleAdmin {
			return nil, appErrors.Validation("Invalid role", map[string]string{"role_id": "Invalid value"})
		}
	}
	return s.register(ctx, req, role)
}

// RegisterWithRole creates an account with a fixed role and logs it in.
func (s *Service) RegisterWithRole(ctx context.Context, req *RegisterRequest, role domainUser.Role) (*AuthResponse, error) {
	u, err := s.register(ctx, req, role)
	if err != nil {
		return nil, err
	}

	cred, err := s.scheme.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
		User:      ToUserSummary(u),
	}, nil
}

func (s *Service) register(ctx context.Context, req *RegisterRequest, role domainUser.Role) (*domainUser.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return nil, appErrors.ErrMissingSignupData
	}
	if !utils.IsValidEmail(email) {
		return nil, appErrors.ErrInvalidEmail
	}
	if !utils.IsStrongPassword(req.Password) {
		return nil, appErrors.ErrWeakPassword
	}

	users := s.store.Users()
	if taken, err := users.ExistsByUsername(ctx, username, uuid.Nil); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		logger.Warn("Registration attempt with existing username",
			zap.String("username", username),
			zap.String("event", "registration_failed_duplicate_username"),
		)
		return nil, appErrors.ErrUsernameTaken
	}
	if taken, err := users.ExistsByEmail(ctx, email, uuid.Nil); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	u := &domainUser.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		PasswordHashed: hashedPassword,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          req.Phone,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	u.SetRole(role)

	var profile domainUser.Profile
	err = s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, domainUser.ErrUserAlreadyExists) {
				return appErrors.NewAppError(appErrors.CodeConflict, "Username or email already exists", err)
			}
			return err
		}

		spec, ok := domainUser.SpecFor(role)
		if !ok {
			return nil
		}
		if err := requireProfileFields(spec, req.RoleData); err != nil {
			return err
		}

		profile = spec.New(u.ID, req.RoleData, now)
		if err := tx.Profiles().Create(ctx, profile); err != nil {
			return appErrors.Internal("Error creating user profile", err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Registration rolled back",
			zap.String("username", username),
			zap.Int("role_id", int(role)),
			zap.String("event", "registration_rolled_back"),
			zap.Error(err),
		)
		return nil, err
	}

	if supplier, ok := profile.(*domainUser.Supplier); ok {
		s.publishSupplier(ctx, event.SupplierCreated, u, supplier)
	}

	logger.Info("User registered successfully",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
		zap.Int("role_id", int(role)),
		zap.String("event", "user_registered"),
	)

	return u, nil
}

func requireProfileFields(spec domainUser.ProfileSpec, attrs domainUser.Attributes) error {
	missing := spec.Missing(attrs)
	if len(missing) == 0 {
		return nil
	}

	fields := make(map[string]string, len(missing))
	for _, key := range missing {
		fields[key] = "This field is required"
	}
	return appErrors.Validation(
		fmt.Sprintf("Missing required fields for %s profile", spec.Role.Name()),
		fields,
	)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if (username == "" && email == "") || req.Password == "" {
		return nil, appErrors.ErrMissingCredentials
	}

	var (
		u   *domainUser.User
		err error
	)
	if username != "" {
		u, err = s.store.Users().GetByUsername(ctx, username)
	} else {
		u, err = s.store.Users().GetByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with unknown identifier",
				zap.String("username", username),
				zap.String("email", email),
				zap.String("event", "login_failed_invalid_credentials"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_invalid_credentials"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		logger.Warn("Login attempt for inactive user",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_inactive_user"),
		)
		return nil, appErrors.ErrAccountInactive
	}

	now := s.now()
	if err := s.store.Users().TouchLastLogin(ctx, u.ID, now); err != nil {
		logger.Error("Failed to record last login",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
	u.LastLoginAt = &now

	cred, err := s.scheme.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", u.ID.String()),
		zap.Int("role_id", int(u.Role())),
		zap.String("scheme", s.scheme.Keyword()),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
		User:      ToUserSummary(u),
	}, nil
}

func (s *Service) Logout(ctx context.Context, p *token.Principal) error {
	if err := s.scheme.Revoke(ctx, p); err != nil {
		return err
	}

	logger.Info("User logged out",
		zap.String("user_id", p.User.ID.String()),
		zap.String("event", "logout"),
	)
	return nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return err
	}

	u, err := s.register(ctx, &RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, domainUser.RoleAdmin)
	if err != nil {
		return err
	}

	logger.Info("Bootstrap admin created",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "admin_bootstrapped"),
	)
	return nil
}

func (s *Service) publishSupplier(ctx context.Context, eventType string, u *domainUser.User, supplier *domainUser.Supplier) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, s.config.Events.SupplierTopic, eventType, SupplierPayload(u, supplier), u.ID.String()); err != nil {
		logger.Error("Failed to publish supplier event",
			zap.String("user_id", u.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// SupplierPayload is the event and API body for a supplier.
func SupplierPayload(u *domainUser.User, supplier *domainUser.Supplier) map[string]any {
	payload := supplier.Data()
	payload["user"] = map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
	return payload
}
