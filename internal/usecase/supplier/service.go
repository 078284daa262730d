// Package supplier exposes supplier profiles and publishes their lifecycle events.
package supplier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics-auth-service/internal/access"
	"logistics-auth-service/internal/domain/event"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	userUsecase "logistics-auth-service/internal/usecase/user"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registrar creates accounts through the shared registration pipeline.
type Registrar interface {
	Register(ctx context.Context, req *userUsecase.RegisterRequest) (*domainUser.User, error)
}

type Service struct {
	store     domainUser.Store
	registrar Registrar
	events    event.Publisher
	topic     string
	now       func() time.Time
}

func NewService(store domainUser.Store, registrar Registrar, events event.Publisher, topic string) *Service {
	return &Service{
		store:     store,
		registrar: registrar,
		events:    events,
		topic:     topic,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, active *bool) ([]map[string]any, error) {
	suppliers, err := s.store.Profiles().ListSuppliers(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	out := make([]map[string]any, 0, len(suppliers))
	for _, sp := range suppliers {
		data := sp.Data()
		data["user_id"] = sp.UserID
		out = append(out, data)
	}
	return out, nil
}

func (s *Service) Count(ctx context.Context, active *bool) (int64, error) {
	return s.store.Profiles().CountSuppliers(ctx, active)
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	sp, err := s.load(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	data := sp.Data()
	data["user_id"] = sp.UserID
	return data, nil
}

// Info returns the supplier together with its owning account.
func (s *Service) Info(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	sp, err := s.load(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrSupplierNotFound
		}
		return nil, err
	}
	return userUsecase.SupplierPayload(u, sp), nil
}

// Create registers a new supplier account. The registration pipeline emits
// supplier_created.
func (s *Service) Create(ctx context.Context, actor *domainUser.User, req *userUsecase.RegisterRequest) (map[string]any, error) {
	if err := access.Authorize(actor, access.AdminOnly); err != nil {
		return nil, err
	}

	req.RoleID = int(domainUser.RoleSupplier)
	u, err := s.registrar.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Info(ctx, u.ID)
}

func (s *Service) Update(ctx context.Context, actor *domainUser.User, userID uuid.UUID, attrs domainUser.Attributes) (map[string]any, error) {
	if err := access.Authorize(actor, access.AdminOnly); err != nil {
		return nil, err
	}

	spec, _ := domainUser.SpecFor(domainUser.RoleSupplier)

	var (
		u  *domainUser.User
		sp *domainUser.Supplier
	)
	err := s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		var err error
		sp, err = s.load(ctx, tx, userID)
		if err != nil {
			return err
		}

		spec.Apply(sp, attrs, s.now())
		if missing := spec.Missing(sp.Data()); len(missing) > 0 {
			fields := make(map[string]string, len(missing))
			for _, key := range missing {
				fields[key] = "This field is required"
			}
			return appErrors.Validation("Missing required fields for Supplier profile", fields)
		}
		if err := tx.Profiles().Update(ctx, sp); err != nil {
			return fmt.Errorf("failed to update supplier: %w", err)
		}

		u, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	payload := userUsecase.SupplierPayload(u, sp)
	s.publish(ctx, event.SupplierUpdated, userID, payload)
	return payload, nil
}

// Delete removes the supplier profile and demotes the account to Regular User.
func (s *Service) Delete(ctx context.Context, actor *domainUser.User, userID uuid.UUID) error {
	if err := access.Authorize(actor, access.AdminOnly); err != nil {
		return err
	}

	var payload map[string]any
	err := s.store.WithinTx(ctx, func(tx domainUser.Store) error {
		sp, err := s.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Profiles().Delete(ctx, userID, domainUser.RoleSupplier); err != nil {
			return fmt.Errorf("failed to delete supplier: %w", err)
		}

		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.SetRole(domainUser.RoleRegularUser)
		u.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("failed to update user role: %w", err)
		}

		payload = userUsecase.SupplierPayload(u, sp)
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, event.SupplierDeleted, userID, payload)
	return nil
}

func (s *Service) load(ctx context.Context, store domainUser.Store, userID uuid.UUID) (*domainUser.Supplier, error) {
	p, err := store.Profiles().Get(ctx, userID, domainUser.RoleSupplier)
	if err != nil {
		if errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil, appErrors.ErrSupplierNotFound
		}
		return nil, err
	}
	return p.(*domainUser.Supplier), nil
}

func (s *Service) publish(ctx context.Context, eventType string, userID uuid.UUID, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, s.topic, eventType, payload, userID.String()); err != nil {
		logger.Error("Failed to publish supplier event",
			zap.String("user_id", userID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	logger.Info("Supplier event published",
		zap.String("user_id", userID.String()),
		zap.String("event_type", eventType),
		zap.String("event", "supplier_event_published"),
	)
}
