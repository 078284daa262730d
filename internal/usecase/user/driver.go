package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"logistics-auth-service/internal/access"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"

	"go.uber.org/zap"
)

func (s *Service) ListDrivers(ctx context.Context) ([]*DriverResponse, error) {
	drivers, err := s.store.Profiles().ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	out := make([]*DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		u, err := s.store.Users().GetByID(ctx, d.UserID)
		if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, err
		}
		out = append(out, ToDriverResponse(u, d))
	}
	return out, nil
}

func (s *Service) GetDriverByVehicle(ctx context.Context, vehicleID string) (*DriverResponse, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, appErrors.Validation("Please provide vehicle_id", map[string]string{"vehicle_id": "This field is required"})
	}

	d, err := s.store.Profiles().FindDriverByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil, appErrors.ErrDriverNotFound
		}
		return nil, err
	}

	u, err := s.store.Users().GetByID(ctx, d.UserID)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, err
	}
	return ToDriverResponse(u, d), nil
}

// UpdateDriverVehicle assigns a vehicle to the calling driver.
func (s *Service) UpdateDriverVehicle(ctx context.Context, actor *domainUser.User, vehicleID string) (*DriverResponse, error) {
	if err := access.Authorize(actor, access.DriverOnly); err != nil {
		return nil, err
	}

	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, appErrors.Validation("Please provide vehicle_id", map[string]string{"vehicle_id": "This field is required"})
	}

	p, err := s.store.Profiles().Get(ctx, actor.ID, domainUser.RoleDriver)
	if err != nil {
		if errors.Is(err, domainUser.ErrProfileNotFound) {
			return nil, appErrors.ErrDriverNotFound
		}
		return nil, err
	}

	d := p.(*domainUser.Driver)
	d.VehicleID = vehicleID
	if err := s.store.Profiles().Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}

	logger.Info("Driver vehicle updated",
		zap.String("user_id", actor.ID.String()),
		zap.String("vehicle_id", vehicleID),
		zap.String("event", "driver_vehicle_updated"),
	)
	return ToDriverResponse(actor, d), nil
}
