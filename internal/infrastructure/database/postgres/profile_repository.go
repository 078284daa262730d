package postgres

import (
	"context"
	"errors"
	"fmt"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func (r *ProfileRepository) Create(ctx context.Context, profile domainUser.Profile) error {
	dbModel, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainUser.ErrUserAlreadyExists
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domainUser.ErrUserNotFound
		}
		return fmt.Errorf("failed to create %s profile: %w", profile.Kind().Name(), err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID, kind domainUser.Role) (domainUser.Profile, error) {
	dbModel, err := emptyProfileModel(kind)
	if err != nil {
		return nil, domainUser.ErrProfileNotFound
	}

	err = r.db.WithContext(ctx).First(dbModel, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s profile: %w", kind.Name(), err)
	}

	return toProfileEntity(dbModel), nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile domainUser.Profile) error {
	dbModel, err := toProfileModel(profile)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(dbModel).
		Where("user_id = ?", profile.Owner()).
		Select("*").
		Omit("User").
		Updates(dbModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update %s profile: %w", profile.Kind().Name(), result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, userID uuid.UUID, kind domainUser.Role) error {
	dbModel, err := emptyProfileModel(kind)
	if err != nil {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(dbModel, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete %s profile: %w", kind.Name(), err)
	}
	return nil
}

func (r *ProfileRepository) ListDrivers(ctx context.Context) ([]*domainUser.Driver, error) {
	var dbModels []models.DriverModel
	if err := r.db.WithContext(ctx).Order("user_id").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]*domainUser.Driver, len(dbModels))
	for i := range dbModels {
		drivers[i] = toDriverEntity(&dbModels[i])
	}
	return drivers, nil
}

func (r *ProfileRepository) FindDriverByVehicle(ctx context.Context, vehicleID string) (*domainUser.Driver, error) {
	var dbModel models.DriverModel
	err := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return toDriverEntity(&dbModel), nil
}

func (r *ProfileRepository) suppliers(ctx context.Context, active *bool) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.SupplierModel{})
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	return q
}

func (r *ProfileRepository) ListSuppliers(ctx context.Context, active *bool) ([]*domainUser.Supplier, error) {
	var dbModels []models.SupplierModel
	if err := r.suppliers(ctx, active).Order("code").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	suppliers := make([]*domainUser.Supplier, len(dbModels))
	for i := range dbModels {
		suppliers[i] = toSupplierEntity(&dbModels[i])
	}
	return suppliers, nil
}

func (r *ProfileRepository) CountSuppliers(ctx context.Context, active *bool) (int64, error) {
	var count int64
	if err := r.suppliers(ctx, active).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}
