package memory

import (
	"context"
	"fmt"
	"sort"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
)

type profileRepository struct {
	s *Store
}

func (r *profileRepository) Create(ctx context.Context, profile domainUser.Profile) error {
	defer r.s.lock()()

	st := r.s.st
	if _, ok := st.users[profile.Owner()]; !ok {
		return domainUser.ErrUserNotFound
	}

	switch p := profile.(type) {
	case *domainUser.Supplier:
		for _, existing := range st.suppliers {
			if existing.Code == p.Code && existing.UserID != p.UserID {
				return fmt.Errorf("supplier code %q: %w", p.Code, domainUser.ErrUserAlreadyExists)
			}
		}
		st.suppliers[p.UserID] = *p
	case *domainUser.Vendor:
		st.vendors[p.UserID] = *p
	case *domainUser.WarehouseManager:
		st.managers[p.UserID] = *p
	case *domainUser.Driver:
		st.drivers[p.UserID] = *p
	default:
		return domainUser.ErrInvalidUserRole
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID, kind domainUser.Role) (domainUser.Profile, error) {
	defer r.s.lock()()

	st := r.s.st
	switch kind {
	case domainUser.RoleSupplier:
		if p, ok := st.suppliers[userID]; ok {
			return &p, nil
		}
	case domainUser.RoleVendor:
		if p, ok := st.vendors[userID]; ok {
			return &p, nil
		}
	case domainUser.RoleWarehouseManager:
		if p, ok := st.managers[userID]; ok {
			return &p, nil
		}
	case domainUser.RoleDriver:
		if p, ok := st.drivers[userID]; ok {
			return &p, nil
		}
	}
	return nil, domainUser.ErrProfileNotFound
}

func (r *profileRepository) Update(ctx context.Context, profile domainUser.Profile) error {
	if _, err := r.Get(ctx, profile.Owner(), profile.Kind()); err != nil {
		return err
	}
	return r.Create(ctx, profile)
}

func (r *profileRepository) Delete(ctx context.Context, userID uuid.UUID, kind domainUser.Role) error {
	defer r.s.lock()()

	st := r.s.st
	switch kind {
	case domainUser.RoleSupplier:
		delete(st.suppliers, userID)
	case domainUser.RoleVendor:
		delete(st.vendors, userID)
	case domainUser.RoleWarehouseManager:
		delete(st.managers, userID)
	case domainUser.RoleDriver:
		delete(st.drivers, userID)
	}
	return nil
}

func (r *profileRepository) ListDrivers(ctx context.Context) ([]*domainUser.Driver, error) {
	defer r.s.lock()()

	out := make([]*domainUser.Driver, 0, len(r.s.st.drivers))
	for _, d := range r.s.st.drivers {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, nil
}

func (r *profileRepository) FindDriverByVehicle(ctx context.Context, vehicleID string) (*domainUser.Driver, error) {
	defer r.s.lock()()

	for _, d := range r.s.st.drivers {
		if d.VehicleID == vehicleID {
			d := d
			return &d, nil
		}
	}
	return nil, domainUser.ErrProfileNotFound
}

func (r *profileRepository) ListSuppliers(ctx context.Context, active *bool) ([]*domainUser.Supplier, error) {
	defer r.s.lock()()

	out := make([]*domainUser.Supplier, 0, len(r.s.st.suppliers))
	for _, s := range r.s.st.suppliers {
		if active != nil && s.Active != *active {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *profileRepository) CountSuppliers(ctx context.Context, active *bool) (int64, error) {
	list, err := r.ListSuppliers(ctx, active)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}
