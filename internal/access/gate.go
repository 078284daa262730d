// Package access decides whether a resolved user may exercise a capability.
package access

import (
	domainUser "logistics-auth-service/internal/domain/user"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/google/uuid"
)

type Capability int

const (
	Authenticated Capability = iota
	AdminOnly
	DriverOnly
)

func (c Capability) String() string {
	switch c {
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	case DriverOnly:
		return "driver"
	default:
		return "unknown"
	}
}

var requiredRole = map[Capability]domainUser.Role{
	AdminOnly:  domainUser.RoleAdmin,
	DriverOnly: domainUser.RoleDriver,
}

// Authorize returns nil or ErrPermissionDenied. Unknown capabilities are denied.
func Authorize(u *domainUser.User, c Capability) error {
	if u == nil {
		return appErrors.ErrCredentialsRequired
	}
	if c == Authenticated {
		return nil
	}

	role, ok := requiredRole[c]
	if !ok || u.Role() != role {
		return appErrors.ErrPermissionDenied
	}
	return nil
}

// AuthorizeDeletion allows an admin to delete any account except their own.
func AuthorizeDeletion(actor *domainUser.User, target uuid.UUID) error {
	if err := Authorize(actor, AdminOnly); err != nil {
		return err
	}
	if actor.ID == target {
		return appErrors.ErrSelfDeletion
	}
	return nil
}
