package user

import (
	"time"

	domainUser "logistics-auth-service/internal/domain/user"

	"github.com/google/uuid"
)

// RegisterRequest leaves presence checks to the service so that missing
// fields produce one combined message.
type RegisterRequest struct {
	Username  string                `json:"username" validate:"omitempty,max=150"`
	Email     string                `json:"email" validate:"omitempty,max=254"`
	Password  string                `json:"password" validate:"omitempty,max=128"`
	FirstName string                `json:"first_name" validate:"omitempty,max=150"`
	LastName  string                `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string               `json:"phone" validate:"omitempty,phone"`
	RoleID    int                   `json:"role_id"`
	RoleData  domainUser.Attributes `json:"role_data"`
}

// LoginRequest accepts either username or email. Username wins when both are set.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	NewPassword string `json:"new_password"`
}

type UpdateProfileRequest struct {
	Username  *string               `json:"username" validate:"omitempty,max=150"`
	Email     *string               `json:"email" validate:"omitempty,email_format"`
	FirstName *string               `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string               `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string               `json:"phone" validate:"omitempty,phone"`
	RoleData  domainUser.Attributes `json:"role_data"`
}

type AdminUpdateRequest struct {
	Username   *string               `json:"username" validate:"omitempty,max=150"`
	Email      *string               `json:"email" validate:"omitempty,email_format"`
	FirstName  *string               `json:"first_name" validate:"omitempty,max=150"`
	LastName   *string               `json:"last_name" validate:"omitempty,max=150"`
	IsVerified *bool                 `json:"is_verified"`
	IsActive   *bool                 `json:"is_active"`
	RoleID     *int                  `json:"role_id"`
	RoleData   domainUser.Attributes `json:"role_data"`
}

type VehicleRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=64"`
}

type ListUsersQuery struct {
	Page   int `form:"page"`
	Limit  int `form:"limit"`
	RoleID int `form:"role_id"`
}

type UserSummary struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	RoleID   int       `json:"role_id"`
	Role     string    `json:"role"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type ProfileResponse struct {
	UserID      uuid.UUID      `json:"user_id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	RoleID      int            `json:"role_id"`
	Role        string         `json:"role"`
	IsVerified  bool           `json:"is_verified"`
	IsActive    bool           `json:"is_active"`
	Phone       *string        `json:"phone"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	RoleData    map[string]any `json:"role_data"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

type UserListResponse struct {
	Users      []*ProfileResponse `json:"users"`
	Pagination Pagination         `json:"pagination"`
}

type DriverResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	VehicleType   string    `json:"vehicle_type"`
	VehicleID     string    `json:"vehicle_id"`
}

func ToUserSummary(u *domainUser.User) UserSummary {
	return UserSummary{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   int(u.Role()),
		Role:     u.Role().Name(),
	}
}

func ToProfileResponse(u *domainUser.User, profile domainUser.Profile) *ProfileResponse {
	roleData := map[string]any{}
	if profile != nil {
		roleData = profile.Data()
	}
	return &ProfileResponse{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		RoleID:      int(u.Role()),
		Role:        u.Role().Name(),
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
		Phone:       u.Phone,
		LastLoginAt: u.LastLoginAt,
		RoleData:    roleData,
	}
}

func ToDriverResponse(u *domainUser.User, d *domainUser.Driver) *DriverResponse {
	resp := &DriverResponse{
		UserID:        d.UserID,
		LicenseNumber: d.LicenseNumber,
		VehicleType:   d.VehicleType,
		VehicleID:     d.VehicleID,
	}
	if u != nil {
		resp.Username = u.Username
		resp.FirstName = u.FirstName
		resp.LastName = u.LastName
	}
	return resp
}
