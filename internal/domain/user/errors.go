package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrProfileNotFound   = errors.New("role profile not found")
	ErrInvalidUserRole   = errors.New("invalid user role")

	ErrTokenNotFound      = errors.New("token not found")
	ErrResetTokenNotFound = errors.New("reset token not found")
)
