package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// IsStrongPassword reports whether password has at least MinPasswordLength
// characters with at least one uppercase letter, one lowercase letter and one digit.
func IsStrongPassword(password string) bool {
	var (
		length    = 0
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		length++
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	return length >= MinPasswordLength && hasUpper && hasLower && hasNumber
}
