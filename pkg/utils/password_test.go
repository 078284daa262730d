package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd", true},
		{"Abcdefg1", true},
		{"Pässw0rd", true},
		{"Pass0rd", false},
		{"password1", false},
		{"PASSWORD1", false},
		{"Password", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123", hashed)
	assert.True(t, CheckPassword(hashed, "Secret123"))
	assert.False(t, CheckPassword(hashed, "secret123"))
	assert.False(t, CheckPassword("not-a-hash", "Secret123"))
}
