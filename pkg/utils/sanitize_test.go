package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("alice@example.com"))
	assert.True(t, IsValidEmail("a.b+tag@sub.example.io"))
	assert.False(t, IsValidEmail("alice@"))
	assert.False(t, IsValidEmail("alice@example"))
	assert.False(t, IsValidEmail("alice example.com"))
}

func TestSanitizeIdentifierKeepsCase(t *testing.T) {
	assert.Equal(t, "Alice", SanitizeIdentifier("  <b>Alice</b> "))
}

func TestSanitizeAttributes(t *testing.T) {
	out := SanitizeAttributes(map[string]any{
		"company_name": " <script>x</script>Acme ",
		"compliance":   4.5,
	})

	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;Acme", out["company_name"])
	assert.Equal(t, 4.5, out["compliance"])
	assert.Nil(t, SanitizeAttributes(nil))
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+1 (555) 010-2000", SanitizePhone(" +1 (555) 010-2000x "))
}
