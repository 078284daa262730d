package utils

import (
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenKey(t *testing.T) {
	a, err := GenerateTokenKey()
	require.NoError(t, err)
	b, err := GenerateTokenKey()
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}

func TestGenerateResetTokenIsPathSafe(t *testing.T) {
	raw, err := GenerateResetToken()
	require.NoError(t, err)

	assert.NotContains(t, raw, "/")
	assert.NotContains(t, raw, "=")
	assert.GreaterOrEqual(t, len(raw), 43)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestUIDRoundTrip(t *testing.T) {
	id := uuid.New()

	decoded, err := DecodeUID(EncodeUID(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestDecodeUIDRejectsGarbage(t *testing.T) {
	_, err := DecodeUID("!!!")
	assert.Error(t, err)

	_, err = DecodeUID(base64.RawURLEncoding.EncodeToString([]byte("not-a-uuid")))
	assert.Error(t, err)
}
