package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "secret1", hashed)

	ok, err := Verify(hashed, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongPassword(t *testing.T) {
	hashed, err := Hash("secret1")
	require.NoError(t, err)

	ok, err := Verify(hashed, "secret2")
	require.NoError(t, err)
	assert.False(t, ok, "a mismatch must be false, not an error")
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret1")
	require.NoError(t, err)
	second, err := Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ by salt")
}

func TestHashTooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestVerifyMalformedHash(t *testing.T) {
	_, err := Verify("not-a-bcrypt-hash", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHash)
}
