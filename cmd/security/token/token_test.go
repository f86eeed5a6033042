package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigningKey(t *testing.T) {
	t.Parallel()

	a, err := NewSigningKey(32)
	require.NoError(t, err)
	b, err := NewSigningKey(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	small, err := NewSigningKey(4)
	require.NoError(t, err)
	assert.Len(t, small, MinKeyBytes)
}

func TestSigningKeyFromEnv(t *testing.T) {
	t.Setenv(SigningKeyEnvKey, "   ")
	_, err := SigningKeyFromEnv(MinKeyBytes)
	assert.ErrorIs(t, err, ErrSigningKeyMissing)
	assert.False(t, SigningKeyConfigured())

	t.Setenv(SigningKeyEnvKey, "too-short")
	_, err = SigningKeyFromEnv(MinKeyBytes)
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
	assert.True(t, SigningKeyConfigured())

	long := strings.Repeat("k", 40)
	t.Setenv(SigningKeyEnvKey, " "+long+" ")
	key, err := SigningKeyFromEnv(MinKeyBytes)
	require.NoError(t, err)
	assert.Equal(t, []byte(long), key)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	k := []byte(strings.Repeat("a", 32))
	fp := Fingerprint(k)

	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint(k))
	assert.NotEqual(t, fp, Fingerprint([]byte(strings.Repeat("b", 32))))
	assert.NotContains(t, fp, string(k))
}

func TestEncodeKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00ff10", EncodeKey([]byte{0x00, 0xff, 0x10}))
}
