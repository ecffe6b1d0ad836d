package encryption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))

	svc, err := NewService()
	require.NoError(t, err)

	plaintext := []byte("firma del paciente")
	sealed, err := svc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), sealed)

	opened, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptProducesDistinctCiphertexts(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("cd", 32))

	svc, err := NewService()
	require.NoError(t, err)

	first, err := svc.Encrypt([]byte("dato"))
	require.NoError(t, err)
	second, err := svc.Encrypt([]byte("dato"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ef", 32))

	svc, err := NewService()
	require.NoError(t, err)

	_, err = svc.Decrypt("not base64 !!!")
	assert.Error(t, err)

	_, err = svc.Decrypt("c2hvcnQ=")
	assert.Error(t, err)
}

func TestNewServiceRejectsBadKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "tooshort")
	_, err := NewService()
	assert.Error(t, err)
}
