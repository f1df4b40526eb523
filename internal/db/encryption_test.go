package db

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	secretKey := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, secretKey)
	require.NoError(t, err)
	enc, err := NewGCMEncryptor(string(secretKey))
	require.NoError(t, err)
	val := "some-secret-value-123"

	valEnc, err := enc.Encrypt(val)
	require.NoError(t, err)
	assert.NotEqual(t, val, valEnc)
	valDec, err := enc.Decrypt(valEnc)
	require.NoError(t, err)
	assert.Equal(t, val, valDec)

	again, err := enc.Encrypt(val)
	require.NoError(t, err)
	assert.NotEqual(t, valEnc, again)
}

func TestDecryptRejectsTamperedValues(t *testing.T) {
	enc, err := NewGCMEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64 !!")
	assert.Error(t, err)

	_, err = enc.Decrypt("c2hvcnQ=")
	assert.Error(t, err)

	other, err := NewGCMEncryptor("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	sealed, err := other.Encrypt("value")
	require.NoError(t, err)
	_, err = enc.Decrypt(sealed)
	assert.Error(t, err)
}

func TestEncryptorKeyLength(t *testing.T) {
	_, err := NewGCMEncryptor("too-short")
	assert.Error(t, err)
}
