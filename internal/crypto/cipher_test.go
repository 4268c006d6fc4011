// File: internal/crypto/cipher_test.go
package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

func testXTSPair(t *testing.T, tweakLimit uint64) (*XTSCipher, *XTSCipher) {
	t.Helper()
	key, err := NewRandomSecret(xts256KeyLen)
	require.NoError(t, err)
	t.Cleanup(key.Destroy)
	iv := NewSecret(xts256IVLen)
	t.Cleanup(iv.Destroy)

	enc, err := NewXTSCipher(CipherAES256XTS, Encrypt, key, iv, tweakLimit)
	require.NoError(t, err)
	dec, err := NewXTSCipher(CipherAES256XTS, Decrypt, key, iv, tweakLimit)
	require.NoError(t, err)
	return enc, dec
}

func TestXTSCipherRoundTrip(t *testing.T) {
	enc, dec := testXTSPair(t, 1<<20)

	ptext := make([]byte, 4096)
	for i := range ptext {
		ptext[i] = byte(i)
	}
	buf := append([]byte(nil), ptext...)

	require.NoError(t, enc.Transform(buf, 7))
	assert.NotEqual(t, ptext, buf)

	require.NoError(t, dec.Transform(buf, 7))
	assert.Equal(t, ptext, buf)
}

func TestXTSCipherBlocksDiffer(t *testing.T) {
	enc, _ := testXTSPair(t, 1<<20)

	a := make([]byte, 4096)
	b := make([]byte, 4096)
	require.NoError(t, enc.Transform(a, 1))
	require.NoError(t, enc.Transform(b, 2))
	assert.NotEqual(t, a, b, "distinct block tweaks must give distinct ciphertext")
}

func TestXTSCipherTweakLimit(t *testing.T) {
	enc, _ := testXTSPair(t, 8)

	buf := make([]byte, 4096)
	require.NoError(t, enc.Transform(buf, 7))

	err := enc.Transform(buf, 8)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestNewXTSCipherBadLengths(t *testing.T) {
	shortKey := NewSecret(32)
	defer shortKey.Destroy()
	iv := NewSecret(xts256IVLen)
	defer iv.Destroy()

	_, err := NewXTSCipher(CipherAES256XTS, Encrypt, shortKey, iv, 1)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	key := NewSecret(xts256KeyLen)
	defer key.Destroy()
	shortIV := NewSecret(8)
	defer shortIV.Destroy()

	_, err = NewXTSCipher(CipherAES256XTS, Encrypt, key, shortIV, 1)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestCipherLengths(t *testing.T) {
	keyLen, err := CipherKeyLen(CipherAES256XTS)
	require.NoError(t, err)
	assert.Equal(t, 64, keyLen)

	ivLen, err := CipherIVLen(CipherAES256XTS)
	require.NoError(t, err)
	assert.Equal(t, 16, ivLen)

	_, err = CipherKeyLen(CipherUninitialized)
	assert.True(t, errors.Is(err, types.ErrUnsupported))
}
