// File: internal/crypto/secret_test.go
package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRandomize(t *testing.T) {
	s, err := NewRandomSecret(32)
	require.NoError(t, err)
	defer s.Destroy()

	assert.Equal(t, 32, s.Len())
	assert.NotEqual(t, make([]byte, 32), s.Bytes(), "random secret should not be all zeros")
}

func TestSecretCopyFromLengthMismatch(t *testing.T) {
	s := NewSecret(16)
	defer s.Destroy()

	err := s.CopyFrom(make([]byte, 8))
	assert.Error(t, err)
}

func TestSecretDestroyWipes(t *testing.T) {
	s, err := NewRandomSecret(16)
	require.NoError(t, err)

	buf := s.Bytes()
	s.Destroy()

	assert.Equal(t, make([]byte, 16), buf, "destroy should zeroize the buffer")
	assert.Equal(t, 0, s.Len())
}

func TestSecretNilSafe(t *testing.T) {
	var s *Secret
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Bytes())
	s.Destroy() // must not panic
}

func TestSecretEqual(t *testing.T) {
	a := NewSecret(8)
	defer a.Destroy()
	b := NewSecret(8)
	defer b.Destroy()

	require.NoError(t, a.CopyFrom([]byte("01234567")))
	require.NoError(t, b.CopyFrom([]byte("01234567")))
	assert.True(t, a.Equal(b))

	require.NoError(t, b.CopyFrom([]byte("01234568")))
	assert.False(t, a.Equal(b))
}

func TestZeroize(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	Zeroize(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}
