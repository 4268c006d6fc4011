// File: internal/crypto/secret.go
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Secret is an owned buffer of key material that can be wiped. Every
// derived or decrypted secret in this module lives in a Secret so error
// paths and teardown can zeroize it in one place.
type Secret struct {
	buf []byte
}

// NewSecret allocates a zeroed secret of the given length.
func NewSecret(n int) *Secret {
	return &Secret{buf: make([]byte, n)}
}

// NewRandomSecret allocates a secret filled from crypto/rand.
func NewRandomSecret(n int) (*Secret, error) {
	s := NewSecret(n)
	if err := s.Randomize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Bytes exposes the underlying buffer. The caller must not retain the
// slice past the secret's lifetime.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.buf
}

// Len returns the secret's length in bytes.
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}
	return len(s.buf)
}

// Randomize refills the secret from crypto/rand.
func (s *Secret) Randomize() error {
	if _, err := io.ReadFull(rand.Reader, s.buf); err != nil {
		return fmt.Errorf("failed to randomize secret: %w", err)
	}
	return nil
}

// CopyFrom overwrites the secret with src. Lengths must match.
func (s *Secret) CopyFrom(src []byte) error {
	if len(src) != len(s.buf) {
		return fmt.Errorf("secret length mismatch: have %d, need %d", len(src), len(s.buf))
	}
	copy(s.buf, src)
	return nil
}

// Equal compares two secrets byte for byte. It is used only by tests and
// postcondition checks on non-adversarial inputs.
func (s *Secret) Equal(other *Secret) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.buf {
		if s.buf[i] != other.buf[i] {
			return false
		}
	}
	return true
}

// Destroy wipes and releases the buffer. The secret is unusable after.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	Zeroize(s.buf)
	s.buf = nil
}

// Zeroize overwrites a byte slice in place.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
