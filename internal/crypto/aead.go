// File: internal/crypto/aead.go
package crypto

import (
	"crypto/cipher"
	"fmt"

	"github.com/secure-io/siv-go"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// AEADKind selects the authenticated cipher that wraps key slots.
type AEADKind int

const (
	AEADUninitialized AEADKind = iota

	// AEADAES128GCMSIV is AES-GCM-SIV with a 128-bit key (RFC 8452).
	// The nonce-misuse resistance matters here: wrap IVs are derived
	// deterministically from the root key, slot, and instance GUID, so a
	// repeated nonce under the same key must not be catastrophic.
	AEADAES128GCMSIV
)

const (
	gcmSIVKeyLen   = 16
	gcmSIVNonceLen = 12
	gcmSIVTagLen   = 16
)

// AEADKeyLen returns the wrapping key length for the AEAD kind.
func AEADKeyLen(kind AEADKind) (int, error) {
	switch kind {
	case AEADAES128GCMSIV:
		return gcmSIVKeyLen, nil
	default:
		return 0, fmt.Errorf("%w: aead kind %d", types.ErrUnsupported, kind)
	}
}

// AEADIVLen returns the nonce length for the AEAD kind.
func AEADIVLen(kind AEADKind) (int, error) {
	switch kind {
	case AEADAES128GCMSIV:
		return gcmSIVNonceLen, nil
	default:
		return 0, fmt.Errorf("%w: aead kind %d", types.ErrUnsupported, kind)
	}
}

// AEADTagLen returns the authentication tag length for the AEAD kind.
func AEADTagLen(kind AEADKind) (int, error) {
	switch kind {
	case AEADAES128GCMSIV:
		return gcmSIVTagLen, nil
	default:
		return 0, fmt.Errorf("%w: aead kind %d", types.ErrUnsupported, kind)
	}
}

func newAEAD(kind AEADKind, key *Secret) (cipher.AEAD, error) {
	switch kind {
	case AEADAES128GCMSIV:
		aead, err := siv.NewGCM(key.Bytes())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AES-GCM-SIV: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: aead kind %d", types.ErrUnsupported, kind)
	}
}

// AEADSeal encrypts ptext under key and iv, binding ad as associated
// data. The returned ciphertext is len(ptext) + tag length bytes.
func AEADSeal(kind AEADKind, key, iv *Secret, ad, ptext []byte) ([]byte, error) {
	aead, err := newAEAD(kind, key)
	if err != nil {
		return nil, err
	}
	if iv.Len() != aead.NonceSize() {
		return nil, fmt.Errorf("%w: wrap IV length %d, need %d", types.ErrInvalidArgument, iv.Len(), aead.NonceSize())
	}
	return aead.Seal(nil, iv.Bytes(), ptext, ad), nil
}

// AEADOpen authenticates and decrypts ctext. Authentication failure is
// reported as types.ErrAccessDenied; the caller distinguishes a wrong key
// from a corrupted copy by trying the remaining copies.
func AEADOpen(kind AEADKind, key, iv *Secret, ad, ctext []byte) ([]byte, error) {
	aead, err := newAEAD(kind, key)
	if err != nil {
		return nil, err
	}
	if iv.Len() != aead.NonceSize() {
		return nil, fmt.Errorf("%w: wrap IV length %d, need %d", types.ErrInvalidArgument, iv.Len(), aead.NonceSize())
	}
	ptext, err := aead.Open(nil, iv.Bytes(), ctext, ad)
	if err != nil {
		return nil, fmt.Errorf("%w: slot did not authenticate", types.ErrAccessDenied)
	}
	return ptext, nil
}
