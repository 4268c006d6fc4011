// File: internal/crypto/digest.go
package crypto

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// DigestKind selects the hash used for key derivation.
type DigestKind int

const (
	DigestUninitialized DigestKind = iota
	DigestSHA256
)

// DigestLen returns the output length of the digest in bytes.
func DigestLen(kind DigestKind) (int, error) {
	switch kind {
	case DigestSHA256:
		return sha256.Size, nil
	default:
		return 0, fmt.Errorf("%w: digest kind %d", types.ErrUnsupported, kind)
	}
}

// DigestNew returns the hash constructor for the digest kind.
func DigestNew(kind DigestKind) (func() hash.Hash, error) {
	switch kind {
	case DigestSHA256:
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("%w: digest kind %d", types.ErrUnsupported, kind)
	}
}
