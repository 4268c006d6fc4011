// File: internal/crypto/hkdf.go
package crypto

import (
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// maxLabelLen bounds HKDF derivation labels, terminator included.
const maxLabelLen = 16

const (
	wrapKeyLabel = "wrap key %d"
	wrapIVLabel  = "wrap iv %d"
)

// SlotKeys is the per-slot wrapping material derived from a root key. The
// caller owns both secrets and must destroy them when done.
type SlotKeys struct {
	WrapKey *Secret
	WrapIV  *Secret
}

// Destroy wipes both derived secrets.
func (k *SlotKeys) Destroy() {
	k.WrapKey.Destroy()
	k.WrapIV.Destroy()
}

// DeriveSlotKeys derives the wrapping key and IV for one slot. The root
// key is the HKDF input keying material and the instance GUID is the salt,
// so derived keys differ across devices even for identical root keys and
// slots. The decimal slot index is baked into the labels.
func DeriveSlotKeys(digest DigestKind, aead AEADKind, rootKey, salt []byte, slot uint) (*SlotKeys, error) {
	hashNew, err := DigestNew(digest)
	if err != nil {
		return nil, err
	}
	keyLen, err := AEADKeyLen(aead)
	if err != nil {
		return nil, err
	}
	ivLen, err := AEADIVLen(aead)
	if err != nil {
		return nil, err
	}

	keys := &SlotKeys{WrapKey: NewSecret(keyLen), WrapIV: NewSecret(ivLen)}
	if err := hkdfDerive(hashNew, rootKey, salt, fmt.Sprintf(wrapKeyLabel, slot), keys.WrapKey); err != nil {
		keys.Destroy()
		return nil, err
	}
	if err := hkdfDerive(hashNew, rootKey, salt, fmt.Sprintf(wrapIVLabel, slot), keys.WrapIV); err != nil {
		keys.Destroy()
		return nil, err
	}
	return keys, nil
}

// hkdfDerive expands one labeled secret from the root key material.
func hkdfDerive(hashNew func() hash.Hash, ikm, salt []byte, label string, out *Secret) error {
	if len(label)+1 > maxLabelLen {
		return fmt.Errorf("%w: derivation label %q too long", types.ErrInvalidArgument, label)
	}
	r := hkdf.New(hashNew, ikm, salt, []byte(label))
	if _, err := io.ReadFull(r, out.Bytes()); err != nil {
		return fmt.Errorf("%w: HKDF expand failed: %v", types.ErrInternal, err)
	}
	return nil
}
