// File: pkg/volume/volume.go

// Package volume is the public surface for encrypted block-device
// metadata management: creating a device, unlocking it with a root key,
// enrolling and revoking additional keys, shredding the metadata, and
// binding data-path ciphers on the driver path.
package volume

import (
	"fmt"

	"github.com/deploymenttheory/go-blockvault/internal/crypto"
	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/superblock"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// NumSlots is the number of independent key slots on every device.
const NumSlots = types.NumSlots

// Volume is an unlocked device handle. Operations must be serialized by
// the caller; the handle performs no internal locking.
type Volume struct {
	sb *superblock.Superblock
}

// Create initializes a new encrypted device with rootKey unlocking slot 0.
// Once the arguments pass validation the backend is consumed: it is closed
// before Create returns, and the caller opens the device afterwards for a
// usable handle. A rejected call leaves the backend open. Callers keep
// ownership of rootKey; it is never retained.
func Create(backend interfaces.Backend, rootKey []byte) error {
	return superblock.Create(backend, rootKey)
}

// Probe initializes geometry without unlocking anything and reports the
// device's normalized block and volume-manager layout. The backend is
// consumed.
func Probe(backend interfaces.Backend) (types.BlockInfo, types.VolumeInfo, bool, error) {
	sb := superblock.New(backend)
	defer sb.Destroy()
	if err := sb.Init(); err != nil {
		return types.BlockInfo{}, types.VolumeInfo{}, false, err
	}
	blk, vol, err := sb.GetInfo()
	if err != nil {
		return types.BlockInfo{}, types.VolumeInfo{}, false, err
	}
	return blk, vol, sb.HasVolumeManager(), nil
}

// Open unlocks the device by unsealing the given slot with rootKey. The
// returned volume owns the backend and closes it on Close.
func Open(backend interfaces.Backend, rootKey []byte, slot uint) (*Volume, error) {
	sb, err := superblock.Open(backend, rootKey, slot)
	if err != nil {
		return nil, err
	}
	return &Volume{sb: sb}, nil
}

// Enroll seals the device's data key under newRootKey into slot, so the
// new key unlocks the device alongside the existing ones. Library path
// only.
func (v *Volume) Enroll(newRootKey []byte, slot uint) error {
	if v.sb == nil {
		return fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.Enroll(newRootKey, slot)
}

// Revoke makes slot permanently unusable by overwriting it with fresh
// randomness. Library path only.
func (v *Volume) Revoke(slot uint) error {
	if v.sb == nil {
		return fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.Revoke(slot)
}

// Shred destroys all metadata copies on the device. Every root key stops
// working with overwhelming probability, and the handle resets. Library
// path only.
func (v *Volume) Shred() error {
	if v.sb == nil {
		return fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.Shred()
}

// Info returns the device's normalized block and volume-manager geometry.
func (v *Volume) Info() (types.BlockInfo, types.VolumeInfo, error) {
	if v.sb == nil {
		return types.BlockInfo{}, types.VolumeInfo{}, fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.GetInfo()
}

// InstanceGUID returns the device's 16-byte instance identifier.
func (v *Volume) InstanceGUID() ([16]byte, error) {
	if v.sb == nil {
		return [16]byte{}, fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.InstanceGUID(), nil
}

// HasVolumeManager reports whether the device sits on a volume manager.
func (v *Volume) HasVolumeManager() (bool, error) {
	if v.sb == nil {
		return false, fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.HasVolumeManager(), nil
}

// BindCiphers initializes the encrypt and decrypt data-path ciphers from
// the unsealed key material. Driver path only.
func (v *Volume) BindCiphers() (encrypt, decrypt *crypto.XTSCipher, err error) {
	if v.sb == nil {
		return nil, nil, fmt.Errorf("%w: volume is closed", types.ErrBadState)
	}
	return v.sb.BindCiphers()
}

// Close zeroizes all secret material and releases the backend. The volume
// is unusable afterwards.
func (v *Volume) Close() {
	if v.sb != nil {
		v.sb.Destroy()
		v.sb = nil
	}
}
