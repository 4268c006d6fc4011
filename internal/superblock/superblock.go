// File: internal/superblock/superblock.go

// Package superblock manages the encrypted metadata block of a device.
// Several copies of the metadata are kept at the beginning and end of the
// device; the locations can be iterated with Begin and Next. The
// superblock consists of a fixed type GUID, an instance GUID, a 32-bit
// version, and a set of key slots. Each slot is the data cipher's key
// material sealed with a wrapping AEAD key derived from a caller-provided
// root key and the slot index.
package superblock

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-blockvault/internal/crypto"
	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// Superblock is a single device's metadata block and the state needed to
// seal and open its key slots. Instances are single-threaded; callers
// serialize all operations.
type Superblock struct {
	backend interfaces.Backend
	logger  *logrus.Entry

	blk   types.BlockInfo
	vol   types.VolumeInfo
	hasVM bool

	block  []byte
	offset uint64

	guid    [types.GUIDLen]byte
	version types.Version
	aead    crypto.AEADKind
	cipher  crypto.CipherKind
	digest  crypto.DigestKind

	digestLen int
	slotLen   uint

	dataKey *crypto.Secret
	dataIV  *crypto.Secret
	header  []byte
}

// New binds a superblock to a back-end. The instance starts empty; Init
// must run before anything else.
func New(backend interfaces.Backend) *Superblock {
	s := &Superblock{
		backend: backend,
		logger:  logrus.WithField("component", "superblock"),
	}
	s.Reset()
	return s
}

// Create initializes a new device, sealing the data key under rootKey in
// slot 0. It is a one-shot operation; open the device afterwards to get a
// usable handle. Driver back-ends cannot create devices.
func Create(backend interfaces.Backend, rootKey []byte) error {
	if backend == nil || len(rootKey) == 0 {
		return fmt.Errorf("%w: missing backend or root key", types.ErrInvalidArgument)
	}
	if backend.Kind() != types.BackendLibrary {
		return fmt.Errorf("%w: cannot create from driver", types.ErrBadState)
	}

	s := New(backend)
	defer s.Destroy()
	if err := s.Init(); err != nil {
		return err
	}
	if err := s.CreateBlock(); err != nil {
		return err
	}
	if err := s.SealBlock(rootKey, 0); err != nil {
		return err
	}
	return s.CommitBlock()
}

// Open probes the device and unseals the given slot with rootKey. On
// success the returned superblock holds the data key and IV and has healed
// any divergent metadata copies.
func Open(backend interfaces.Backend, rootKey []byte, slot uint) (*Superblock, error) {
	if backend == nil || len(rootKey) == 0 {
		return nil, fmt.Errorf("%w: missing backend or root key", types.ErrInvalidArgument)
	}
	if slot >= types.NumSlots {
		return nil, fmt.Errorf("%w: slot %d", types.ErrInvalidArgument, slot)
	}

	s := New(backend)
	if err := s.Init(); err != nil {
		s.Destroy()
		return nil, err
	}
	if err := s.open(rootKey, slot); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Enroll seals the data key under a new root key into the given slot and
// commits. The device must already be open; driver back-ends cannot
// enroll.
func (s *Superblock) Enroll(rootKey []byte, slot uint) error {
	if s.backend.Kind() != types.BackendLibrary {
		return fmt.Errorf("%w: cannot enroll from driver", types.ErrBadState)
	}
	if slot >= types.NumSlots {
		return fmt.Errorf("%w: slot %d", types.ErrInvalidArgument, slot)
	}
	if len(rootKey) == 0 {
		return fmt.Errorf("%w: empty root key", types.ErrInvalidArgument)
	}
	if s.block == nil || s.dataKey == nil {
		return fmt.Errorf("%w: not unlocked", types.ErrBadState)
	}
	if err := s.SealBlock(rootKey, slot); err != nil {
		return err
	}
	return s.CommitBlock()
}

// Revoke overwrites the slot with fresh randomness and commits, leaving it
// indistinguishable from a never-used slot. Driver back-ends cannot
// revoke.
func (s *Superblock) Revoke(slot uint) error {
	if s.backend.Kind() != types.BackendLibrary {
		return fmt.Errorf("%w: cannot revoke from driver", types.ErrBadState)
	}
	if slot >= types.NumSlots {
		return fmt.Errorf("%w: slot %d", types.ErrInvalidArgument, slot)
	}
	if s.block == nil || s.slotLen == 0 {
		return fmt.Errorf("%w: not unlocked", types.ErrBadState)
	}

	off := types.SlotOffset(slot, s.slotLen)
	invalid, err := crypto.NewRandomSecret(int(s.slotLen))
	if err != nil {
		return err
	}
	defer invalid.Destroy()
	copy(s.block[off:off+s.slotLen], invalid.Bytes())
	return s.CommitBlock()
}

// Shred randomizes the whole metadata block and writes it to every copy,
// destroying the device's key material with overwhelming probability. The
// instance is reset afterwards. Driver back-ends cannot shred.
func (s *Superblock) Shred() error {
	if s.backend.Kind() != types.BackendLibrary {
		return fmt.Errorf("%w: cannot shred from driver", types.ErrBadState)
	}
	if s.block == nil {
		return fmt.Errorf("%w: not unlocked", types.ErrBadState)
	}

	if err := randomize(s.block); err != nil {
		return err
	}
	for more := s.Begin(); more; more = s.Next() {
		if err := s.write(); err != nil {
			return err
		}
	}
	s.Reset()
	return nil
}

// GetInfo returns the cached block and volume geometry.
func (s *Superblock) GetInfo() (types.BlockInfo, types.VolumeInfo, error) {
	if s.block == nil {
		return types.BlockInfo{}, types.VolumeInfo{}, fmt.Errorf("%w: not initialized", types.ErrBadState)
	}
	return s.blk, s.vol, nil
}

// BindCiphers initializes the data-path cipher pair from the unsealed key
// material. Only driver back-ends bind ciphers; the library path manages
// keys and leaves the data path to the driver.
func (s *Superblock) BindCiphers() (encrypt, decrypt *crypto.XTSCipher, err error) {
	if s.backend.Kind() != types.BackendDriver {
		return nil, nil, fmt.Errorf("%w: cannot bind ciphers from library", types.ErrBadState)
	}
	if s.block == nil || s.dataKey == nil {
		return nil, nil, fmt.Errorf("%w: not unlocked", types.ErrBadState)
	}

	tweakLimit := math.MaxUint64 / uint64(s.blk.BlockSize)
	encrypt, err = crypto.NewXTSCipher(s.cipher, crypto.Encrypt, s.dataKey, s.dataIV, tweakLimit)
	if err != nil {
		return nil, nil, err
	}
	decrypt, err = crypto.NewXTSCipher(s.cipher, crypto.Decrypt, s.dataKey, s.dataIV, tweakLimit)
	if err != nil {
		return nil, nil, err
	}
	return encrypt, decrypt, nil
}

// HasVolumeManager reports whether the device is backed by a volume
// manager or uses synthesized slice geometry.
func (s *Superblock) HasVolumeManager() bool {
	return s.hasVM
}

// InstanceGUID returns the device's instance identifier.
func (s *Superblock) InstanceGUID() [types.GUIDLen]byte {
	return s.guid
}

// Configure selects the algorithm tuple for a version and sizes the
// derived buffers. Unknown versions are rejected at the first point the
// version is observed.
func (s *Superblock) Configure(version types.Version) error {
	switch version {
	case types.VersionAES256XTSSHA256:
		s.aead = crypto.AEADAES128GCMSIV
		s.cipher = crypto.CipherAES256XTS
		s.digest = crypto.DigestSHA256
	default:
		return fmt.Errorf("%w: version %d", types.ErrUnsupported, version)
	}
	s.version = version

	dataKeyLen, err := crypto.CipherKeyLen(s.cipher)
	if err != nil {
		return err
	}
	dataIVLen, err := crypto.CipherIVLen(s.cipher)
	if err != nil {
		return err
	}
	tagLen, err := crypto.AEADTagLen(s.aead)
	if err != nil {
		return err
	}
	s.digestLen, err = crypto.DigestLen(s.digest)
	if err != nil {
		return err
	}

	s.dataKey.Destroy()
	s.dataIV.Destroy()
	s.dataKey = crypto.NewSecret(dataKeyLen)
	s.dataIV = crypto.NewSecret(dataIVLen)
	s.slotLen = uint(dataKeyLen + dataIVLen + tagLen)

	need := uint64(types.HeaderLen) + uint64(s.slotLen)*types.NumSlots
	if uint64(s.blk.BlockSize) < need {
		return fmt.Errorf("%w: block size too small; have %d, need %d", types.ErrUnsupported, s.blk.BlockSize, need)
	}
	return nil
}

// Reset returns the instance to its empty state, wiping all secrets.
func (s *Superblock) Reset() {
	s.blk = types.BlockInfo{}
	s.vol = types.VolumeInfo{}
	s.hasVM = false
	crypto.Zeroize(s.block)
	s.block = nil
	s.offset = math.MaxUint64
	s.guid = [types.GUIDLen]byte{}
	s.version = types.VersionUninitialized
	s.aead = crypto.AEADUninitialized
	s.cipher = crypto.CipherUninitialized
	s.digest = crypto.DigestUninitialized
	s.digestLen = 0
	s.slotLen = 0
	s.dataKey.Destroy()
	s.dataKey = nil
	s.dataIV.Destroy()
	s.dataIV = nil
	crypto.Zeroize(s.header)
	s.header = nil
}

// Destroy wipes the instance and closes the back-end.
func (s *Superblock) Destroy() {
	s.Reset()
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.WithError(err).Warn("failed to close backend")
		}
	}
}
