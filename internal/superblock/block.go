// File: internal/superblock/block.go
package superblock

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-blockvault/internal/crypto"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// randomize fills buf from crypto/rand. Padding past the slot table is
// random too, so an observer cannot tell used structure from backdrop.
func randomize(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("%w: failed to randomize block: %v", types.ErrInternal, err)
	}
	return nil
}

// CreateBlock synthesizes a fresh superblock in memory: a random backdrop,
// the type GUID, a new v4 instance GUID, the default version, and fresh
// data key material. Nothing is written until CommitBlock.
func (s *Superblock) CreateBlock() error {
	if s.block == nil {
		return fmt.Errorf("%w: not initialized", types.ErrBadState)
	}
	if err := randomize(s.block); err != nil {
		return err
	}

	copy(s.block[0:types.GUIDLen], types.TypeGUID[:])

	// RFC 4122 variant 1, version 4 instance GUID.
	instance, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("%w: failed to generate instance GUID: %v", types.ErrInternal, err)
	}
	copy(s.guid[:], instance[:])
	copy(s.block[types.GUIDLen:2*types.GUIDLen], s.guid[:])

	binary.BigEndian.PutUint32(s.block[2*types.GUIDLen:types.HeaderLen], uint32(types.DefaultVersion))

	if err := s.Configure(types.DefaultVersion); err != nil {
		return err
	}
	if err := s.dataKey.Randomize(); err != nil {
		return err
	}
	if err := s.dataIV.Randomize(); err != nil {
		return err
	}

	s.header = make([]byte, types.HeaderLen)
	copy(s.header, s.block[:types.HeaderLen])
	return nil
}

// SealBlock wraps the data key and IV under the root key into the given
// slot. The header bytes are bound as AEAD associated data, so the sealed
// slot authenticates the type GUID, instance GUID, and version alongside
// the key material.
func (s *Superblock) SealBlock(rootKey []byte, slot uint) error {
	ptext := crypto.NewSecret(s.dataKey.Len() + s.dataIV.Len())
	defer ptext.Destroy()
	copy(ptext.Bytes(), s.dataKey.Bytes())
	copy(ptext.Bytes()[s.dataKey.Len():], s.dataIV.Bytes())

	keys, err := crypto.DeriveSlotKeys(s.digest, s.aead, rootKey, s.guid[:], slot)
	if err != nil {
		return err
	}
	defer keys.Destroy()

	ctext, err := crypto.AEADSeal(s.aead, keys.WrapKey, keys.WrapIV, s.header, ptext.Bytes())
	if err != nil {
		return err
	}
	if uint(len(ctext)) != s.slotLen {
		return fmt.Errorf("%w: sealed slot is %d bytes, need %d", types.ErrInternal, len(ctext), s.slotLen)
	}

	off := types.SlotOffset(slot, s.slotLen)
	copy(s.block[off:off+s.slotLen], ctext)
	return nil
}

// OpenBlock validates the in-memory block and unseals one slot with the
// root key. On success the data key and IV are populated and the header is
// cached for later seals.
func (s *Superblock) OpenBlock(rootKey []byte, slot uint) error {
	if !bytes.Equal(s.block[0:types.GUIDLen], types.TypeGUID[:]) {
		return fmt.Errorf("%w: not a recognized device", types.ErrUnsupported)
	}
	copy(s.guid[:], s.block[types.GUIDLen:2*types.GUIDLen])

	version := types.Version(binary.BigEndian.Uint32(s.block[2*types.GUIDLen:types.HeaderLen]))
	if err := s.Configure(version); err != nil {
		return err
	}
	keys, err := crypto.DeriveSlotKeys(s.digest, s.aead, rootKey, s.guid[:], slot)
	if err != nil {
		return err
	}
	defer keys.Destroy()

	s.header = make([]byte, types.HeaderLen)
	copy(s.header, s.block[:types.HeaderLen])

	off := types.SlotOffset(slot, s.slotLen)
	ctext := s.block[off : off+s.slotLen]
	ptext, err := crypto.AEADOpen(s.aead, keys.WrapKey, keys.WrapIV, s.header, ctext)
	if err != nil {
		return err
	}
	defer crypto.Zeroize(ptext)

	if len(ptext) != s.dataKey.Len()+s.dataIV.Len() {
		return fmt.Errorf("%w: unsealed %d bytes, need %d", types.ErrInternal, len(ptext), s.dataKey.Len()+s.dataIV.Len())
	}
	if err := s.dataKey.CopyFrom(ptext[:s.dataKey.Len()]); err != nil {
		return err
	}
	if err := s.dataIV.CopyFrom(ptext[s.dataKey.Len():]); err != nil {
		return err
	}
	return nil
}

// CommitBlock writes the current block to every metadata offset, skipping
// copies that already match to save writes. Individual write failures are
// logged and tolerated: the redundancy is best-effort, and Open accepts
// any one good copy.
func (s *Superblock) CommitBlock() error {
	canonical := make([]byte, len(s.block))
	copy(canonical, s.block)

	for more := s.Begin(); more; more = s.Next() {
		if err := s.read(); err == nil && bytes.Equal(s.block, canonical) {
			continue
		}
		copy(s.block, canonical)
		if err := s.write(); err != nil {
			s.logger.WithError(err).WithField("offset", s.offset).Warn("metadata copy write failed")
		}
	}
	copy(s.block, canonical)
	return nil
}

// open scans the metadata offsets and unseals the first copy that
// decrypts, then commits to heal any divergent copies. Read and unseal
// failures at individual offsets are logged and skipped. Exhausting every
// copy denies access, except when every readable copy carries the type GUID
// and was rejected as unsupported (an unknown version or a block too small
// for it): that device reports ErrUnsupported rather than a key mismatch. A
// copy without the type GUID, as after Shred, counts as a denial.
func (s *Superblock) open(rootKey []byte, slot uint) error {
	var unsupported error
	sawCandidate := false
	for more := s.Begin(); more; more = s.Next() {
		if err := s.read(); err != nil {
			s.logger.WithError(err).WithField("offset", s.offset).Warn("failed to read metadata copy")
			continue
		}
		err := s.OpenBlock(rootKey, slot)
		if err == nil {
			return s.CommitBlock()
		}
		s.logger.WithError(err).WithField("offset", s.offset).Debug("failed to open metadata copy")
		if errors.Is(err, types.ErrUnsupported) && bytes.Equal(s.block[0:types.GUIDLen], types.TypeGUID[:]) {
			if unsupported == nil {
				unsupported = err
			}
		} else {
			sawCandidate = true
		}
	}
	if !sawCandidate && unsupported != nil {
		return unsupported
	}
	return fmt.Errorf("%w: no usable metadata copy", types.ErrAccessDenied)
}

// read fills the block buffer from the current iterator offset.
func (s *Superblock) read() error {
	return s.backend.ReadBlock(s.offset, s.block)
}

// write flushes the block buffer to the current iterator offset.
func (s *Superblock) write() error {
	return s.backend.WriteBlock(s.offset, s.block)
}
