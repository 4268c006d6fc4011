// File: internal/superblock/geometry.go
package superblock

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// Init probes the device and populates block and slice geometry. Blocks
// are normalized to page alignment; devices backed by a volume manager get
// their last slice allocated, and devices without one get synthetic slice
// geometry so the layout logic runs a single code path. Any failure resets
// the instance to its empty state before returning.
func (s *Superblock) Init() error {
	s.Reset()

	ok := false
	defer func() {
		if !ok {
			s.Reset()
		}
	}()

	blk, err := s.backend.BlockInfo()
	if err != nil {
		return fmt.Errorf("failed to get block info: %w", err)
	}

	// Normalize geometry to page-aligned blocks.
	if blk.BlockSize < types.PageSize {
		if blk.BlockSize == 0 || types.PageSize%blk.BlockSize != 0 {
			return fmt.Errorf("%w: block size %d does not divide page size", types.ErrUnsupported, blk.BlockSize)
		}
		blk.BlockCount /= uint64(types.PageSize / blk.BlockSize)
		blk.BlockSize = types.PageSize
	} else if blk.BlockSize%types.PageSize != 0 {
		return fmt.Errorf("%w: block size %d is not a page multiple", types.ErrUnsupported, blk.BlockSize)
	}
	s.blk = blk
	s.block = make([]byte, blk.BlockSize)

	reserved := uint64(blk.BlockSize) * types.ReservedBlocks

	vol, err := s.backend.VolumeQuery()
	switch {
	case err == nil:
		// Volume-manager-backed device.
		if vol.SliceSize < reserved || vol.VSliceCount < 2 {
			return fmt.Errorf("%w: slice_size=%d, vslice_count=%d", types.ErrNoSpace, vol.SliceSize, vol.VSliceCount)
		}
		if err := s.ensureLastSlice(vol); err != nil {
			return err
		}
		s.vol = vol
		s.hasVM = true

	case errors.Is(err, types.ErrUnsupported):
		// Raw device. Synthesize slice geometry so one set of layout
		// logic serves both cases.
		if blk.BlockCount/2 < types.ReservedBlocks {
			return fmt.Errorf("%w: block_size=%d, block_count=%d", types.ErrNoSpace, blk.BlockSize, blk.BlockCount)
		}
		s.vol = types.VolumeInfo{
			SliceSize:   reserved,
			VSliceCount: blk.BlockCount / types.ReservedBlocks,
		}
		s.hasVM = false

	default:
		return fmt.Errorf("failed to query volume manager: %w", err)
	}

	// Exclude the two reserved slices from the exposed counts.
	s.vol.VSliceCount -= 2
	s.blk.BlockCount -= (s.vol.SliceSize / uint64(s.blk.BlockSize)) * 2

	ok = true
	return nil
}

// ensureLastSlice checks that the trailing metadata slice is allocated and
// extends the device if it is not.
func (s *Superblock) ensureLastSlice(vol types.VolumeInfo) error {
	last := vol.VSliceCount - 1
	results, err := s.backend.VSliceQuery([]types.VSliceRange{{Start: last, Count: 1}})
	if err != nil {
		return fmt.Errorf("failed to query vslice %d: %w", last, err)
	}
	if len(results) == 0 || results[0].Count == 0 {
		return fmt.Errorf("%w: malformed vslice query response", types.ErrInternal)
	}
	if !results[0].Allocated {
		if err := s.backend.Extend(types.ExtendRequest{Offset: last, Length: 1}); err != nil {
			return fmt.Errorf("failed to extend device: %w", err)
		}
	}
	return nil
}
