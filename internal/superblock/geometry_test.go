// File: internal/superblock/geometry_test.go
package superblock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-blockvault/internal/device"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

func TestInitNormalizesSubPageBlocks(t *testing.T) {
	// 512-byte blocks collapse 8:1 into 4096-byte pages.
	dev := device.NewRAMDevice(512, 8192, nil)
	s := New(dev)
	require.NoError(t, s.Init())

	assert.Equal(t, uint32(4096), s.blk.BlockSize)
	// 8192/8 = 1024 pages, minus two reserved slices of two blocks each.
	assert.Equal(t, uint64(1024-4), s.blk.BlockCount)
}

func TestInitAcceptsPageMultipleBlocks(t *testing.T) {
	dev := device.NewRAMDevice(8192, 512, nil)
	s := New(dev)
	require.NoError(t, s.Init())

	assert.Equal(t, uint32(8192), s.blk.BlockSize)
}

func TestInitRejectsUnalignedBlockSize(t *testing.T) {
	for _, blockSize := range []uint32{3000, 6144} {
		dev := device.NewRAMDevice(blockSize, 1024, nil)
		s := New(dev)
		err := s.Init()
		assert.True(t, errors.Is(err, types.ErrUnsupported), "block size %d", blockSize)
		// Failure must leave the instance reset.
		assert.Nil(t, s.block)
		assert.Equal(t, uint64(0), s.vol.SliceSize)
	}
}

func TestInitRejectsTinyDevice(t *testing.T) {
	dev := device.NewRAMDevice(4096, 3, nil)
	s := New(dev)
	err := s.Init()
	assert.True(t, errors.Is(err, types.ErrNoSpace))
}

func TestInitSynthesizesSliceGeometry(t *testing.T) {
	dev := device.NewRAMDevice(4096, 1024, nil)
	s := New(dev)
	require.NoError(t, s.Init())

	assert.False(t, s.hasVM)
	assert.Equal(t, uint64(8192), s.vol.SliceSize)
	assert.Equal(t, uint64(512-2), s.vol.VSliceCount)
	assert.Equal(t, uint64(1024-4), s.blk.BlockCount)
}

func TestInitVolumeManagerAllocatesLastSlice(t *testing.T) {
	// 8 slices of 1 MiB; the last starts unallocated.
	dev := device.NewRAMDevice(4096, 2048, &device.VolumeManagerConfig{
		SliceSize:   1 << 20,
		VSliceCount: 8,
	})
	s := New(dev)
	require.NoError(t, s.Init())

	assert.True(t, s.hasVM)
	assert.True(t, dev.Allocated(7), "init must allocate the trailing metadata slice")
	assert.Equal(t, uint64(6), s.vol.VSliceCount)
	assert.Equal(t, uint64(2048-512), s.blk.BlockCount)
}

func TestInitVolumeManagerSliceTooSmall(t *testing.T) {
	dev := device.NewRAMDevice(4096, 2048, &device.VolumeManagerConfig{
		SliceSize:   4096, // smaller than the two-block reserved region
		VSliceCount: 8,
	})
	s := New(dev)
	err := s.Init()
	assert.True(t, errors.Is(err, types.ErrNoSpace))
}

func TestInitVolumeManagerTooFewSlices(t *testing.T) {
	dev := device.NewRAMDevice(4096, 2048, &device.VolumeManagerConfig{
		SliceSize:   1 << 20,
		VSliceCount: 1,
	})
	s := New(dev)
	err := s.Init()
	assert.True(t, errors.Is(err, types.ErrNoSpace))
}
