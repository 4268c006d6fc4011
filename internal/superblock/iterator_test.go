// File: internal/superblock/iterator_test.go
package superblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-blockvault/internal/device"
)

func collectOffsets(s *Superblock) []uint64 {
	var offsets []uint64
	for more := s.Begin(); more; more = s.Next() {
		offsets = append(offsets, s.offset)
	}
	return offsets
}

func TestIteratorUninitialized(t *testing.T) {
	s := New(device.NewRAMDevice(4096, 64, nil))
	assert.False(t, s.Begin())
}

func TestIteratorOffsets(t *testing.T) {
	// 1024 pages, non-VM: two blocks at each end.
	s := New(device.NewRAMDevice(4096, 1024, nil))
	require.NoError(t, s.Init())

	want := []uint64{
		0,
		4096,
		(1024 - 2) * 4096,
		(1024 - 1) * 4096,
	}
	assert.Equal(t, want, collectOffsets(s))
}

func TestIteratorRestartable(t *testing.T) {
	s := New(device.NewRAMDevice(4096, 1024, nil))
	require.NoError(t, s.Init())

	first := collectOffsets(s)
	second := collectOffsets(s)
	assert.Equal(t, first, second)
}

func TestIteratorVolumeManagerSlices(t *testing.T) {
	// 1 MiB slices hold 256 pages each; the head and tail slices are
	// enumerated block by block.
	dev := device.NewRAMDevice(4096, 2048, &device.VolumeManagerConfig{
		SliceSize:   1 << 20,
		VSliceCount: 8,
	})
	s := New(dev)
	require.NoError(t, s.Init())

	offsets := collectOffsets(s)
	require.Len(t, offsets, 512)

	perSlice := uint64((1 << 20) / 4096)
	assert.Equal(t, uint64(0), offsets[0])
	assert.Equal(t, uint64(4096), offsets[1])
	assert.Equal(t, uint64(1<<20)-4096, offsets[perSlice-1])
	// Tail slice starts after the six exposed slices plus the head.
	assert.Equal(t, uint64(7*(1<<20)), offsets[perSlice])
	assert.Equal(t, uint64(8*(1<<20))-4096, offsets[len(offsets)-1])
}
