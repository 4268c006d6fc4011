// File: internal/device/ram.go
package device

import (
	"fmt"

	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// VolumeManagerConfig describes the emulated volume manager of a
// RAMDevice. A nil config means the device reports no volume manager.
type VolumeManagerConfig struct {
	SliceSize   uint64
	VSliceCount uint64

	// PreallocatedSlices marks which virtual slices start out allocated.
	// Slices outside the map are unallocated until extended.
	PreallocatedSlices map[uint64]bool
}

// RAMDevice is an in-memory block device with an optional emulated volume
// manager. It backs unit tests for both the library and driver paths and
// doubles as a scratch target for the data-path ciphers.
type RAMDevice struct {
	data      []byte
	blockSize uint32

	vm        *VolumeManagerConfig
	allocated map[uint64]bool

	// WriteCount counts successful WriteBlock calls, exposed so tests can
	// observe idempotent commit behavior.
	WriteCount int

	// ReadErrors and WriteErrors inject per-offset failures.
	ReadErrors  map[uint64]error
	WriteErrors map[uint64]error
}

var _ interfaces.Backend = (*RAMDevice)(nil)

// NewRAMDevice builds a device of blockCount blocks of blockSize bytes.
func NewRAMDevice(blockSize uint32, blockCount uint64, vm *VolumeManagerConfig) *RAMDevice {
	d := &RAMDevice{
		data:        make([]byte, uint64(blockSize)*blockCount),
		blockSize:   blockSize,
		vm:          vm,
		ReadErrors:  make(map[uint64]error),
		WriteErrors: make(map[uint64]error),
	}
	if vm != nil {
		d.allocated = make(map[uint64]bool)
		for slice, on := range vm.PreallocatedSlices {
			d.allocated[slice] = on
		}
	}
	return d
}

// Kind reports the library back-end kind; the driver path reaches a
// RAMDevice through a RAMTransport instead.
func (d *RAMDevice) Kind() types.BackendKind {
	return types.BackendLibrary
}

// BlockInfo reports the raw device geometry.
func (d *RAMDevice) BlockInfo() (types.BlockInfo, error) {
	return types.BlockInfo{
		BlockSize:  d.blockSize,
		BlockCount: uint64(len(d.data)) / uint64(d.blockSize),
	}, nil
}

// VolumeQuery reports the emulated volume-manager geometry, or
// types.ErrUnsupported when the device was built without one.
func (d *RAMDevice) VolumeQuery() (types.VolumeInfo, error) {
	if d.vm == nil {
		return types.VolumeInfo{}, types.ErrUnsupported
	}
	return types.VolumeInfo{SliceSize: d.vm.SliceSize, VSliceCount: d.vm.VSliceCount}, nil
}

// VSliceQuery reports allocation state for the named slice ranges. Runs
// are collapsed to the longest prefix with uniform allocation state, the
// way a slice map reports contiguous extents.
func (d *RAMDevice) VSliceQuery(ranges []types.VSliceRange) ([]types.VSliceRangeResult, error) {
	if d.vm == nil {
		return nil, types.ErrUnsupported
	}
	results := make([]types.VSliceRangeResult, 0, len(ranges))
	for _, r := range ranges {
		if r.Start >= d.vm.VSliceCount {
			return nil, fmt.Errorf("%w: vslice %d out of range", types.ErrInvalidArgument, r.Start)
		}
		state := d.allocated[r.Start]
		count := uint64(1)
		for count < r.Count && r.Start+count < d.vm.VSliceCount && d.allocated[r.Start+count] == state {
			count++
		}
		results = append(results, types.VSliceRangeResult{Allocated: state, Count: count})
	}
	return results, nil
}

// Extend allocates a run of virtual slices.
func (d *RAMDevice) Extend(req types.ExtendRequest) error {
	if d.vm == nil {
		return types.ErrUnsupported
	}
	if req.Offset+req.Length > d.vm.VSliceCount {
		return fmt.Errorf("%w: extend beyond device: offset=%d length=%d", types.ErrNoSpace, req.Offset, req.Length)
	}
	for i := uint64(0); i < req.Length; i++ {
		d.allocated[req.Offset+i] = true
	}
	return nil
}

// ReadBlock copies out of the backing store.
func (d *RAMDevice) ReadBlock(offset uint64, buf []byte) error {
	if err, ok := d.ReadErrors[offset]; ok {
		return err
	}
	if offset+uint64(len(buf)) > uint64(len(d.data)) {
		return fmt.Errorf("%w: read past end of device at %d", types.ErrIO, offset)
	}
	copy(buf, d.data[offset:offset+uint64(len(buf))])
	return nil
}

// WriteBlock copies into the backing store.
func (d *RAMDevice) WriteBlock(offset uint64, buf []byte) error {
	if err, ok := d.WriteErrors[offset]; ok {
		return err
	}
	if offset+uint64(len(buf)) > uint64(len(d.data)) {
		return fmt.Errorf("%w: write past end of device at %d", types.ErrIO, offset)
	}
	d.WriteCount++
	copy(d.data[offset:offset+uint64(len(buf))], buf)
	return nil
}

// Close is a no-op for an in-memory device.
func (d *RAMDevice) Close() error {
	return nil
}

// Bytes exposes the raw backing store for test inspection.
func (d *RAMDevice) Bytes() []byte {
	return d.data
}

// Allocated reports whether a virtual slice is allocated.
func (d *RAMDevice) Allocated(slice uint64) bool {
	return d.allocated[slice]
}
