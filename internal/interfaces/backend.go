// File: internal/interfaces/backend.go
package interfaces

import (
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// Backend is the device attachment a superblock operates over. There are
// two implementations, a file-backed library path and a transport-backed
// driver path, chosen once at construction; both provide identical
// read/write/control semantics.
type Backend interface {
	// Kind reports whether this is a library or driver back-end.
	Kind() types.BackendKind

	// BlockInfo queries the raw block geometry of the device.
	BlockInfo() (types.BlockInfo, error)

	// VolumeQuery queries the volume-manager geometry. Devices without a
	// volume manager return types.ErrUnsupported.
	VolumeQuery() (types.VolumeInfo, error)

	// VSliceQuery reports the allocation state of the named virtual
	// slice ranges.
	VSliceQuery(ranges []types.VSliceRange) ([]types.VSliceRangeResult, error)

	// Extend asks the volume manager to allocate a run of virtual slices.
	Extend(req types.ExtendRequest) error

	// ReadBlock reads exactly len(buf) bytes at the given byte offset.
	// A short read is reported as types.ErrIO.
	ReadBlock(offset uint64, buf []byte) error

	// WriteBlock writes exactly len(buf) bytes at the given byte offset.
	// A short write is reported as types.ErrIO.
	WriteBlock(offset uint64, buf []byte) error

	// Close releases the underlying handle. The superblock owns its
	// back-end and closes it on destruction.
	Close() error
}
