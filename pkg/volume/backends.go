// File: pkg/volume/backends.go
package volume

import (
	"os"

	"github.com/deploymenttheory/go-blockvault/internal/crypto"
	"github.com/deploymenttheory/go-blockvault/internal/device"
	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// Aliases so importers outside this module can name the attachment,
// geometry, and cipher types that flow through the public API.
type (
	Backend    = interfaces.Backend
	Transport  = interfaces.Transport
	BlockInfo  = types.BlockInfo
	VolumeInfo = types.VolumeInfo
	XTSCipher  = crypto.XTSCipher
)

// Error kinds returned by this package, re-exported for errors.Is.
var (
	ErrInvalidArgument = types.ErrInvalidArgument
	ErrBadState        = types.ErrBadState
	ErrNoSpace         = types.ErrNoSpace
	ErrUnsupported     = types.ErrUnsupported
	ErrIO              = types.ErrIO
	ErrAccessDenied    = types.ErrAccessDenied
	ErrInternal        = types.ErrInternal
)

// OpenDevice opens a block device node or raw image file as a library
// back-end, loading device configuration from the usual search paths.
func OpenDevice(path string) (Backend, error) {
	return device.OpenFile(path, nil)
}

// NewFileBackend wraps an already-open file with an explicit logical
// block size.
func NewFileBackend(file *os.File, blockSize uint32) Backend {
	return device.NewFileBackend(file, blockSize)
}

// NewDriverBackend wraps a driver transport as a device back-end. Volumes
// opened over it bind ciphers instead of managing keys.
func NewDriverBackend(transport Transport) Backend {
	return device.NewDriverBackend(transport)
}
