// File: internal/device/file.go
package device

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// FileBackend attaches a superblock to a block device node or raw image
// file through a file descriptor. This is the library path: key management
// operations (enroll, revoke, shred) are permitted, cipher binding is not.
type FileBackend struct {
	file       *os.File
	blockSize  uint32
	isBlockDev bool
}

var _ interfaces.Backend = (*FileBackend)(nil)

// OpenFile opens path as a device back-end. For block device nodes the
// logical block size comes from the kernel; for regular files it comes
// from config.
func OpenFile(path string, config *Config) (*FileBackend, error) {
	if config == nil {
		c, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		config = c
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open device: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat device: %w", err)
	}

	b := &FileBackend{file: file}
	if stat.Mode()&os.ModeDevice != 0 {
		b.isBlockDev = true
		ssz, err := unix.IoctlGetInt(int(file.Fd()), unix.BLKSSZGET)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: BLKSSZGET failed: %v", types.ErrIO, err)
		}
		b.blockSize = uint32(ssz)
	} else {
		if !config.AllowImageFiles {
			file.Close()
			return nil, fmt.Errorf("%w: %s is not a block device", types.ErrInvalidArgument, path)
		}
		b.blockSize = config.LogicalBlockSize
	}

	return b, nil
}

// NewFileBackend wraps an already-open file with an explicit logical block
// size. Used by tests and by callers that manage their own handles.
func NewFileBackend(file *os.File, blockSize uint32) *FileBackend {
	return &FileBackend{file: file, blockSize: blockSize}
}

// Kind reports the library back-end kind.
func (b *FileBackend) Kind() types.BackendKind {
	return types.BackendLibrary
}

// BlockInfo reports the device geometry. Size comes from seeking the end
// of the handle, which works for both device nodes and image files.
func (b *FileBackend) BlockInfo() (types.BlockInfo, error) {
	size, err := b.file.Seek(0, io.SeekEnd)
	if err != nil {
		return types.BlockInfo{}, fmt.Errorf("%w: failed to size device: %v", types.ErrIO, err)
	}
	if b.blockSize == 0 {
		return types.BlockInfo{}, fmt.Errorf("%w: zero block size", types.ErrInvalidArgument)
	}
	return types.BlockInfo{
		BlockSize:  b.blockSize,
		BlockCount: uint64(size) / uint64(b.blockSize),
	}, nil
}

// VolumeQuery reports that file-backed devices have no volume manager.
func (b *FileBackend) VolumeQuery() (types.VolumeInfo, error) {
	return types.VolumeInfo{}, types.ErrUnsupported
}

// VSliceQuery is unsupported without a volume manager.
func (b *FileBackend) VSliceQuery(ranges []types.VSliceRange) ([]types.VSliceRangeResult, error) {
	return nil, types.ErrUnsupported
}

// Extend is unsupported without a volume manager.
func (b *FileBackend) Extend(req types.ExtendRequest) error {
	return types.ErrUnsupported
}

// ReadBlock reads exactly len(buf) bytes at offset.
func (b *FileBackend) ReadBlock(offset uint64, buf []byte) error {
	n, err := b.file.ReadAt(buf, int64(offset))
	if err != nil {
		return fmt.Errorf("%w: read at %d failed: %v", types.ErrIO, offset, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short read at %d: have %d, need %d", types.ErrIO, offset, n, len(buf))
	}
	return nil
}

// WriteBlock writes exactly len(buf) bytes at offset.
func (b *FileBackend) WriteBlock(offset uint64, buf []byte) error {
	n, err := b.file.WriteAt(buf, int64(offset))
	if err != nil {
		return fmt.Errorf("%w: write at %d failed: %v", types.ErrIO, offset, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short write at %d: have %d, need %d", types.ErrIO, offset, n, len(buf))
	}
	return nil
}

// Close releases the file handle.
func (b *FileBackend) Close() error {
	return b.file.Close()
}
