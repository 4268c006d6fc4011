// File: internal/device/file_test.go
package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-blockvault/internal/types"
)

func testImageFile(t *testing.T, size int64) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)
	require.NoError(t, file.Truncate(size))
	t.Cleanup(func() { file.Close() })
	return file
}

func TestFileBackendKind(t *testing.T) {
	backend := NewFileBackend(testImageFile(t, 1<<20), 512)
	assert.Equal(t, types.BackendLibrary, backend.Kind())
}

func TestFileBackendBlockInfo(t *testing.T) {
	backend := NewFileBackend(testImageFile(t, 1<<20), 512)

	info, err := backend.BlockInfo()
	require.NoError(t, err)
	assert.Equal(t, uint32(512), info.BlockSize)
	assert.Equal(t, uint64(2048), info.BlockCount)
}

func TestFileBackendReadWrite(t *testing.T) {
	backend := NewFileBackend(testImageFile(t, 1<<20), 512)

	out := []byte("superblock copy")
	require.NoError(t, backend.WriteBlock(4096, out))

	in := make([]byte, len(out))
	require.NoError(t, backend.ReadBlock(4096, in))
	assert.Equal(t, out, in)
}

func TestFileBackendShortRead(t *testing.T) {
	backend := NewFileBackend(testImageFile(t, 1024), 512)

	buf := make([]byte, 512)
	err := backend.ReadBlock(768, buf)
	assert.True(t, errors.Is(err, types.ErrIO))
}

func TestFileBackendNoVolumeManager(t *testing.T) {
	backend := NewFileBackend(testImageFile(t, 1<<20), 512)

	_, err := backend.VolumeQuery()
	assert.True(t, errors.Is(err, types.ErrUnsupported))

	_, err = backend.VSliceQuery(nil)
	assert.True(t, errors.Is(err, types.ErrUnsupported))

	assert.True(t, errors.Is(backend.Extend(types.ExtendRequest{}), types.ErrUnsupported))
}

func TestOpenFileImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 1<<20), 0600))

	backend, err := OpenFile(path, &Config{LogicalBlockSize: 4096, AllowImageFiles: true})
	require.NoError(t, err)
	defer backend.Close()

	info, err := backend.BlockInfo()
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), info.BlockSize)
	assert.Equal(t, uint64(256), info.BlockCount)
}

func TestOpenFileImageDisallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 1<<20), 0600))

	_, err := OpenFile(path, &Config{LogicalBlockSize: 512, AllowImageFiles: false})
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint32(512), config.LogicalBlockSize)
	assert.True(t, config.AllowImageFiles)
}
