// File: pkg/volume/helpers_test.go
package volume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testImageFile creates a 4 MiB image file. The returned handle is closed
// by whichever backend consumes it.
func testImageFile(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)
	require.NoError(t, file.Truncate(4<<20))
	return file
}

func reopenImageFile(t *testing.T, path string) *os.File {
	t.Helper()
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	return file
}
