package cmd

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-blockvault/internal/crypto"
)

// readKeyFile loads raw root key bytes from a file. The caller wipes the
// returned slice when done.
func readKeyFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("a key file is required")
	}
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("key file %s is empty", path)
	}
	return key, nil
}

// wipe clears key material once a command is done with it.
func wipe(keys ...[]byte) {
	for _, k := range keys {
		crypto.Zeroize(k)
	}
}
