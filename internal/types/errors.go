// File: internal/types/errors.go
package types

import "errors"

// Error kinds shared across the module. Call sites wrap these with
// fmt.Errorf("...: %w", err) so errors.Is still matches the kind.
var (
	// ErrInvalidArgument reports a nil or out-of-range parameter, such as
	// a slot index at or beyond NumSlots.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadState reports an operation that requires a prior successful
	// Init or Open that did not occur, or one issued on the wrong
	// back-end kind.
	ErrBadState = errors.New("bad state")

	// ErrNoSpace reports device or slice geometry too small to hold the
	// reserved metadata regions.
	ErrNoSpace = errors.New("no space")

	// ErrUnsupported reports a block size not reconcilable with the page
	// size, an unknown version, a type GUID mismatch, or a control
	// operation the device does not implement.
	ErrUnsupported = errors.New("unsupported")

	// ErrIO reports a short read or write, or a lower-layer I/O failure.
	ErrIO = errors.New("i/o error")

	// ErrAccessDenied reports that no metadata copy decrypted under the
	// provided root key and slot.
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal reports a violated cryptographic postcondition or a
	// malformed volume-manager response.
	ErrInternal = errors.New("internal error")
)
