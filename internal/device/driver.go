// File: internal/device/driver.go
package device

import (
	"fmt"

	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// DriverBackend attaches a superblock to a device through a driver
// transport. Reads and writes are synchronous transactions: built, queued,
// and awaited on a single-use completion signal that the device's I/O
// goroutine fires. This is the driver path: cipher binding is permitted,
// key management is not.
type DriverBackend struct {
	transport interfaces.Transport
}

var _ interfaces.Backend = (*DriverBackend)(nil)

// NewDriverBackend wraps a transport as a device back-end.
func NewDriverBackend(transport interfaces.Transport) *DriverBackend {
	return &DriverBackend{transport: transport}
}

// Kind reports the driver back-end kind.
func (b *DriverBackend) Kind() types.BackendKind {
	return types.BackendDriver
}

// BlockInfo queries the device control plane for block geometry.
func (b *DriverBackend) BlockInfo() (types.BlockInfo, error) {
	var info types.BlockInfo
	if _, err := b.transport.Control(interfaces.CtrlBlockInfo, nil, &info); err != nil {
		return types.BlockInfo{}, err
	}
	return info, nil
}

// VolumeQuery queries the device control plane for volume-manager
// geometry. Devices without one return types.ErrUnsupported.
func (b *DriverBackend) VolumeQuery() (types.VolumeInfo, error) {
	var info types.VolumeInfo
	if _, err := b.transport.Control(interfaces.CtrlVolumeQuery, nil, &info); err != nil {
		return types.VolumeInfo{}, err
	}
	return info, nil
}

// VSliceQuery reports allocation state for the named slice ranges. The
// control plane's actual output length bounds how many results are valid.
func (b *DriverBackend) VSliceQuery(ranges []types.VSliceRange) ([]types.VSliceRangeResult, error) {
	results := make([]types.VSliceRangeResult, len(ranges))
	actual, err := b.transport.Control(interfaces.CtrlVSliceQuery, ranges, results)
	if err != nil {
		return nil, err
	}
	if actual < len(ranges) {
		return nil, fmt.Errorf("%w: vslice query returned %d of %d ranges", types.ErrInternal, actual, len(ranges))
	}
	return results, nil
}

// Extend asks the volume manager to allocate a run of virtual slices.
func (b *DriverBackend) Extend(req types.ExtendRequest) error {
	_, err := b.transport.Control(interfaces.CtrlExtend, req, nil)
	return err
}

func (b *DriverBackend) submit(op interfaces.TxnOp, offset uint64, buf []byte) error {
	txn := interfaces.NewTxn(op, offset, buf)
	b.transport.Queue(txn)
	<-txn.Done
	if txn.Status != nil {
		return fmt.Errorf("transaction at %d failed: %w", offset, txn.Status)
	}
	if txn.Actual != uint64(len(buf)) {
		return fmt.Errorf("%w: incomplete transaction at %d: have %d, need %d", types.ErrIO, offset, txn.Actual, len(buf))
	}
	return nil
}

// ReadBlock submits a synchronous read transaction.
func (b *DriverBackend) ReadBlock(offset uint64, buf []byte) error {
	return b.submit(interfaces.TxnRead, offset, buf)
}

// WriteBlock submits a synchronous write transaction.
func (b *DriverBackend) WriteBlock(offset uint64, buf []byte) error {
	return b.submit(interfaces.TxnWrite, offset, buf)
}

// Close detaches from the transport. The transport owns its goroutine and
// device lifetime.
func (b *DriverBackend) Close() error {
	return nil
}
