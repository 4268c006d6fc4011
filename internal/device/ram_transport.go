// File: internal/device/ram_transport.go
package device

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-blockvault/internal/interfaces"
	"github.com/deploymenttheory/go-blockvault/internal/types"
)

// RAMTransport serves driver transactions against a RAMDevice from a
// dedicated I/O goroutine, completing each transaction through its
// completion signal the way a device driver's I/O thread would.
type RAMTransport struct {
	dev  *RAMDevice
	txns chan *interfaces.Txn
	stop chan struct{}
}

var _ interfaces.Transport = (*RAMTransport)(nil)

// NewRAMTransport starts the I/O goroutine and returns the transport.
func NewRAMTransport(dev *RAMDevice) *RAMTransport {
	t := &RAMTransport{
		dev:  dev,
		txns: make(chan *interfaces.Txn, 8),
		stop: make(chan struct{}),
	}
	go t.serve()
	return t
}

func (t *RAMTransport) serve() {
	for {
		select {
		case txn := <-t.txns:
			t.process(txn)
		case <-t.stop:
			return
		}
	}
}

func (t *RAMTransport) process(txn *interfaces.Txn) {
	var err error
	switch txn.Op {
	case interfaces.TxnRead:
		err = t.dev.ReadBlock(txn.Offset, txn.Data)
	case interfaces.TxnWrite:
		err = t.dev.WriteBlock(txn.Offset, txn.Data)
	default:
		err = fmt.Errorf("%w: transaction op %d", types.ErrInvalidArgument, txn.Op)
	}
	if err != nil {
		txn.Complete(err, 0)
		return
	}
	txn.Complete(nil, uint64(len(txn.Data)))
}

// Queue enqueues a transaction for the I/O goroutine.
func (t *RAMTransport) Queue(txn *interfaces.Txn) {
	t.txns <- txn
}

// Control dispatches a control operation to the device and reports the
// actual response size the way a device control plane does.
func (t *RAMTransport) Control(op interfaces.ControlOp, in interface{}, out interface{}) (int, error) {
	switch op {
	case interfaces.CtrlBlockInfo:
		info, err := t.dev.BlockInfo()
		if err != nil {
			return 0, err
		}
		*out.(*types.BlockInfo) = info
		return binary.Size(info), nil

	case interfaces.CtrlVolumeQuery:
		info, err := t.dev.VolumeQuery()
		if err != nil {
			return 0, err
		}
		*out.(*types.VolumeInfo) = info
		return binary.Size(info), nil

	case interfaces.CtrlVSliceQuery:
		ranges := in.([]types.VSliceRange)
		results, err := t.dev.VSliceQuery(ranges)
		if err != nil {
			return 0, err
		}
		copy(out.([]types.VSliceRangeResult), results)
		return len(results), nil

	case interfaces.CtrlExtend:
		return 0, t.dev.Extend(in.(types.ExtendRequest))

	default:
		return 0, fmt.Errorf("%w: control op %d", types.ErrUnsupported, op)
	}
}

// Stop shuts down the I/O goroutine. Pending transactions are abandoned.
func (t *RAMTransport) Stop() {
	close(t.stop)
}
