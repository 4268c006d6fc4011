// File: internal/interfaces/transport.go
package interfaces

// TxnOp is the operation carried by a driver transaction.
type TxnOp int

const (
	TxnRead TxnOp = iota
	TxnWrite
)

// Txn is a single-use synchronous block transaction. The submitter fills
// Op, Offset, and Data, queues the transaction, and blocks on Done; the
// device's I/O goroutine fills Status and Actual and signals Done exactly
// once.
type Txn struct {
	Op     TxnOp
	Offset uint64
	Data   []byte

	Status error
	Actual uint64

	Done chan struct{}
}

// NewTxn builds a transaction with its completion channel armed.
func NewTxn(op TxnOp, offset uint64, data []byte) *Txn {
	return &Txn{Op: op, Offset: offset, Data: data, Done: make(chan struct{}, 1)}
}

// Complete records the outcome and signals the waiter. Called from the
// device's I/O goroutine.
func (t *Txn) Complete(status error, actual uint64) {
	t.Status = status
	t.Actual = actual
	t.Done <- struct{}{}
}

// ControlOp is a device control operation routed through a Transport.
type ControlOp int

const (
	CtrlBlockInfo ControlOp = iota
	CtrlVolumeQuery
	CtrlVSliceQuery
	CtrlExtend
)

// Transport is the driver-side channel to a block device. Queue enqueues a
// transaction for the device's I/O goroutine; Control issues a synchronous
// control operation, returning the actual output length the way a device
// control plane reports it: bytes for fixed-size geometry replies, and the
// number of range results for a vslice query.
type Transport interface {
	Queue(txn *Txn)
	Control(op ControlOp, in interface{}, out interface{}) (actual int, err error)
}
