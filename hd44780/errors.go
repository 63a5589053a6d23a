package hd44780

import (
	"errors"
	"fmt"
)

// ErrIO is wrapped into every error caused by a failing Bus or Delayer call.
// The bus may have been left mid-sequence; the only recovery is to run Init
// again.
var ErrIO = errors.New("lcd bus i/o failed")

// ErrUnsupported is returned when initialization is requested for a
// configuration the driver does not implement (8-bit bus mode).
var ErrUnsupported = errors.New("unsupported configuration")

// ErrBusyTimeout is returned when a busy-poll iteration limit was configured
// with WithBusyLimit and the controller never reported ready.
var ErrBusyTimeout = errors.New("busy flag never cleared")

// fail wraps err in ErrIO and records it as the driver's last error.
func (d *Driver) fail(err error) error {
	werr := fmt.Errorf("%w: %v", ErrIO, err)
	d.lastErr = werr
	return werr
}

// Err returns the last recorded transaction error, or nil. The record
// survives until ClearErr is called; it is the sticky counterpart of the
// per-call return values.
func (d *Driver) Err() error {
	return d.lastErr
}

// ClearErr resets the recorded error state.
func (d *Driver) ClearErr() {
	d.lastErr = nil
}
