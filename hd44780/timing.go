package hd44780

import "time"

// Timings holds the delays inserted between bus transitions. The defaults
// are conservative for genuine HD44780 silicon; clones sometimes need more.
// Values below the datasheet minimums cause undefined behaviour on real
// hardware and are not detected here.
type Timings struct {
	// AddressSetup is the wait after presenting RS/RW and data, before
	// raising enable.
	AddressSetup time.Duration
	// EnableHold is the width of the enable pulse.
	EnableHold time.Duration
	// DataHold is the wait after dropping enable.
	DataHold time.Duration
	// BusyInterval is the pause between busy-flag polls (read-write mode).
	BusyInterval time.Duration
	// BusyHoldShort replaces busy polling after ordinary commands in
	// write-only mode.
	BusyHoldShort time.Duration
	// BusyHoldLong covers the slow commands (clear, home) in write-only
	// mode.
	BusyHoldLong time.Duration
}

// DefaultTimings returns the stock timing set.
func DefaultTimings() Timings {
	return Timings{
		AddressSetup:  10 * time.Microsecond,
		EnableHold:    10 * time.Microsecond,
		DataHold:      10 * time.Microsecond,
		BusyInterval:  50 * time.Microsecond,
		BusyHoldShort: 500 * time.Microsecond,
		BusyHoldLong:  50 * time.Millisecond,
	}
}
