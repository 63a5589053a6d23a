package hd44780

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithSize sets the display geometry in characters. The default is 16x2.
func WithSize(cols, rows int) Option {
	return func(d *Driver) {
		d.cols = cols
		d.rows = rows
	}
}

// WithBusWidth selects the interface width. Bus4 is the default; Bus8
// constructs but Init rejects it.
func WithBusWidth(w BusWidth) Option {
	return func(d *Driver) {
		d.width = w
	}
}

// WriteOnly declares that the R/W line is tied low and the busy flag cannot
// be read back. Transactions then end with a fixed hold instead of polling.
func WriteOnly() Option {
	return func(d *Driver) {
		d.writeOnly = true
	}
}

// WithFont selects the character cell height. Two-row and taller displays
// only support 5x8.
func WithFont(f Font) Option {
	return func(d *Driver) {
		d.font = f
	}
}

// WithTimings replaces the default bus timing set. Handy for tuning slow
// clone controllers.
func WithTimings(t Timings) Option {
	return func(d *Driver) {
		d.timings = t
	}
}

// WithBusyLimit caps the busy-flag poll loop at n iterations, after which
// the transaction aborts with ErrBusyTimeout. The default of 0 polls
// forever, like the controller datasheet assumes; a cap trades protocol
// fidelity for protection against unresponsive hardware.
func WithBusyLimit(n int) Option {
	return func(d *Driver) {
		if n >= 0 {
			d.busyLimit = n
		}
	}
}
