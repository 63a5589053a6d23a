// Package hd44780 drives HD44780-compatible character-matrix LCD modules
// over an injected bus. The package owns the transaction sequencing, the
// timing windows, the 4-bit nibble splitting, busy-flag polling and the
// mapping from logical cursor positions to display-RAM addresses; the
// electrical half-cycles and the microsecond delays are delegated to the Bus
// and Delayer ports supplied at construction.
//
// A Driver is not safe for concurrent use: it mutates unsynchronized cursor
// and error state and its Bus represents exclusive ownership of the physical
// lines. Callers that share a display across goroutines must serialize
// access themselves.
package hd44780

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// BusWidth selects between the controller's two interface widths.
type BusWidth int

const (
	// Bus4 transfers each byte as two enable pulses, high nibble first,
	// on data lines D4-D7.
	Bus4 BusWidth = iota
	// Bus8 transfers whole bytes. Construction is accepted so the
	// transaction engine can be exercised, but Init refuses it.
	Bus8
)

// Font selects the character cell height.
type Font int

const (
	Font5x8 Font = iota
	Font5x10
)

// Driver is the handle for a single display module. It exclusively owns the
// cursor position, write direction, timing configuration and last-error
// record for that module.
type Driver struct {
	bus   Bus
	delay Delayer

	width     BusWidth
	writeOnly bool
	font      Font
	cols      int
	rows      int
	timings   Timings
	busyLimit int

	x, y    int
	forward bool
	lastErr error
}

// New creates a driver for a display reachable through bus, pacing bus
// transitions with delay. Defaults: 16x2 geometry, 4-bit bus, 5x8 font,
// busy-flag readback enabled. The display itself is untouched until Init is
// called.
func New(bus Bus, delay Delayer, opts ...Option) (*Driver, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus must not be nil")
	}
	if delay == nil {
		delay = Sleeper{}
	}

	d := &Driver{
		bus:     bus,
		delay:   delay,
		cols:    16,
		rows:    2,
		timings: DefaultTimings(),
		forward: true,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.cols < 1 || d.rows < 1 || d.rows > 4 || d.cols*d.rows > 128 {
		return nil, fmt.Errorf("unusable geometry %dx%d", d.cols, d.rows)
	}

	return d, nil
}

// Size returns the display geometry in characters.
func (d *Driver) Size() (cols, rows int) {
	return d.cols, d.rows
}

// Position returns the logical cursor position.
func (d *Driver) Position() (col, row int) {
	return d.x, d.y
}

// Clear blanks the display and moves the cursor home.
func (d *Driver) Clear() error {
	if err := d.Command(cmdClear); err != nil {
		return err
	}
	if err := d.wait(d.timings.BusyHoldShort); err != nil {
		return err
	}
	d.x, d.y = 0, 0
	return nil
}

// Home moves the cursor to (0,0) and cancels any display shift. The home
// instruction is one of the slow ones, hence the long hold.
func (d *Driver) Home() error {
	if err := d.Command(cmdHome); err != nil {
		return err
	}
	if err := d.wait(d.timings.BusyHoldLong); err != nil {
		return err
	}
	d.x, d.y = 0, 0
	return nil
}

// SetDirection sets the write direction: forward advances the cursor after
// every character, reverse retreats it. The logical cursor model mirrors the
// controller's entry mode exactly.
func (d *Driver) SetDirection(forward bool) error {
	if err := d.Command(entryMode(forward, false)); err != nil {
		return err
	}
	if err := d.wait(d.timings.BusyHoldShort); err != nil {
		return err
	}
	d.forward = forward
	return nil
}

// SetDisplay switches the display, the underline cursor and the blinking
// block on or off.
func (d *Driver) SetDisplay(on, cursor, blink bool) error {
	return d.Command(displayMode(on, cursor, blink))
}

// Shift shifts the whole display (display true) or just moves the cursor,
// one cell left or right. The logical cursor model is not adjusted; this is
// a raw controller operation.
func (d *Driver) Shift(display, right bool) error {
	return d.Command(shiftMode(display, right))
}

// SetCursor moves the cursor to the given column and row.
func (d *Driver) SetCursor(col, row int) error {
	if col < 0 || col >= d.cols || row < 0 || row >= d.rows {
		return fmt.Errorf("cursor (%d,%d) outside %dx%d display", col, row, d.cols, d.rows)
	}
	d.x, d.y = col, row
	return d.Command(dataAddr(d.address()))
}

// Next advances the cursor one cell in the active direction and repositions
// the controller accordingly.
func (d *Driver) Next() error {
	d.advance()
	return d.Command(dataAddr(d.address()))
}

// WriteChar puts a single character at the cursor position and advances the
// cursor.
func (d *Driver) WriteChar(c byte) error {
	if err := d.Command(dataAddr(d.address())); err != nil {
		return err
	}
	if err := d.Write(c); err != nil {
		return err
	}
	d.advance()
	return d.Command(dataAddr(d.address()))
}

// WriteString writes s starting at the cursor position, wrapping across row
// boundaries. The display-RAM address space is not contiguous across rows,
// so whenever the recomputed cursor address is not exactly one past the
// previous one an explicit address set is issued before the stream
// continues; without it the controller would keep writing into invisible
// RAM.
func (d *Driver) WriteString(s string) error {
	addr := d.address()
	if err := d.Command(dataAddr(addr)); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := d.Write(s[i]); err != nil {
			return err
		}
		d.advance()
		next := d.address()
		if next != addr+1 {
			log.Debugf("lcd: resync at (%d,%d), address 0x%02X", d.x, d.y, next)
			if err := d.Command(dataAddr(next)); err != nil {
				return err
			}
		}
		addr = next
	}
	return d.Command(dataAddr(addr))
}

// StoreGlyph uploads a custom glyph bitmap to character RAM. With the 5x8
// font there are eight slots taking 8 rows of pixel bits each; with the 5x10
// font there are four slots, addressed by even slot numbers, taking 10 rows.
// The cursor position on screen is unaffected, but the controller's address
// counter is left inside character RAM; reposition with SetCursor before
// writing characters again.
func (d *Driver) StoreGlyph(slot int, bits []byte) error {
	if slot < 0 || slot > 7 {
		return fmt.Errorf("glyph slot %d invalid: slots are 0-7", slot)
	}
	rows := 8
	addr := byte(slot)
	if d.font == Font5x10 {
		if slot%2 != 0 {
			return fmt.Errorf("glyph slot %d invalid: large font slots are 0,2,4,6", slot)
		}
		rows = 10
		addr &= 0x06
	}
	if len(bits) < rows {
		return fmt.Errorf("glyph bitmap needs %d rows, got %d", rows, len(bits))
	}
	addr <<= 3
	if err := d.Command(glyphAddr(addr)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if err := d.Write(bits[i]); err != nil {
			return err
		}
	}
	return nil
}
