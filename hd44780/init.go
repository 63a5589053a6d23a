package hd44780

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Init drives the controller from an unknown power-on state into 4-bit
// operating mode, programs the function set for the configured geometry and
// font, and clears the display. The raw half-transaction ladder and its
// settle times come from the controller's power-on reset requirements and
// are order-sensitive; the controller cannot be assumed to answer busy
// polls until the ladder completes.
//
// After any transaction error the display may be mid-sequence; calling Init
// again is the only way back to a known state.
func (d *Driver) Init() error {
	if d.width != Bus4 {
		return fmt.Errorf("%w: only 4-bit bus initialization is implemented", ErrUnsupported)
	}

	log.Debugf("lcd: initializing %dx%d display", d.cols, d.rows)
	d.x, d.y = 0, 0

	// The controller may be in 8-bit mode, or stranded on the second
	// nibble of a 4-bit transfer. Three raw 8-bit function sets, paced
	// per the datasheet reset procedure, force it into a known 8-bit
	// state regardless.
	raw := funcSet(true, false, false)
	if err := d.strobe(false, raw, 5*time.Millisecond); err != nil {
		return err
	}
	if err := d.strobe(false, raw, 100*time.Microsecond); err != nil {
		return err
	}
	if err := d.pulse(false, raw, d.timings.DataHold); err != nil {
		return err
	}

	// Request 4-bit mode. Still a raw half-transaction: the controller
	// interprets it in 8-bit mode, so only the high nibble matters.
	raw = funcSet(false, false, false)
	if err := d.strobe(false, raw, d.timings.DataHold+100*time.Microsecond); err != nil {
		return err
	}

	// From here the full transaction engine works. Repeating the 4-bit
	// request through it both finalizes the switch and proves the
	// controller answers.
	if err := d.Command(raw); err != nil {
		return err
	}

	twoLine := d.rows > 1
	if err := d.Command(funcSet(false, twoLine, d.font == Font5x10)); err != nil {
		return err
	}
	if err := d.wait(d.timings.BusyHoldShort); err != nil {
		return err
	}

	if err := d.Clear(); err != nil {
		return err
	}

	log.Debug("lcd: initialized")
	return nil
}
