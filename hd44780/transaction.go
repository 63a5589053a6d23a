package hd44780

import (
	"fmt"
	"time"
)

// Command sends an instruction byte (register select low) and waits for the
// controller to finish it.
func (d *Driver) Command(cmd byte) error {
	return d.transact(false, cmd)
}

// Write sends a data byte (register select high) to the current display- or
// character-RAM address and waits for the controller to finish it.
func (d *Driver) Write(data byte) error {
	return d.transact(true, data)
}

// transact performs one full bus transaction: the byte (split into two
// half-transactions in 4-bit mode, high nibble first), then either a fixed
// hold (write-only wiring) or a busy-flag poll until the controller reports
// ready. A failing bus or delay call aborts immediately with the error
// recorded; no further cycles of this transaction are issued, and the bus
// may be left mid-sequence.
func (d *Driver) transact(rs bool, b byte) error {
	if err := d.strobe(rs, b, d.timings.DataHold); err != nil {
		return err
	}
	if d.width == Bus4 {
		// Same sequence again with the low nibble moved up to the
		// data lines.
		if err := d.strobe(rs, b<<4, d.timings.DataHold); err != nil {
			return err
		}
	}

	if d.writeOnly {
		return d.wait(d.timings.BusyHoldShort)
	}
	return d.waitReady()
}

// strobe latches b onto the bus with a single enable pulse: present the
// byte, let the address lines settle, pulse enable, then hold.
func (d *Driver) strobe(rs bool, b byte, hold time.Duration) error {
	if err := d.cycle(false, rs, false, b); err != nil {
		return err
	}
	if err := d.wait(d.timings.AddressSetup); err != nil {
		return err
	}
	return d.pulse(rs, b, hold)
}

// pulse raises and drops enable around the already presented byte.
func (d *Driver) pulse(rs bool, b byte, hold time.Duration) error {
	if err := d.cycle(false, rs, true, b); err != nil {
		return err
	}
	if err := d.wait(d.timings.EnableHold); err != nil {
		return err
	}
	if err := d.cycle(false, rs, false, b); err != nil {
		return err
	}
	return d.wait(hold)
}

// waitReady polls the busy flag (bit 7 of a status read) until the
// controller reports ready, then issues a final write cycle to leave the
// bus in a defined idle state. In 4-bit mode every status read produces a
// second nibble that must be clocked out and discarded.
func (d *Driver) waitReady() error {
	if err := d.readCycle(false); err != nil {
		return err
	}
	if err := d.wait(d.timings.AddressSetup); err != nil {
		return err
	}

	polls := 0
	for {
		if err := d.wait(d.timings.BusyInterval); err != nil {
			return err
		}
		if err := d.readCycle(true); err != nil {
			return err
		}
		if err := d.wait(d.timings.EnableHold); err != nil {
			return err
		}
		status, err := d.bus.Cycle(true, false, true, 0)
		if err != nil {
			return d.fail(err)
		}
		if err := d.readCycle(false); err != nil {
			return err
		}
		if d.width == Bus4 {
			// Low status nibble, sampled and thrown away.
			if err := d.wait(d.timings.DataHold); err != nil {
				return err
			}
			if err := d.readCycle(true); err != nil {
				return err
			}
			if err := d.wait(d.timings.EnableHold); err != nil {
				return err
			}
			if err := d.readCycle(false); err != nil {
				return err
			}
		}

		if status&busyFlag == 0 {
			break
		}
		polls++
		if d.busyLimit > 0 && polls >= d.busyLimit {
			err := fmt.Errorf("%w after %d polls", ErrBusyTimeout, polls)
			d.lastErr = err
			return err
		}
	}

	return d.cycle(false, false, false, 0)
}

// cycle runs one write half-cycle, recording any failure.
func (d *Driver) cycle(read, rs, enable bool, b byte) error {
	if _, err := d.bus.Cycle(read, rs, enable, b); err != nil {
		return d.fail(err)
	}
	return nil
}

// readCycle runs one half-cycle with the bus in read mode, discarding the
// sampled value.
func (d *Driver) readCycle(enable bool) error {
	if _, err := d.bus.Cycle(true, false, enable, 0); err != nil {
		return d.fail(err)
	}
	return nil
}

// wait suspends for at least dur via the injected Delayer, recording any
// failure.
func (d *Driver) wait(dur time.Duration) error {
	if err := d.delay.Delay(dur); err != nil {
		return d.fail(err)
	}
	return nil
}
