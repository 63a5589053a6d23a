// Package gpiobus implements the driver's bus port on top of periph.io GPIO
// pins for displays wired in 4-bit mode: RS, E and optionally R/W as
// dedicated lines, and four data lines on the controller's D4-D7.
package gpiobus

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pins names the GPIO lines by their periph names (e.g. "GPIO4"). RW may be
// empty when the display's R/W line is strapped low; read cycles then fail
// and the driver must be configured write-only.
type Pins struct {
	RS   string
	RW   string
	E    string
	Data [4]string // D4..D7
}

// Bus drives one display over GPIO. Not safe for concurrent use; it owns
// the pins exclusively.
type Bus struct {
	rs, en gpio.PinIO
	rw     gpio.PinIO // nil in write-only wirings
	data   [4]gpio.PinIO

	reading bool // data pins currently configured as inputs
}

// New looks up the named pins and returns a ready bus. The periph host is
// initialized as a side effect.
func New(p Pins) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	b := &Bus{}
	var err error
	if b.rs, err = pin(p.RS); err != nil {
		return nil, err
	}
	if b.en, err = pin(p.E); err != nil {
		return nil, err
	}
	if p.RW != "" {
		if b.rw, err = pin(p.RW); err != nil {
			return nil, err
		}
	}
	for i, name := range p.Data {
		if b.data[i], err = pin(name); err != nil {
			return nil, err
		}
	}

	log.Debugf("gpiobus: rs=%s rw=%s e=%s data=%v", p.RS, p.RW, p.E, p.Data)
	return b, nil
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("pin name missing")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", name)
	}
	return p, nil
}

// Cycle performs one electrical half-cycle. The data lines carry the top
// nibble of data; on reads the sampled nibble is returned in the top four
// bits, so the busy flag lands on bit 7.
func (b *Bus) Cycle(read, rs, enable bool, data byte) (byte, error) {
	if read && b.rw == nil {
		return 0, fmt.Errorf("r/w line not wired, bus is write-only")
	}

	if err := b.rs.Out(gpio.Level(rs)); err != nil {
		return 0, fmt.Errorf("rs: %w", err)
	}
	if b.rw != nil {
		if err := b.rw.Out(gpio.Level(read)); err != nil {
			return 0, fmt.Errorf("rw: %w", err)
		}
	}

	var sample byte
	if read {
		if err := b.float(); err != nil {
			return 0, err
		}
		if err := b.en.Out(gpio.Level(enable)); err != nil {
			return 0, fmt.Errorf("e: %w", err)
		}
		if enable {
			for i, p := range b.data {
				if p.Read() == gpio.High {
					sample |= 0x10 << i
				}
			}
		}
		return sample, nil
	}

	if err := b.drive(data); err != nil {
		return 0, err
	}
	if err := b.en.Out(gpio.Level(enable)); err != nil {
		return 0, fmt.Errorf("e: %w", err)
	}
	return 0, nil
}

// drive configures the data pins as outputs carrying the top nibble of
// data.
func (b *Bus) drive(data byte) error {
	b.reading = false
	for i, p := range b.data {
		level := gpio.Level(data&(0x10<<i) != 0)
		if err := p.Out(level); err != nil {
			return fmt.Errorf("data %d: %w", i, err)
		}
	}
	return nil
}

// float flips the data pins to inputs ahead of a read.
func (b *Bus) float() error {
	if b.reading {
		return nil
	}
	for i, p := range b.data {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return fmt.Errorf("data %d: %w", i, err)
		}
	}
	b.reading = true
	return nil
}
