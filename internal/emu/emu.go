// Package emu provides a software model of an HD44780-compatible controller
// wired for a 4-bit bus. It implements the driver's Bus contract, latching
// nibbles on enable edges, decoding the instruction set into display and
// character RAM, and serving busy-flag status reads. It backs the demo
// command and end-to-end tests where no hardware is attached.
package emu

import "strings"

const (
	ddramSize = 128
	cgramSize = 64
)

// LCD is one emulated controller. The zero value is not usable; create
// instances with New.
type LCD struct {
	cols, rows int

	// BusyPolls is how many busy status reads the controller reports
	// after each executed instruction before declaring itself ready.
	BusyPolls int

	ddram [ddramSize]byte
	cgram [cgramSize]byte

	ac        byte // address counter
	inCG      bool // ac points into character RAM
	increment bool
	on        bool
	cursor    bool
	blink     bool

	mode8 bool // interface width state; power-on default is 8-bit

	en      bool // current state of the enable line
	hi      byte // first nibble of a half-finished write
	phase   bool // waiting for the low nibble
	readLo  bool // next status pulse outputs the low nibble
	readOut byte // value driven onto the lines during a read pulse
	busy    int
}

// New returns a powered-on controller for the given geometry. Like real
// silicon it wakes up in 8-bit mode and must be walked through the reset
// ladder before 4-bit transfers make sense.
func New(cols, rows int) *LCD {
	l := &LCD{
		cols:      cols,
		rows:      rows,
		mode8:     true,
		increment: true,
	}
	l.clear()
	return l
}

// Cycle implements the bus port: one electrical half-cycle. Data is latched
// on the falling enable edge of write cycles; status is driven while enable
// is high on read cycles.
func (l *LCD) Cycle(read, rs, enable bool, data byte) (byte, error) {
	if read {
		if enable && !l.en {
			status := l.status()
			switch {
			case l.mode8:
				l.readOut = status
			case l.readLo:
				l.readOut = status << 4
			default:
				l.readOut = status & 0xF0
			}
		}
		if !enable && l.en {
			if l.mode8 {
				l.settle()
			} else {
				l.readLo = !l.readLo
				if !l.readLo {
					l.settle()
				}
			}
		}
		l.en = enable
		if enable {
			return l.readOut, nil
		}
		return 0, nil
	}

	if !enable && l.en {
		l.latch(rs, data)
	}
	l.en = enable
	return 0, nil
}

// Screen renders the visible display contents, one string per row.
func (l *LCD) Screen() []string {
	out := make([]string, l.rows)
	for y := 0; y < l.rows; y++ {
		var row strings.Builder
		for x := 0; x < l.cols; x++ {
			row.WriteByte(l.ddram[l.addrOf(x, y)])
		}
		out[y] = row.String()
	}
	return out
}

// Glyph returns the stored bitmap for a 5x8 glyph slot.
func (l *LCD) Glyph(slot int) []byte {
	start := (slot & 0x07) << 3
	bits := make([]byte, 8)
	copy(bits, l.cgram[start:start+8])
	return bits
}

// DisplayOn reports whether the display-on bit is set.
func (l *LCD) DisplayOn() bool {
	return l.on
}

// AddressCounter returns the controller's internal address counter.
func (l *LCD) AddressCounter() byte {
	return l.ac
}

func (l *LCD) addrOf(x, y int) int {
	addr := x + 64*(y%2)
	if y >= 2 {
		addr += l.cols
	}
	return addr & (ddramSize - 1)
}

func (l *LCD) status() byte {
	s := l.ac & 0x7F
	if l.busy > 0 {
		s |= 0x80
	}
	return s
}

// settle is called when a full status read completes; internal operation
// time is modeled as a countdown of polls.
func (l *LCD) settle() {
	if l.busy > 0 {
		l.busy--
	}
}

// latch consumes one nibble (or a whole byte in 8-bit mode) from the data
// lines. Only D4-D7 are wired, so in 8-bit mode the low half reads as zero.
func (l *LCD) latch(rs bool, data byte) {
	if l.mode8 {
		l.exec(rs, data&0xF0)
		return
	}
	if !l.phase {
		l.hi = data & 0xF0
		l.phase = true
		return
	}
	l.phase = false
	l.exec(rs, l.hi|data>>4)
}

func (l *LCD) exec(rs bool, b byte) {
	defer func() {
		l.busy = l.BusyPolls
	}()

	if rs {
		if l.inCG {
			l.cgram[l.ac&(cgramSize-1)] = b
		} else {
			l.ddram[l.ac&(ddramSize-1)] = b
		}
		l.step()
		return
	}

	switch {
	case b >= 0x80:
		l.ac = b & 0x7F
		l.inCG = false
	case b >= 0x40:
		l.ac = b & 0x3F
		l.inCG = true
	case b >= 0x20:
		l.mode8 = b&0x10 != 0
		l.phase = false
		l.readLo = false
	case b >= 0x10:
		// Cursor move / display shift. Display shifting is not
		// modeled; the address counter still moves.
		if b&0x04 != 0 {
			l.ac++
		} else {
			l.ac--
		}
	case b >= 0x08:
		l.on = b&0x04 != 0
		l.cursor = b&0x02 != 0
		l.blink = b&0x01 != 0
	case b >= 0x04:
		l.increment = b&0x02 != 0
	case b == 0x02:
		l.ac = 0
		l.inCG = false
	case b == 0x01:
		l.clear()
	}
}

func (l *LCD) step() {
	if l.increment {
		l.ac++
	} else {
		l.ac--
	}
	if l.inCG {
		l.ac &= cgramSize - 1
	} else {
		l.ac &= ddramSize - 1
	}
}

func (l *LCD) clear() {
	for i := range l.ddram {
		l.ddram[i] = ' '
	}
	l.ac = 0
	l.inCG = false
	l.increment = true
}
