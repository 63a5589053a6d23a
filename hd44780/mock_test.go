package hd44780

import (
	"errors"
	"time"
)

// cycleRec is one recorded bus half-cycle.
type cycleRec struct {
	read, rs, en bool
	data         byte
}

// testBus implements Bus and Delayer, recording every half-cycle and delay.
// Status reads pop scripted bytes from the reads queue (enable-high read
// cycles only); an empty queue returns defaultRead. Failures can be injected
// at any cycle or delay index.
type testBus struct {
	cycles      []cycleRec
	delays      []time.Duration
	reads       []byte
	defaultRead byte

	failCycleAt int // fail the n-th bus cycle; -1 disables
	failDelayAt int // fail the n-th delay; -1 disables
	delayCount  int
}

var errBoom = errors.New("boom")

func newTestBus() *testBus {
	return &testBus{failCycleAt: -1, failDelayAt: -1}
}

func (b *testBus) Cycle(read, rs, enable bool, data byte) (byte, error) {
	if b.failCycleAt >= 0 && len(b.cycles) == b.failCycleAt {
		return 0, errBoom
	}
	b.cycles = append(b.cycles, cycleRec{read, rs, enable, data})
	if read && enable {
		if len(b.reads) > 0 {
			v := b.reads[0]
			b.reads = b.reads[1:]
			return v, nil
		}
		return b.defaultRead, nil
	}
	return 0, nil
}

func (b *testBus) Delay(d time.Duration) error {
	if b.failDelayAt >= 0 && b.delayCount == b.failDelayAt {
		return errBoom
	}
	b.delayCount++
	b.delays = append(b.delays, d)
	return nil
}

// countDelays returns how many recorded delays equal d.
func (b *testBus) countDelays(d time.Duration) int {
	n := 0
	for _, rec := range b.delays {
		if rec == d {
			n++
		}
	}
	return n
}

// latched returns the data bytes presented on write cycles with enable
// high, i.e. everything the controller would latch, in order.
func (b *testBus) latched() []byte {
	var out []byte
	for _, c := range b.cycles {
		if !c.read && c.en {
			out = append(out, c.data)
		}
	}
	return out
}

// transfers reassembles full 4-bit transfers from the latched nibble pairs,
// returning (rs, byte) per transfer. Only valid for traces consisting of
// complete transactions.
type transfer struct {
	rs   bool
	data byte
}

func (b *testBus) transfers() []transfer {
	var out []transfer
	var pending *cycleRec
	for i := range b.cycles {
		c := b.cycles[i]
		if c.read || !c.en {
			continue
		}
		if pending == nil {
			pending = &c
			continue
		}
		out = append(out, transfer{c.rs, pending.data&0xF0 | c.data>>4})
		pending = nil
	}
	return out
}

// distinctTimings makes every timing value unique so delays can be told
// apart in the recorded trace.
func distinctTimings() Timings {
	return Timings{
		AddressSetup:  1 * time.Microsecond,
		EnableHold:    2 * time.Microsecond,
		DataHold:      3 * time.Microsecond,
		BusyInterval:  4 * time.Microsecond,
		BusyHoldShort: 5 * time.Microsecond,
		BusyHoldLong:  6 * time.Microsecond,
	}
}

// readyNow scripts a single poll iteration that reports ready immediately.
// A 4-bit status poll pops three enable-high reads per iteration: the pulse
// raise, the sample, and the discarded low-nibble pulse.
func readyNow() []byte {
	return []byte{0x00, 0x00, 0x00}
}

// busyFor scripts n busy iterations followed by a ready one.
func busyFor(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		out = append(out, 0x80, 0x80, 0x80)
	}
	return append(out, readyNow()...)
}
