package hd44780

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSequence(t *testing.T) {
	d, bus := testDriver(t)
	bus.reads = readyNow()

	require.NoError(t, d.Command(0xA5))

	want := []cycleRec{
		// high nibble strobe
		{false, false, false, 0xA5},
		{false, false, true, 0xA5},
		{false, false, false, 0xA5},
		// low nibble strobe, byte pre-shifted
		{false, false, false, 0x50},
		{false, false, true, 0x50},
		{false, false, false, 0x50},
		// busy poll: setup, pulse, sample, drop, low-nibble tick
		{true, false, false, 0x00},
		{true, false, true, 0x00},
		{true, false, true, 0x00},
		{true, false, false, 0x00},
		{true, false, true, 0x00},
		{true, false, false, 0x00},
		// idle write leaves the bus defined
		{false, false, false, 0x00},
	}
	assert.Equal(t, want, bus.cycles)
	assert.Empty(t, bus.reads, "all scripted status reads consumed")
}

func TestWriteRaisesRegisterSelect(t *testing.T) {
	d, bus := testDriver(t)
	bus.reads = readyNow()

	require.NoError(t, d.Write(0x41))

	for i, c := range bus.cycles[:6] {
		assert.True(t, c.rs, "cycle %d", i)
		assert.False(t, c.read, "cycle %d", i)
	}
	// Busy polling always addresses the instruction register.
	for i, c := range bus.cycles[6:] {
		assert.False(t, c.rs, "cycle %d", i+6)
	}
}

func TestCommandSequence8Bit(t *testing.T) {
	d, bus := testDriver(t, WithBusWidth(Bus8))
	bus.reads = []byte{0x00, 0x00} // one pulse raise + one sample per poll

	require.NoError(t, d.Command(0x38))

	want := []cycleRec{
		{false, false, false, 0x38},
		{false, false, true, 0x38},
		{false, false, false, 0x38},
		{true, false, false, 0x00},
		{true, false, true, 0x00},
		{true, false, true, 0x00},
		{true, false, false, 0x00},
		{false, false, false, 0x00},
	}
	assert.Equal(t, want, bus.cycles)
}

func TestWriteOnlySkipsBusyPoll(t *testing.T) {
	d, bus := testDriver(t, WriteOnly())

	require.NoError(t, d.Command(0x0C))

	assert.Len(t, bus.cycles, 6, "two strobes, no poll")
	for _, c := range bus.cycles {
		assert.False(t, c.read)
	}
	assert.Equal(t, distinctTimings().BusyHoldShort, bus.delays[len(bus.delays)-1])
}

func TestBusyPollIterations(t *testing.T) {
	for _, n := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprintf("busy%d", n), func(t *testing.T) {
			d, bus := testDriver(t)
			bus.reads = busyFor(n)

			require.NoError(t, d.Command(0x80))

			assert.Empty(t, bus.reads)
			assert.Equal(t, n+1, bus.countDelays(distinctTimings().BusyInterval),
				"one poll interval per iteration")
		})
	}
}

func TestBusyLimitAborts(t *testing.T) {
	d, bus := testDriver(t, WithBusyLimit(3))
	bus.defaultRead = 0x80 // controller never reports ready

	err := d.Command(0x80)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusyTimeout)
	assert.ErrorIs(t, d.Err(), ErrBusyTimeout)
	assert.Equal(t, 3, bus.countDelays(distinctTimings().BusyInterval))
}

func TestUnboundedPollRunsUntilFailure(t *testing.T) {
	d, bus := testDriver(t)
	bus.defaultRead = 0x80
	bus.failDelayAt = 40 // some delay deep inside the poll loop

	err := d.Command(0x80)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestFailureAtEveryBusCycle(t *testing.T) {
	// Establish the cycle count of a clean transaction first.
	clean, cleanBus := testDriver(t)
	cleanBus.reads = readyNow()
	require.NoError(t, clean.Command(0xA5))
	total := len(cleanBus.cycles)

	for i := 0; i < total; i++ {
		d, bus := testDriver(t)
		bus.reads = readyNow()
		bus.failCycleAt = i

		err := d.Command(0xA5)
		require.Error(t, err, "cycle %d", i)
		assert.ErrorIs(t, err, ErrIO, "cycle %d", i)
		assert.ErrorIs(t, d.Err(), ErrIO, "cycle %d", i)
		assert.Len(t, bus.cycles, i, "no cycles issued after failure at %d", i)
	}
}

func TestFailureAtEveryDelay(t *testing.T) {
	clean, cleanBus := testDriver(t)
	cleanBus.reads = readyNow()
	require.NoError(t, clean.Command(0xA5))
	totalDelays := len(cleanBus.delays)
	totalCycles := len(cleanBus.cycles)

	for i := 0; i < totalDelays; i++ {
		d, bus := testDriver(t)
		bus.reads = readyNow()
		bus.failDelayAt = i

		err := d.Command(0xA5)
		require.Error(t, err, "delay %d", i)
		assert.ErrorIs(t, err, ErrIO, "delay %d", i)
		assert.Less(t, len(bus.cycles), totalCycles, "transaction aborted early at delay %d", i)
	}
}

func TestErrRecordAndClear(t *testing.T) {
	d, bus := testDriver(t)
	bus.failCycleAt = 0

	require.Error(t, d.Command(0x01))
	require.ErrorIs(t, d.Err(), ErrIO)

	d.ClearErr()
	assert.NoError(t, d.Err())
}
