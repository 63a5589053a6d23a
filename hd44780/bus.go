package hd44780

import "time"

// Bus performs one electrical half-cycle on the controller interface. The
// read, rs and enable flags mirror the R/W, RS and E lines; data carries the
// output byte when writing. When read is true, the returned byte is the
// sampled state of the data lines. In 4-bit wirings only the top four data
// bits are significant.
//
// Implementations own the physical bus exclusively. Any error aborts the
// transaction in progress.
type Bus interface {
	Cycle(read, rs, enable bool, data byte) (byte, error)
}

// CycleFunc adapts a plain function to the Bus interface.
type CycleFunc func(read, rs, enable bool, data byte) (byte, error)

func (f CycleFunc) Cycle(read, rs, enable bool, data byte) (byte, error) {
	return f(read, rs, enable, data)
}

// Delayer suspends execution for at least the given duration. Over-delay is
// harmless; under-delay violates the controller's timing contract.
type Delayer interface {
	Delay(d time.Duration) error
}

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(d time.Duration) error

func (f DelayFunc) Delay(d time.Duration) error {
	return f(d)
}

// Sleeper is the default Delayer. It blocks the calling goroutine with
// time.Sleep, which on a general-purpose kernel can overshoot generously but
// never undershoots.
type Sleeper struct{}

func (Sleeper) Delay(d time.Duration) error {
	time.Sleep(d)
	return nil
}
