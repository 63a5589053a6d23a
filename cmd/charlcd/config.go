package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/callebjorkell/charlcd/hd44780"
	"github.com/callebjorkell/charlcd/internal/gpiobus"
)

const (
	defaultCols = 16
	defaultRows = 2
)

// Config describes one attached display: geometry, wiring and timing
// overrides. Timing values are microseconds; zero keeps the driver default.
type Config struct {
	Display struct {
		Cols      int    `yaml:"cols"`
		Rows      int    `yaml:"rows"`
		Font      string `yaml:"font"`
		WriteOnly bool   `yaml:"writeOnly"`
		BusyLimit int    `yaml:"busyLimit"`
	} `yaml:"display"`
	Pins struct {
		RS   string   `yaml:"rs"`
		RW   string   `yaml:"rw"`
		E    string   `yaml:"e"`
		Data []string `yaml:"data"`
	} `yaml:"pins"`
	Timing struct {
		AddressSetup  int `yaml:"addressSetup"`
		EnableHold    int `yaml:"enableHold"`
		DataHold      int `yaml:"dataHold"`
		BusyInterval  int `yaml:"busyInterval"`
		BusyHoldShort int `yaml:"busyHoldShort"`
		BusyHoldLong  int `yaml:"busyHoldLong"`
	} `yaml:"timing"`
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, err
	}

	if c.Display.Cols == 0 {
		c.Display.Cols = defaultCols
	}
	if c.Display.Rows == 0 {
		c.Display.Rows = defaultRows
	}
	if c.Display.Cols < 1 || c.Display.Rows < 1 || c.Display.Rows > 4 {
		return nil, fmt.Errorf("unusable display geometry %dx%d", c.Display.Cols, c.Display.Rows)
	}
	switch c.Display.Font {
	case "", "5x8", "5x10":
	default:
		return nil, fmt.Errorf("font must be 5x8 or 5x10, not %q", c.Display.Font)
	}

	if c.Pins.RS == "" {
		return nil, fmt.Errorf("rs pin is missing")
	}
	if c.Pins.E == "" {
		return nil, fmt.Errorf("e pin is missing")
	}
	if len(c.Pins.Data) != 4 {
		return nil, fmt.Errorf("exactly 4 data pins are needed, got %d", len(c.Pins.Data))
	}
	for i, p := range c.Pins.Data {
		if p == "" {
			return nil, fmt.Errorf("data pin %d is missing", i)
		}
	}
	if c.Pins.RW == "" && !c.Display.WriteOnly {
		return nil, fmt.Errorf("no rw pin configured: set writeOnly or wire the r/w line")
	}

	return c, nil
}

func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(content)
}

func (c *Config) pins() gpiobus.Pins {
	p := gpiobus.Pins{
		RS: c.Pins.RS,
		RW: c.Pins.RW,
		E:  c.Pins.E,
	}
	copy(p.Data[:], c.Pins.Data)
	return p
}

func (c *Config) driverOptions() []hd44780.Option {
	opts := []hd44780.Option{
		hd44780.WithSize(c.Display.Cols, c.Display.Rows),
		hd44780.WithTimings(c.timings()),
	}
	if c.Display.Font == "5x10" {
		opts = append(opts, hd44780.WithFont(hd44780.Font5x10))
	}
	if c.Display.WriteOnly {
		opts = append(opts, hd44780.WriteOnly())
	}
	if c.Display.BusyLimit > 0 {
		opts = append(opts, hd44780.WithBusyLimit(c.Display.BusyLimit))
	}
	return opts
}

func (c *Config) timings() hd44780.Timings {
	t := hd44780.DefaultTimings()
	us := func(v int) time.Duration { return time.Duration(v) * time.Microsecond }
	if c.Timing.AddressSetup > 0 {
		t.AddressSetup = us(c.Timing.AddressSetup)
	}
	if c.Timing.EnableHold > 0 {
		t.EnableHold = us(c.Timing.EnableHold)
	}
	if c.Timing.DataHold > 0 {
		t.DataHold = us(c.Timing.DataHold)
	}
	if c.Timing.BusyInterval > 0 {
		t.BusyInterval = us(c.Timing.BusyInterval)
	}
	if c.Timing.BusyHoldShort > 0 {
		t.BusyHoldShort = us(c.Timing.BusyHoldShort)
	}
	if c.Timing.BusyHoldLong > 0 {
		t.BusyHoldLong = us(c.Timing.BusyHoldLong)
	}
	return t
}
