package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callebjorkell/charlcd/hd44780"
)

const fullConfig = `
display:
  cols: 20
  rows: 4
  writeOnly: false
  busyLimit: 200
pins:
  rs: GPIO4
  rw: GPIO18
  e: GPIO17
  data: [GPIO25, GPIO22, GPIO23, GPIO24]
timing:
  addressSetup: 20
  busyHoldLong: 60000
`

func TestParseConfig(t *testing.T) {
	c, err := parseConfig([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, 20, c.Display.Cols)
	assert.Equal(t, 4, c.Display.Rows)
	assert.Equal(t, "GPIO4", c.Pins.RS)
	assert.Equal(t, [4]string{"GPIO25", "GPIO22", "GPIO23", "GPIO24"}, c.pins().Data)

	timings := c.timings()
	assert.Equal(t, 20*time.Microsecond, timings.AddressSetup)
	assert.Equal(t, 60*time.Millisecond, timings.BusyHoldLong)
	// Untouched values keep the driver defaults.
	assert.Equal(t, hd44780.DefaultTimings().EnableHold, timings.EnableHold)
}

func TestParseConfigDefaults(t *testing.T) {
	c, err := parseConfig([]byte(`
display:
  writeOnly: true
pins:
  rs: GPIO4
  e: GPIO17
  data: [GPIO25, GPIO22, GPIO23, GPIO24]
`))
	require.NoError(t, err)
	assert.Equal(t, 16, c.Display.Cols)
	assert.Equal(t, 2, c.Display.Rows)
}

func TestParseConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing rs", `
pins:
  e: GPIO17
  data: [a, b, c, d]
display: {writeOnly: true}`},
		{"missing e", `
pins:
  rs: GPIO4
  data: [a, b, c, d]
display: {writeOnly: true}`},
		{"wrong data pin count", `
pins:
  rs: GPIO4
  e: GPIO17
  data: [a, b, c]
display: {writeOnly: true}`},
		{"readback without rw pin", `
pins:
  rs: GPIO4
  e: GPIO17
  data: [a, b, c, d]`},
		{"bad font", `
display: {font: 7x9, writeOnly: true}
pins:
  rs: GPIO4
  e: GPIO17
  data: [a, b, c, d]`},
		{"too many rows", `
display: {rows: 5, writeOnly: true}
pins:
  rs: GPIO4
  e: GPIO17
  data: [a, b, c, d]`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parseConfig([]byte(c.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDriverOptionsApply(t *testing.T) {
	c, err := parseConfig([]byte(fullConfig))
	require.NoError(t, err)

	d, err := hd44780.New(hd44780.CycleFunc(func(read, rs, enable bool, data byte) (byte, error) {
		return 0, nil
	}), nil, c.driverOptions()...)
	require.NoError(t, err)

	cols, rows := d.Size()
	assert.Equal(t, 20, cols)
	assert.Equal(t, 4, rows)
}
