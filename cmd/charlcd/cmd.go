package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/callebjorkell/charlcd/hd44780"
	"github.com/callebjorkell/charlcd/internal/emu"
	"github.com/callebjorkell/charlcd/internal/gpiobus"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "charlcd",
		Short: "Drive HD44780-compatible character LCD displays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Lookup("debug").Changed {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.PersistentFlags().Bool("debug", false, "Turn on debug logging.")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			showVersion()
		},
	}
}

func newWriteCmd() *cobra.Command {
	var (
		configFile string
		col, row   int
	)
	cmd := cobra.Command{
		Use:   "write <text>",
		Short: "Initialize the display and write text at the given position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDisplay(configFile)
			if err != nil {
				return err
			}
			if err := d.SetCursor(col, row); err != nil {
				return err
			}
			return d.WriteString(args[0])
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "charlcd.yaml", "Display configuration file.")
	cmd.Flags().IntVar(&col, "col", 0, "Column to start writing at.")
	cmd.Flags().IntVar(&row, "row", 0, "Row to write on.")

	return &cmd
}

func newClearCmd() *cobra.Command {
	var configFile string
	cmd := cobra.Command{
		Use:   "clear",
		Short: "Initialize and blank the display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Init already ends with a clear.
			_, err := openDisplay(configFile)
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "charlcd.yaml", "Display configuration file.")

	return &cmd
}

func newDemoCmd() *cobra.Command {
	var cols, rows int
	cmd := cobra.Command{
		Use:   "demo [text...]",
		Short: "Run the driver against an emulated display and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cols, rows, args)
		},
	}

	cmd.Flags().IntVar(&cols, "cols", 16, "Emulated display width.")
	cmd.Flags().IntVar(&rows, "rows", 2, "Emulated display height.")

	return &cmd
}

// openDisplay wires a driver to real GPIO pins per the config file and
// brings the display into a known state.
func openDisplay(configFile string) (*hd44780.Driver, error) {
	conf, err := readConfig(configFile)
	if err != nil {
		return nil, err
	}

	bus, err := gpiobus.New(conf.pins())
	if err != nil {
		return nil, err
	}

	d, err := hd44780.New(bus, nil, conf.driverOptions()...)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, fmt.Errorf("initialize display: %w", err)
	}
	if err := d.SetDisplay(true, false, false); err != nil {
		return nil, err
	}
	return d, nil
}

func runDemo(cols, rows int, lines []string) error {
	lcd := emu.New(cols, rows)
	lcd.BusyPolls = 2

	d, err := hd44780.New(lcd, instantDelay, hd44780.WithSize(cols, rows))
	if err != nil {
		return err
	}
	if err := d.Init(); err != nil {
		return err
	}
	if err := d.SetDisplay(true, false, false); err != nil {
		return err
	}

	if len(lines) == 0 {
		lines = []string{"Hello, world!", "charlcd demo"}
	}
	for i, line := range lines {
		if i >= rows {
			break
		}
		if err := d.SetCursor(0, i); err != nil {
			return err
		}
		if err := d.WriteString(line); err != nil {
			return err
		}
	}

	printScreen(lcd.Screen())
	return nil
}

// instantDelay skips the real timing waits; the emulator does not need
// them.
var instantDelay = hd44780.DelayFunc(func(time.Duration) error { return nil })

func printScreen(rows []string) {
	if len(rows) == 0 {
		return
	}
	border := make([]byte, len(rows[0]))
	for i := range border {
		border[i] = '-'
	}
	fmt.Printf("+%s+\n", border)
	for _, row := range rows {
		fmt.Printf("|%s|\n", row)
	}
	fmt.Printf("+%s+\n", border)
}
