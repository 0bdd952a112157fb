// main.go - command-line entry point. Grounded on z80opt's cobra root
// command with per-flag pflag bindings (one Command, Flags() populated
// inline rather than a package-level flag.FlagSet), generalized from
// z80opt's subcommand-per-verb layout down to one verb — run a ROM —
// with flags instead of subcommands, since this tool only ever does
// one thing.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dotrunner/core"
)

func main() {
	var headless bool
	var scale int
	var breakpoints []string
	var savePath string
	var loadPath string

	root := &cobra.Command{
		Use:   "dotrunner [rom]",
		Short: "A cycle-stepped Sharp LR35902 handheld console core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runROM(args[0], headless, scale, breakpoints, savePath, loadPath)
		},
	}

	root.Flags().BoolVar(&headless, "headless", false, "run without an ebiten window")
	root.Flags().IntVar(&scale, "scale", 3, "window scale factor (windowed mode only)")
	root.Flags().StringArrayVar(&breakpoints, "break", nil, "hex address to break at (repeatable), opens the monitor")
	root.Flags().StringVar(&savePath, "save", "", "write a save state to this path on exit")
	root.Flags().StringVar(&loadPath, "load", "", "load a save state from this path before running")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func banner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	fmt.Println("dotrunner - a Sharp LR35902-family handheld console core")
}

func runROM(path string, headless bool, scale int, breakAddrs []string, savePath, loadPath string) error {
	banner()

	rom, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	device := core.NewDevice()
	if err := device.LoadFile(rom); err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	if loadPath != "" {
		if err := device.LoadState(loadPath); err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
	}

	if savePath != "" {
		defer func() {
			if err := device.SaveState(savePath); err != nil {
				fmt.Fprintf(os.Stderr, "saving state: %v\n", err)
			}
		}()
	}

	if len(breakAddrs) > 0 {
		return runWithMonitor(device, breakAddrs)
	}

	if headless {
		return runHeadless(device)
	}
	return runWindowed(device, scale)
}
