package main

import (
	"os"
	"os/signal"
	"syscall"

	"dotrunner/core"
)

// runHeadless drives the scheduler with no video output: events only
// ever carry Exit, delivered on SIGINT/SIGTERM. Grounded on main.go's
// own startExecution path (load a program, run it, nothing watching
// the screen) generalized from a one-shot run to a signal-driven stop.
func runHeadless(device *core.Device) error {
	events := make(chan core.Event, 4)
	frames := make(chan []uint32, 1)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		events <- core.Event{Kind: core.EventExit}
	}()

	device.Run(events, frames)
	return nil
}
