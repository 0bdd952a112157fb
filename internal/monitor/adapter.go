// adapter.go - adapts a *core.Device to the Inspectable interface the
// monitor's model needs, keeping model.go itself free of any import on
// package core.

package monitor

import "dotrunner/core"

type deviceAdapter struct {
	device *core.Device
}

// Wrap returns an Inspectable view over a running Device for monitor.New.
func Wrap(device *core.Device) Inspectable {
	return deviceAdapter{device: device}
}

// Step executes one CPU instruction, running out all of its machine
// cycles, and advances only the CPU, not the timer or PPU: a debugger
// single-steps instructions, it doesn't need to keep wall-clock-paced
// peripherals moving in lockstep while the user is reading registers.
func (d deviceAdapter) Step() error {
	c := d.device.CPU
	if err := c.Step(d.device.Bus); err != nil {
		return err
	}
	for c.Cost() > 0 {
		if err := c.Step(d.device.Bus); err != nil {
			return err
		}
	}
	return nil
}

func (d deviceAdapter) PC() uint16 { return d.device.CPU.PC }
func (d deviceAdapter) SP() uint16 { return d.device.CPU.SP }

func (d deviceAdapter) Registers() (a, f, b, c, dd, e, h, l byte) {
	r := d.device.CPU.Registers
	return r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L
}

func (d deviceAdapter) Flags() (z, n, h, c bool) {
	r := d.device.CPU.Registers
	return r.Flag(1 << 7), r.Flag(1 << 6), r.Flag(1 << 5), r.Flag(1 << 4)
}

func (d deviceAdapter) Bus() reader { return d.device.Bus }
