// device.go - the scheduler owning CPU/bus/PPU/timer/joypad/infrared:
// a three-substate loop (Stopped/Running/Paused) that ticks the whole
// machine and drains one frontend event per checkpoint. Grounded on
// main.go's top-level run loop (mode dispatch, os.Exit(1) on fatal
// error) generalized from "pick one of six CPU families and run it" to
// "run the one fixed pipeline this console has."

package core

import (
	"bytes"
	"encoding/gob"
	"time"

	"dotrunner/core/corelog"
	"dotrunner/core/cpu"
	"dotrunner/core/joypad"
	"dotrunner/core/mbc"
	"dotrunner/core/ppu"
	"dotrunner/core/snapshot"
	"dotrunner/core/timer"
)

const (
	tickPeriod      = 238 * time.Nanosecond // ~4.194304 MHz machine-cycle rate
	frameCheckpoint = 16 * time.Millisecond
	eventPollPeriod = 100 * time.Millisecond // ~10 Hz while Stopped/Paused

	// paceWindow batches the target-rate check: sleeping to pace a
	// single 238ns tick is below the scheduler's useful granularity, so
	// pacing is checked once per paceWindow ticks instead.
	paceWindow = 4096
)

var log = corelog.New("device")

// Device ties every component together and exposes the one entry point
// a frontend needs: Run.
type Device struct {
	CPU    *cpu.CPU
	Bus    *Bus
	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad

	state   Substate
	romPath string
}

// NewDevice builds a Device with no cartridge loaded; call LoadFile (or
// send an Event) before Run.
func NewDevice() *Device {
	return &Device{
		CPU:    cpu.New(),
		PPU:    ppu.New(),
		Timer:  timer.New(),
		Joypad: joypad.New(),
		state:  Stopped,
	}
}

// LoadFile parses a ROM image and (re)builds the bus around its MBC,
// transitioning to Running on success and staying Stopped on failure.
func (d *Device) LoadFile(rom []byte) error {
	cart, err := LoadCartridge(rom)
	if err != nil {
		log.Warnf("cartridge load failed: %v", err)
		d.state = Stopped
		return err
	}
	d.Bus = NewBus(cart, d.PPU, d.Timer, d.Joypad)
	d.reset()
	d.state = Running
	return nil
}

func (d *Device) reset() {
	d.CPU.Reset()
	d.PPU.Reset()
	d.Timer.Reset()
}

// SaveState writes a save file for the currently loaded cartridge. It
// is safe to call from outside the Run loop (the CLI's --save flag
// uses it directly rather than routing through the event channel).
func (d *Device) SaveState(path string) error { return d.saveState(path) }

// LoadState restores a save file written by SaveState.
func (d *Device) LoadState(path string) error { return d.loadState(path) }

// saveState gob-encodes every component's State alongside a PNG
// thumbnail of the current frame, via package snapshot.
func (d *Device) saveState(path string) error {
	if d.Bus == nil {
		return newError(KindAccessViolation, d.CPU.PC, "save state requested with no cartridge loaded")
	}

	cpuState, err := encodeState(d.CPU.SaveState())
	if err != nil {
		return err
	}
	busState, err := encodeState(d.Bus.SaveState())
	if err != nil {
		return err
	}
	ppuState, err := encodeState(d.PPU.SaveState())
	if err != nil {
		return err
	}
	timerState, err := encodeState(d.Timer.SaveState())
	if err != nil {
		return err
	}

	st := snapshot.State{
		ROMPath: d.romPath,
		CPU:     cpuState,
		Bus:     busState,
		PPU:     ppuState,
		Timer:   timerState,
	}

	if ctrl, ok := d.Bus.MBCController.(*mbc.Controller); ok {
		mbcState, err := encodeState(ctrl.SaveState())
		if err != nil {
			return err
		}
		st.MBC = mbcState
	}

	return snapshot.Save(path, st, d.PPU.CurrentFrame())
}

// loadState restores a file written by saveState. It refuses to load
// onto a Device with no cartridge: LoadFile must run first so the MBC
// and its RAM sizing exist to receive MBCState.
func (d *Device) loadState(path string) error {
	if d.Bus == nil {
		return newError(KindAccessViolation, d.CPU.PC, "load state requested with no cartridge loaded")
	}

	st, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	var cpuState cpu.State
	if err := decodeState(st.CPU, &cpuState); err != nil {
		return err
	}
	d.CPU.LoadState(cpuState)

	var ppuState ppu.State
	if err := decodeState(st.PPU, &ppuState); err != nil {
		return err
	}
	d.PPU.LoadState(ppuState)

	var timerState timer.State
	if err := decodeState(st.Timer, &timerState); err != nil {
		return err
	}
	d.Timer.LoadState(timerState)

	var busState State
	if err := decodeState(st.Bus, &busState); err != nil {
		return err
	}
	d.Bus.LoadState(busState)

	if ctrl, ok := d.Bus.MBCController.(*mbc.Controller); ok && len(st.MBC) > 0 {
		var mbcState mbc.State
		if err := decodeState(st.MBC, &mbcState); err != nil {
			return err
		}
		ctrl.LoadState(mbcState)
	}

	return nil
}

func encodeState(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeState(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Run blocks until an Exit event, draining events and (while Running)
// advancing the machine.
func (d *Device) Run(events <-chan Event, frameSink chan<- []uint32) {
	lastCheckpoint := time.Now()
	windowStart := time.Now()
	ticksInWindow := 0

	for {
		switch d.state {
		case Stopped, Paused:
			select {
			case ev, ok := <-events:
				if !ok {
					log.Faultf("event channel disconnected")
					return
				}
				if d.handleEvent(ev, frameSink) {
					return
				}
			case <-time.After(eventPollPeriod):
			}

		case Running:
			// At most one event is drained per frame checkpoint; between
			// checkpoints pending stays nil, which never receives, so the
			// select falls through to default.
			var pending <-chan Event
			if time.Since(lastCheckpoint) >= frameCheckpoint {
				pending = events
			}
			select {
			case ev, ok := <-pending:
				if !ok {
					log.Faultf("event channel disconnected")
					return
				}
				if d.handleEvent(ev, frameSink) {
					return
				}
			default:
			}

			if d.state == Running {
				d.tick()
				ticksInWindow++
				if ticksInWindow >= paceWindow {
					if behind := tickPeriod*paceWindow - time.Since(windowStart); behind > 0 {
						time.Sleep(behind)
					}
					windowStart = time.Now()
					ticksInWindow = 0
				}
			}

			if time.Since(lastCheckpoint) >= frameCheckpoint {
				lastCheckpoint = time.Now()
				d.publishFrame(frameSink)
			}
		}
	}
}

// tick advances every component by one machine cycle: the CPU first
// (one Step() call always costs exactly one cycle, whether it is
// spinning out a multi-cycle instruction or dispatching a fresh one),
// then the timer and PPU — in that order, so a bus read performed
// within the CPU's own cycle observes their pre-tick state.
func (d *Device) tick() {
	if err := d.CPU.Step(d.Bus); err != nil {
		log.Faultf("%v", err)
		d.state = Stopped
		return
	}
	if err := d.Bus.TakeFault(); err != nil {
		log.Faultf("%v", err)
		d.state = Stopped
		return
	}

	d.Timer.Step()
	if d.Timer.DrainInterrupt() {
		d.Bus.RaiseInterrupt(0x04)
	}

	for dot := 0; dot < 4; dot++ {
		d.PPU.Step()
	}
	if d.PPU.VBlankInterrupt {
		d.PPU.VBlankInterrupt = false
		d.Bus.RaiseInterrupt(0x01)
	}
	if d.PPU.StatInterrupt {
		d.PPU.StatInterrupt = false
		d.Bus.RaiseInterrupt(0x02)
	}
}

func (d *Device) publishFrame(sink chan<- []uint32) {
	if !d.PPU.FrameReady {
		return
	}
	frame := d.PPU.Frame()
	select {
	case sink <- frame:
	default:
		<-sink // drop the stale frame, lossy by design
		sink <- frame
	}
}

func (d *Device) handleEvent(ev Event, frameSink chan<- []uint32) (exit bool) {
	switch ev.Kind {
	case EventKeyDown:
		for _, k := range ev.Keys {
			d.Joypad.Press(k)
		}
	case EventKeyUp:
		for _, k := range ev.Keys {
			d.Joypad.Release(k)
		}
	case EventLoadFile:
		// Records the path save states should remember, only; actually
		// parsing and swapping in a new cartridge mid-run is the CLI's
		// Device.LoadFile, called directly rather than through an event
		// (loading a ROM file from inside the frontend event loop is
		// out of scope here).
		d.romPath = ev.Path
	case EventSaveState:
		if err := d.saveState(ev.Path); err != nil {
			log.Warnf("save state failed: %v", err)
		}
	case EventLoadState:
		if err := d.loadState(ev.Path); err != nil {
			log.Warnf("load state failed: %v", err)
		}
	case EventRun:
		if d.Bus != nil {
			d.state = Running
		}
	case EventPause:
		d.state = Paused
	case EventReset:
		d.reset()
		d.state = Running
	case EventExit:
		return true
	}
	return false
}
