// timer.go - the programmable timer: a free-running
// divider, a counter clocked by a selectable prescaler, and overflow
// reload-plus-interrupt. Grounded on IntuitionEngine's small
// single-concern chip files (pokey_engine.go, sid_engine.go) — one
// register block, one Reset(), no cross-component state.

package timer

// Prescaler selector values, decoded from bits 1:0 of the timer
// control register (0xFF07).
var prescalerTicks = [4]int{1024, 16, 64, 256}

type Timer struct {
	Divider byte
	Counter byte
	Modulo  byte
	Enabled bool
	Select  byte // 0..3, indexes prescalerTicks

	counterTicks int

	// InterruptPending latches until the device/bus reads and clears it
	// via DrainInterrupt.
	InterruptPending bool
}

func New() *Timer {
	t := &Timer{}
	t.Reset()
	return t
}

func (t *Timer) Reset() {
	*t = Timer{}
}

// Step advances the timer by one CPU tick (one machine cycle). The
// divider increments every tick regardless of the enable bit; the
// counter increments once every N ticks, where N is the selected
// prescaler, only while enabled.
func (t *Timer) Step() {
	t.Divider++

	if !t.Enabled {
		return
	}
	t.counterTicks++
	if t.counterTicks >= prescalerTicks[t.Select] {
		t.counterTicks = 0
		t.Counter++
		if t.Counter == 0 {
			t.Counter = t.Modulo
			t.InterruptPending = true
		}
	}
}

// WriteDivider resets the divider to zero — any value written to the
// divider address has this effect.
func (t *Timer) WriteDivider() {
	t.Divider = 0
}

// WriteControl updates enable (bit 2) and prescaler (bits 1:0) from a
// write to 0xFF07.
func (t *Timer) WriteControl(value byte) {
	t.Enabled = value&0x04 != 0
	t.Select = value & 0x03
}

func (t *Timer) ReadControl() byte {
	v := t.Select
	if t.Enabled {
		v |= 0x04
	}
	return v | 0xF8 // unused bits read as 1, matching real hardware
}

// DrainInterrupt reports and clears a pending overflow interrupt.
func (t *Timer) DrainInterrupt() bool {
	pending := t.InterruptPending
	t.InterruptPending = false
	return pending
}

// State is a save-state snapshot of the timer.
type State struct {
	Divider          byte
	Counter          byte
	Modulo           byte
	Enabled          bool
	Select           byte
	CounterTicks     int
	InterruptPending bool
}

func (t *Timer) SaveState() State {
	return State{
		Divider:          t.Divider,
		Counter:          t.Counter,
		Modulo:           t.Modulo,
		Enabled:          t.Enabled,
		Select:           t.Select,
		CounterTicks:     t.counterTicks,
		InterruptPending: t.InterruptPending,
	}
}

func (t *Timer) LoadState(s State) {
	t.Divider = s.Divider
	t.Counter = s.Counter
	t.Modulo = s.Modulo
	t.Enabled = s.Enabled
	t.Select = s.Select
	t.counterTicks = s.CounterTicks
	t.InterruptPending = s.InterruptPending
}
