// joypad.go - the key matrix and two-row-select register.
//
// Negative logic throughout: a pressed key reads as a clear bit,
// matching the real hardware's pull-up-resistor wiring.

package joypad

type Key int

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

type Joypad struct {
	pressed [8]bool

	selectActions   bool
	selectDirection bool
}

func New() *Joypad { return &Joypad{} }

func (j *Joypad) Reset() { *j = Joypad{} }

func (j *Joypad) Press(k Key)   { j.pressed[k] = true }
func (j *Joypad) Release(k Key) { j.pressed[k] = false }

// WriteSelect updates the row-select bits from a write to 0xFF00; bits
// 5 (actions) and 4 (directions) are active-low on hardware, so a
// cleared bit means that row is selected.
func (j *Joypad) WriteSelect(value byte) {
	j.selectActions = value&0x20 == 0
	j.selectDirection = value&0x10 == 0
}

// Read returns the 0xFF00 register: neither row selected yields all
// ones in the low nibble; a selected row's four keys are negative-logic
// encoded (pressed -> 0).
func (j *Joypad) Read() byte {
	nibble := byte(0x0F)
	switch {
	case j.selectDirection:
		nibble = j.encode(Right, Left, Up, Down)
	case j.selectActions:
		nibble = j.encode(A, B, Select, Start)
	}

	result := nibble & 0x0F
	if !j.selectActions {
		result |= 0x20
	}
	if !j.selectDirection {
		result |= 0x10
	}
	return result | 0xC0
}

func (j *Joypad) encode(bit0, bit1, bit2, bit3 Key) byte {
	var v byte = 0x0F
	if j.pressed[bit0] {
		v &^= 0x01
	}
	if j.pressed[bit1] {
		v &^= 0x02
	}
	if j.pressed[bit2] {
		v &^= 0x04
	}
	if j.pressed[bit3] {
		v &^= 0x08
	}
	return v
}
