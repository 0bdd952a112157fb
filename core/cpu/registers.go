// registers.go - LR35902 register file, flag bits, and register-pair access.
//
// Mirrors the register layout IntuitionEngine's cpu_z80.go uses for its
// Z80 core (plain exported fields for the hot 8-bit registers, pair
// accessors computed from the halves) adapted to the LR35902's smaller
// register file: no shadow bank, no IX/IY, a single flag byte F whose
// top nibble is the only part hardware implements.

package cpu

// Flags occupy bits 7..4 of F; bits 3..0 always read as zero.
const (
	FlagZ byte = 1 << 7 // Zero
	FlagN byte = 1 << 6 // Subtract
	FlagH byte = 1 << 5 // Half-carry
	FlagC byte = 1 << 4 // Carry
)

// Registers holds the seven 8-bit general registers, the flag byte, and
// the two 16-bit pointers. BC/DE/HL/AF are logical concatenations of the
// byte pairs (H:L order) rather than stored separately.
type Registers struct {
	A byte
	F byte
	B byte
	C byte
	D byte
	E byte
	H byte
	L byte

	SP uint16
	PC uint16
}

func (r *Registers) Flag(mask byte) bool { return r.F&mask != 0 }

func (r *Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
	r.F &= 0xF0
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) & 0xF0 }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// reg8 indexes the eight-way register encoding shared by most LR35902
// opcodes: B, C, D, E, H, L, (HL), A. Index 6 has no direct register and
// is handled by callers through bus reads of (HL).
func (r *Registers) reg8(idx byte) *byte {
	switch idx & 7 {
	case 0:
		return &r.B
	case 1:
		return &r.C
	case 2:
		return &r.D
	case 3:
		return &r.E
	case 4:
		return &r.H
	case 5:
		return &r.L
	case 7:
		return &r.A
	default:
		return nil // (HL) — caller must special-case index 6
	}
}
