// decode.go - opcode fetch/decode: the decoder is a total function over
// the 256 primary opcodes (prime-row gaps become a *DecodeError) and a
// total function over the 256 CB-prefixed opcodes (that subtable has no
// gaps). Immediate operands are consumed here so that, on entry to
// execute, PC already points at the next opcode to fetch.

package cpu

// instruction is the decoded, ready-to-execute form of one opcode.
// Carrying raw opcode + already-fetched operands (rather than a bespoke
// struct per mnemonic) keeps decode/execute as a total pair of switches
// instead of ~500 hand-rolled struct types; the opcode byte itself is
// the tag, as it is in the LR35902's own encoding.
type instruction struct {
	cb     bool
	opcode byte
	imm8   byte
	imm16  uint16
	pc     uint16 // PC at opcode fetch, for diagnostics
}

var illegalOpcodes = [256]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// immLen reports how many operand bytes (beyond the opcode itself)
// follow a given primary opcode.
func immLen(opcode byte) int {
	switch opcode {
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E,
		0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE,
		0x18, 0x20, 0x28, 0x30, 0x38,
		0xE0, 0xF0, 0xE8, 0xF8:
		return 1
	case 0x01, 0x11, 0x21, 0x31, 0x08,
		0xC2, 0xC3, 0xCA, 0xD2, 0xDA,
		0xC4, 0xCC, 0xCD, 0xD4, 0xDC,
		0xEA, 0xFA:
		return 2
	default:
		return 0
	}
}

func (c *CPU) decodePrimary(bus Bus, opcode byte, startPC uint16) (instruction, error) {
	if illegalOpcodes[opcode] {
		return instruction{}, &DecodeError{Opcode: opcode, PC: startPC}
	}
	instr := instruction{opcode: opcode, pc: startPC}
	switch immLen(opcode) {
	case 1:
		instr.imm8 = c.fetch8(bus)
	case 2:
		instr.imm16 = c.fetch16(bus)
	}
	return instr, nil
}

// decodeCB fetches the second opcode byte of a 0xCB-prefixed
// instruction. The CB subtable is total: every one of the 256 values is
// a valid rotate/shift/SWAP/BIT/RES/SET over one of the eight
// register-or-(HL) operands, so there is no illegal-opcode path here.
func (c *CPU) decodeCB(bus Bus) (instruction, error) {
	opcode := c.fetch8(bus)
	return instruction{cb: true, opcode: opcode}, nil
}
