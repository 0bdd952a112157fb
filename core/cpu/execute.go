// execute.go - the execution half of decode→execute: a total match over
// every legal primary opcode and every CB-prefixed opcode, returning the
// machine-cycle cost charged for that instruction, following the
// conditional-timing rule: branch-taken forms cost more than
// branch-not-taken forms.
//
// The 0x40-0x7F (register-to-register load) and 0x80-0xBF (ALU A,r)
// blocks are handled before the switch since their operand encoding is
// uniform across 63 (0x76 is HALT) and 64 opcodes respectively — writing out each case
// individually would be pure duplication of the same three lines.

package cpu

func (c *CPU) execute(bus Bus, instr instruction) (int, error) {
	if instr.cb {
		return c.executeCB(bus, instr.opcode)
	}

	op := instr.opcode

	if op == 0x76 { // HALT
		return 0, &UnimplementedError{Mnemonic: "HALT", Opcode: op, PC: instr.pc}
	}
	if op >= 0x40 && op <= 0x7F { // LD r,r'
		dst, src := (op>>3)&7, op&7
		c.writeOperand8(bus, dst, c.readOperand8(bus, src))
		if dst == 6 || src == 6 {
			return 2, nil
		}
		return 1, nil
	}
	if op >= 0x80 && op <= 0xBF { // ALU A,r
		return c.executeALUBlock(bus, op), nil
	}

	switch op {
	case 0x00: // NOP
		return 1, nil
	case 0x10: // STOP
		return 0, &UnimplementedError{Mnemonic: "STOP", Opcode: op, PC: instr.pc}
	case 0x27: // DAA
		return 0, &UnimplementedError{Mnemonic: "DAA", Opcode: op, PC: instr.pc}
	case 0x2F: // CPL
		c.A = ^c.A
		c.SetFlag(FlagN, true)
		c.SetFlag(FlagH, true)
		return 1, nil
	case 0x37: // SCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, true)
		return 1, nil
	case 0x3F: // CCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, !c.Flag(FlagC))
		return 1, nil
	case 0xF3: // DI
		c.IME = false
		c.imeDelay = 0
		return 1, nil
	case 0xFB: // EI
		c.imeDelay = 2
		return 1, nil

	// --- 8-bit loads: register/immediate, indirect through a pair ---
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E: // LD r,d8
		dst := (op >> 3) & 7
		c.writeOperand8(bus, dst, instr.imm8)
		return 2, nil
	case 0x36: // LD (HL),d8
		bus.Write(c.HL(), instr.imm8)
		return 3, nil
	case 0x02: // LD (BC),A
		bus.Write(c.BC(), c.A)
		return 2, nil
	case 0x12: // LD (DE),A
		bus.Write(c.DE(), c.A)
		return 2, nil
	case 0x0A: // LD A,(BC)
		c.A = bus.Read(c.BC())
		return 2, nil
	case 0x1A: // LD A,(DE)
		c.A = bus.Read(c.DE())
		return 2, nil
	case 0x22: // LD (HL+),A
		hl := c.HL()
		bus.Write(hl, c.A)
		c.SetHL(hl + 1)
		return 2, nil
	case 0x2A: // LD A,(HL+)
		hl := c.HL()
		c.A = bus.Read(hl)
		c.SetHL(hl + 1)
		return 2, nil
	case 0x32: // LD (HL-),A
		hl := c.HL()
		bus.Write(hl, c.A)
		c.SetHL(hl - 1)
		return 2, nil
	case 0x3A: // LD A,(HL-)
		hl := c.HL()
		c.A = bus.Read(hl)
		c.SetHL(hl - 1)
		return 2, nil
	case 0xE0: // LDH (a8),A
		bus.Write(0xFF00+uint16(instr.imm8), c.A)
		return 3, nil
	case 0xF0: // LDH A,(a8)
		c.A = bus.Read(0xFF00 + uint16(instr.imm8))
		return 3, nil
	case 0xE2: // LD (C),A
		bus.Write(0xFF00+uint16(c.C), c.A)
		return 2, nil
	case 0xF2: // LD A,(C)
		c.A = bus.Read(0xFF00 + uint16(c.C))
		return 2, nil
	case 0xEA: // LD (a16),A
		bus.Write(instr.imm16, c.A)
		return 4, nil
	case 0xFA: // LD A,(a16)
		c.A = bus.Read(instr.imm16)
		return 4, nil

	// --- 16-bit loads ---
	case 0x01:
		c.SetBC(instr.imm16)
		return 3, nil
	case 0x11:
		c.SetDE(instr.imm16)
		return 3, nil
	case 0x21:
		c.SetHL(instr.imm16)
		return 3, nil
	case 0x31:
		c.SP = instr.imm16
		return 3, nil
	case 0x08: // LD (a16),SP — low byte first
		bus.Write(instr.imm16, byte(c.SP))
		bus.Write(instr.imm16+1, byte(c.SP>>8))
		return 5, nil
	case 0xF9: // LD SP,HL
		c.SP = c.HL()
		return 2, nil
	case 0xF8: // LD HL,SP+r8
		c.SetHL(c.addSPSigned8(instr.imm8))
		return 3, nil

	// --- 16-bit INC/DEC (no flags) ---
	case 0x03:
		c.SetBC(c.BC() + 1)
		return 2, nil
	case 0x13:
		c.SetDE(c.DE() + 1)
		return 2, nil
	case 0x23:
		c.SetHL(c.HL() + 1)
		return 2, nil
	case 0x33:
		c.SP++
		return 2, nil
	case 0x0B:
		c.SetBC(c.BC() - 1)
		return 2, nil
	case 0x1B:
		c.SetDE(c.DE() - 1)
		return 2, nil
	case 0x2B:
		c.SetHL(c.HL() - 1)
		return 2, nil
	case 0x3B:
		c.SP--
		return 2, nil

	// --- 8-bit INC/DEC ---
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C:
		idx := (op >> 3) & 7
		c.writeOperand8(bus, idx, c.inc8(c.readOperand8(bus, idx)))
		return 1, nil
	case 0x34:
		bus.Write(c.HL(), c.inc8(bus.Read(c.HL())))
		return 3, nil
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D:
		idx := (op >> 3) & 7
		c.writeOperand8(bus, idx, c.dec8(c.readOperand8(bus, idx)))
		return 1, nil
	case 0x35:
		bus.Write(c.HL(), c.dec8(bus.Read(c.HL())))
		return 3, nil

	// --- 16-bit ALU ---
	case 0x09:
		c.addHL16(c.BC())
		return 2, nil
	case 0x19:
		c.addHL16(c.DE())
		return 2, nil
	case 0x29:
		c.addHL16(c.HL())
		return 2, nil
	case 0x39:
		c.addHL16(c.SP)
		return 2, nil
	case 0xE8: // ADD SP,r8 — fixed cost; no taken/not-taken variant exists
		c.SP = c.addSPSigned8(instr.imm8)
		return 4, nil

	// --- rotate short forms (A-dedicated, CB-independent) ---
	case 0x07:
		c.rotateAccumulator(c.rlc(c.A))
		return 1, nil
	case 0x0F:
		c.rotateAccumulator(c.rrc(c.A))
		return 1, nil
	case 0x17:
		c.rotateAccumulator(c.rl(c.A))
		return 1, nil
	case 0x1F:
		c.rotateAccumulator(c.rr(c.A))
		return 1, nil

	// --- jumps ---
	case 0x18: // JR r8
		c.jumpRelative(instr.imm8)
		return 3, nil
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.jumpRelative(instr.imm8)
			return 3, nil
		}
		return 2, nil
	case 0xC3: // JP a16
		c.PC = instr.imm16
		return 4, nil
	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.PC = instr.imm16
			return 4, nil
		}
		return 3, nil
	case 0xE9: // JP (HL)
		c.PC = c.HL()
		return 1, nil

	// --- calls/returns/resets ---
	case 0xCD: // CALL a16
		c.push16(bus, c.PC)
		c.PC = instr.imm16
		return 6, nil
	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.push16(bus, c.PC)
			c.PC = instr.imm16
			return 6, nil
		}
		return 3, nil
	case 0xC9: // RET
		c.PC = c.pop16(bus)
		return 4, nil
	case 0xD9: // RETI
		c.PC = c.pop16(bus)
		c.IME = true
		c.imeDelay = 0
		return 4, nil
	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		cc := (op >> 3) & 3
		if c.condition(cc) {
			c.PC = c.pop16(bus)
			return 5, nil
		}
		return 2, nil
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		vector := uint16(op & 0x38)
		c.push16(bus, c.PC)
		c.PC = vector
		return 4, nil

	// --- stack ---
	case 0xC1:
		c.SetBC(c.pop16(bus))
		return 3, nil
	case 0xD1:
		c.SetDE(c.pop16(bus))
		return 3, nil
	case 0xE1:
		c.SetHL(c.pop16(bus))
		return 3, nil
	case 0xF1:
		c.SetAF(c.pop16(bus))
		return 3, nil
	case 0xC5:
		c.push16(bus, c.BC())
		return 4, nil
	case 0xD5:
		c.push16(bus, c.DE())
		return 4, nil
	case 0xE5:
		c.push16(bus, c.HL())
		return 4, nil
	case 0xF5:
		c.push16(bus, c.AF())
		return 4, nil
	}

	// Unreachable for any opcode the decoder accepted: every legal
	// primary opcode is handled by a case above or one of the two
	// uniform blocks.
	return 0, &DecodeError{Opcode: op, PC: instr.pc}
}

// executeALUBlock handles the uniform 0x80-0xBF range: bits 5:3 select
// the operation, bits 2:0 select the operand (register or (HL)).
func (c *CPU) executeALUBlock(bus Bus, op byte) int {
	idx := op & 7
	value := c.readOperand8(bus, idx)
	cycles := 1
	if idx == 6 {
		cycles = 2
	}
	switch (op >> 3) & 7 {
	case 0:
		c.A = c.add8(c.A, value, false)
	case 1:
		c.A = c.add8(c.A, value, c.Flag(FlagC))
	case 2:
		c.A = c.sub8(c.A, value, false)
	case 3:
		c.A = c.sub8(c.A, value, c.Flag(FlagC))
	case 4:
		c.A = c.and8(c.A, value)
	case 5:
		c.A = c.xor8(c.A, value)
	case 6:
		c.A = c.or8(c.A, value)
	case 7:
		c.cp8(c.A, value)
	}
	return cycles
}

// jumpRelative adds the signed 8-bit displacement to PC (already past
// the operand byte) in widened signed arithmetic, narrowed modulo
// 0x10000.
func (c *CPU) jumpRelative(offset byte) {
	c.PC = uint16(int32(c.PC) + int32(int8(offset)))
}

func (c *CPU) readOperand8(bus Bus, idx byte) byte {
	if idx&7 == 6 {
		return bus.Read(c.HL())
	}
	return *c.reg8(idx)
}

func (c *CPU) writeOperand8(bus Bus, idx byte, v byte) {
	if idx&7 == 6 {
		bus.Write(c.HL(), v)
		return
	}
	*c.reg8(idx) = v
}

// executeCB handles the 256 bit-manipulation opcodes: bits 7:6 select
// the group (0=shift/rotate, 1=BIT, 2=RES, 3=SET), bits 5:3 select the
// sub-operation or bit index, bits 2:0 select the operand.
func (c *CPU) executeCB(bus Bus, op byte) (int, error) {
	idx := op & 7
	group := op >> 6
	n := uint((op >> 3) & 7)

	value := c.readOperand8(bus, idx)
	indirect := idx == 6

	switch group {
	case 0:
		var result byte
		switch n {
		case 0:
			result = c.rlc(value)
		case 1:
			result = c.rrc(value)
		case 2:
			result = c.rl(value)
		case 3:
			result = c.rr(value)
		case 4:
			result = c.sla(value)
		case 5:
			result = c.sra(value)
		case 6:
			result = c.swap(value)
		case 7:
			result = c.srl(value)
		}
		c.writeOperand8(bus, idx, result)
		if indirect {
			return 4, nil
		}
		return 2, nil
	case 1: // BIT n
		c.bitTest(n, value)
		if indirect {
			return 3, nil
		}
		return 2, nil
	case 2: // RES n
		c.writeOperand8(bus, idx, bitRes(n, value))
		if indirect {
			return 4, nil
		}
		return 2, nil
	default: // SET n
		c.writeOperand8(bus, idx, bitSet(n, value))
		if indirect {
			return 4, nil
		}
		return 2, nil
	}
}
