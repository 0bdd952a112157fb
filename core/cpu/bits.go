// bits.go - rotate/shift/swap and CB bit-test/clear/set primitives.
// Shared by the A-dedicated short forms (RLCA/RRCA/RLA/RRA) and the
// CB-prefixed long forms over any of the eight register-or-(HL)
// operands.

package cpu

func (c *CPU) rlc(v byte) byte {
	carryOut := v&0x80 != 0
	result := v<<1 | v>>7
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) rrc(v byte) byte {
	carryOut := v&0x01 != 0
	result := v>>1 | v<<7
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) rl(v byte) byte {
	carryOut := v&0x80 != 0
	var carryIn byte
	if c.Flag(FlagC) {
		carryIn = 1
	}
	result := v<<1 | carryIn
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) rr(v byte) byte {
	carryOut := v&0x01 != 0
	var carryIn byte
	if c.Flag(FlagC) {
		carryIn = 0x80
	}
	result := v>>1 | carryIn
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) sla(v byte) byte {
	carryOut := v&0x80 != 0
	result := v << 1
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) sra(v byte) byte {
	carryOut := v&0x01 != 0
	result := v>>1 | v&0x80
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) srl(v byte) byte {
	carryOut := v&0x01 != 0
	result := v >> 1
	c.setShiftFlags(result, carryOut)
	return result
}

func (c *CPU) swap(v byte) byte {
	result := v<<4 | v>>4
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, false)
	return result
}

func (c *CPU) setShiftFlags(result byte, carryOut bool) {
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carryOut)
}

// rotateAccumulator finishes RLCA/RRCA/RLA/RRA (the A-dedicated short
// forms at 0x07/0x0F/0x17/0x1F): they share the rotate math above but
// always clear Z regardless of the result, unlike their CB-prefixed
// long-form counterparts.
func (c *CPU) rotateAccumulator(result byte) {
	c.A = result
	c.SetFlag(FlagZ, false)
}

// bitTest sets Z iff the tested bit is zero, clears N, sets H; C is
// untouched.
func (c *CPU) bitTest(n uint, v byte) {
	c.SetFlag(FlagZ, v&(1<<n) == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, true)
}

func bitRes(n uint, v byte) byte { return v &^ (1 << n) }
func bitSet(n uint, v byte) byte { return v | (1 << n) }
