// control.go - branch condition evaluation shared by JR/JP/CALL/RET.

package cpu

// condition decodes the 2-bit condition field embedded in opcodes of
// the form 0b00cc0xxx / 0b11cc0xxx (cc = NZ,Z,NC,C).
func (c *CPU) condition(cc byte) bool {
	switch cc & 0x03 {
	case 0:
		return !c.Flag(FlagZ) // NZ
	case 1:
		return c.Flag(FlagZ) // Z
	case 2:
		return !c.Flag(FlagC) // NC
	default:
		return c.Flag(FlagC) // C
	}
}
