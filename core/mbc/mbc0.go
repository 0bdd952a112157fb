// mbc0.go - the no-MBC case: a cartridge small enough (<=32KiB) to map
// its whole image directly with no bank registers at all, plus
// optional unbanked external RAM.

package mbc

func (c *Controller) readNoMBC(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return c.romByte(int(addr))
	case addr >= 0xA000 && addr < 0xC000:
		if len(c.RAM) == 0 {
			return 0xFF
		}
		offset := int(addr - 0xA000)
		if offset >= len(c.RAM) {
			return 0xFF
		}
		return c.RAM[offset]
	default:
		return 0xFF
	}
}

func (c *Controller) writeNoMBC(addr uint16, value byte) {
	if addr >= 0xA000 && addr < 0xC000 && len(c.RAM) > 0 {
		offset := int(addr - 0xA000)
		if offset < len(c.RAM) {
			c.RAM[offset] = value
		}
	}
}
