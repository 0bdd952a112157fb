// infrared.go - the 0xFF56 infrared port. Real hardware exposes a
// read/write data bit and a read-enable bit; this core models read-back
// of the two data bits and nothing else, matching the original
// reference's stub. Kept as its own file per the one-component-one-file
// convention used elsewhere in this tree (pokey_engine.go,
// sid_engine.go each get a file of their own despite being a handful
// of registers).

package core

type infrared struct {
	writeData byte
	readData  byte
}

func (ir *infrared) Read() byte {
	return 0xC0 | ir.readData<<1 | ir.writeData
}

func (ir *infrared) Write(value byte) {
	ir.writeData = value & 0x01
}
