// dma.go - OAM DMA: a write to 0xFF46 names a source page and the bus
// performs an immediate 160-byte copy into OAM. The PPU does not read
// system memory itself; the bus owns the source read and
// hands the bytes to TriggerDMA, keeping the PPU free of a bus
// dependency the way core/cpu keeps only the Bus interface it needs.

package ppu

// DMASource reports the page most recently latched by a 0xFF46 write
// (source address is page<<8).
func (p *PPU) DMASource() byte { return p.dmaSource }

// TriggerDMA copies up to 160 bytes into OAM starting at offset 0.
func (p *PPU) TriggerDMA(data []byte) {
	n := copy(p.oam[:], data)
	for i := n; i < len(p.oam); i++ {
		p.oam[i] = 0xFF
	}
}
