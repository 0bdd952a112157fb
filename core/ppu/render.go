// render.go - scanline compositing: background, window, and object
// layers resolved once per line (on entry to Draw) rather than pixel by
// pixel. A full per-dot FIFO is the real hardware's approach; this
// core trades that fidelity for a scanline renderer, the common
// simplification also taken by the corpus's tile-based chips
// (video_ted.go, video_ula.go render per-line rather than per-dot).

package ppu

type tileAttr struct {
	palette  byte
	bank     byte
	xFlip    bool
	yFlip    bool
	priority bool
}

func decodeAttr(b byte) tileAttr {
	return tileAttr{
		palette:  b & 0x07,
		bank:     (b >> 3) & 0x01,
		xFlip:    b&0x20 != 0,
		yFlip:    b&0x40 != 0,
		priority: b&0x80 != 0,
	}
}

func (p *PPU) renderLine() {
	line := int(p.ly)
	if line >= ScreenHeight {
		return
	}

	var bgLine [ScreenWidth]byte // 0 = background/window drew nothing opaque-priority-wise
	p.renderBackground(line, &bgLine)
	if p.lcdc&lcdcWindowEnable != 0 {
		p.renderWindow(line, &bgLine)
	}
	if p.lcdc&lcdcObjEnable != 0 {
		p.renderObjects(line, &bgLine)
	}
}

func (p *PPU) renderBackground(line int, bgLine *[ScreenWidth]byte) {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGMapArea != 0 {
		mapBase = 0x9C00
	}

	y := (line + int(p.scy)) & 0xFF
	tileRow := y / 8
	fineY := y % 8

	for x := 0; x < ScreenWidth; x++ {
		screenX := (x + int(p.scx)) & 0xFF
		tileCol := screenX / 8
		fineX := screenX % 8

		mapOffset := uint16(tileRow*32 + tileCol)
		tileIndex := p.vram[0][mapBase-vramBase+mapOffset]
		attr := decodeAttr(p.vram[1][mapBase-vramBase+mapOffset])

		colorIdx := p.tilePixel(attr.bank, tileIndex, fineX, fineY, attr.xFlip, attr.yFlip)
		bgLine[x] = colorIdx
		p.setPixel(x, line, color555(&p.bgPalette, int(attr.palette), int(colorIdx)))
	}
}

func (p *PPU) renderWindow(line int, bgLine *[ScreenWidth]byte) {
	wy := int(p.wy)
	if line < wy {
		return
	}
	wx := int(p.wx) - 7
	if wx >= ScreenWidth {
		return
	}

	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowMapArea != 0 {
		mapBase = 0x9C00
	}

	windowY := line - wy
	tileRow := windowY / 8
	fineY := windowY % 8

	for x := 0; x < ScreenWidth; x++ {
		if x < wx {
			continue
		}
		windowX := x - wx
		tileCol := windowX / 8
		fineX := windowX % 8

		mapOffset := uint16(tileRow*32 + tileCol)
		tileIndex := p.vram[0][mapBase-vramBase+mapOffset]
		attr := decodeAttr(p.vram[1][mapBase-vramBase+mapOffset])

		colorIdx := p.tilePixel(attr.bank, tileIndex, fineX, fineY, attr.xFlip, attr.yFlip)
		bgLine[x] = colorIdx
		p.setPixel(x, line, color555(&p.bgPalette, int(attr.palette), int(colorIdx)))
	}
}

type objectEntry struct {
	y, x, tile, attr byte
}

func (p *PPU) renderObjects(line int, bgLine *[ScreenWidth]byte) {
	height := 8
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	var visible []objectEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		e := objectEntry{
			y:    p.oam[i*4],
			x:    p.oam[i*4+1],
			tile: p.oam[i*4+2],
			attr: p.oam[i*4+3],
		}
		top := int(e.y) - 16
		if line >= top && line < top+height {
			visible = append(visible, e)
		}
	}

	for _, e := range visible {
		attr := decodeAttr(e.attr)
		objY := line - (int(e.y) - 16)
		if attr.yFlip {
			objY = height - 1 - objY
		}

		tile := e.tile
		if height == 16 {
			tile &^= 0x01
			if objY >= 8 {
				tile |= 0x01
				objY -= 8
			}
		}

		for fineX := 0; fineX < 8; fineX++ {
			screenX := int(e.x) - 8 + fineX
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			drawX := fineX
			if attr.xFlip {
				drawX = 7 - fineX
			}
			colorIdx := p.tilePixel(attr.bank, tile, drawX, objY, false, false)
			if colorIdx == 0 {
				continue // transparent
			}
			if attr.priority && bgLine[screenX] != 0 {
				continue // background wins when object priority bit is set
			}
			p.setPixel(screenX, line, color555(&p.objPalette, int(attr.palette), int(colorIdx)))
		}
	}
}

// tilePixel decodes one 2bpp pixel from the tile data area selected by
// LCDC bit 4: unsigned indexing from 0x8000 when set, signed from
// 0x9000 otherwise.
func (p *PPU) tilePixel(bank, tileIndex byte, fineX, fineY int, xFlip, yFlip bool) byte {
	if xFlip {
		fineX = 7 - fineX
	}
	if yFlip {
		fineY = 7 - fineY
	}

	var base uint16
	if p.lcdc&lcdcTileDataArea != 0 {
		base = 0x8000 + uint16(tileIndex)*16
	} else {
		base = uint16(int(0x9000) + int(int8(tileIndex))*16)
	}

	rowAddr := base + uint16(fineY*2) - vramBase
	lo := p.vram[bank][rowAddr]
	hi := p.vram[bank][rowAddr+1]

	bit := 7 - fineX
	lowBit := (lo >> bit) & 1
	highBit := (hi >> bit) & 1
	return highBit<<1 | lowBit
}

func (p *PPU) setPixel(x, y int, rgb uint32) {
	p.back[y*ScreenWidth+x] = rgb
}
