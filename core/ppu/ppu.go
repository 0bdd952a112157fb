// ppu.go - the dot-indexed picture generation unit: a four-mode state
// machine (OAM scan, Draw, HBlank, VBlank) clocked one dot at a time,
// owning VRAM, OAM, and the LCD control/status registers. Grounded on
// IntuitionEngine's video_chip.go (memory-mapped register block, a
// front/back framebuffer pair published once per refresh) but replaces
// its fixed-resolution RGBA mode table with the console's single
// 160x144 mode and its dot-granular scanline timing instead of a
// free-running refresh timer.

package ppu

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine     = 456
	oamScanDots     = 80
	linesPerFrame   = 154
	vblankStartLine = 144
)

type Mode byte

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeDraw
)

// LCDC bit positions.
const (
	lcdcEnable         = 1 << 7
	lcdcWindowMapArea  = 1 << 6
	lcdcWindowEnable   = 1 << 5
	lcdcTileDataArea   = 1 << 4
	lcdcBGMapArea      = 1 << 3
	lcdcObjSize        = 1 << 2
	lcdcObjEnable      = 1 << 1
	lcdcBGPriority     = 1 << 0
)

// STAT bit positions.
const (
	statLYCInterrupt  = 1 << 6
	statMode2Interrupt = 1 << 5
	statMode1Interrupt = 1 << 4
	statMode0Interrupt = 1 << 3
	statLYCCoincidence = 1 << 2
	statModeMask       = 0x03
)

// PPU is the LR35902/GBC picture generator. Two VRAM banks exist for
// CGB compatibility; bank selection is through VBK (0xFF4F), whatever
// the cartridge.
type PPU struct {
	vram [2][0x2000]byte
	oam  [0xA0]byte

	lcdc byte
	stat byte
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	wy   byte
	wx   byte
	bgp  byte
	obp0 byte
	obp1 byte
	vbk  byte

	bgPalette  [64]byte
	objPalette [64]byte
	bcps       byte
	ocps       byte
	dmaSource  byte

	lineDots int
	mode     Mode

	front [ScreenWidth * ScreenHeight]uint32
	back  [ScreenWidth * ScreenHeight]uint32

	VBlankInterrupt bool
	StatInterrupt   bool
	FrameReady      bool
}

func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	front, back := p.front, p.back // keep framebuffer contents across resets
	*p = PPU{front: front, back: back}
	for i := range p.bgPalette {
		p.bgPalette[i] = 0xFF
		p.objPalette[i] = 0xFF
	}
	p.mode = ModeOAMScan
}

// State is a save-state snapshot of the PPU. The framebuffers are
// excluded: they are regenerated by the next frame rendered after load.
type State struct {
	VRAM [2][0x2000]byte
	OAM  [0xA0]byte

	LCDC, STAT, SCY, SCX, LY, LYC, WY, WX byte
	BGP, OBP0, OBP1, VBK                  byte

	BGPalette, ObjPalette [64]byte
	BCPS, OCPS, DMASource byte

	LineDots int
	Mode     Mode
}

func (p *PPU) SaveState() State {
	return State{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat, SCY: p.scy, SCX: p.scx,
		LY: p.ly, LYC: p.lyc, WY: p.wy, WX: p.wx,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1, VBK: p.vbk,
		BGPalette: p.bgPalette, ObjPalette: p.objPalette,
		BCPS: p.bcps, OCPS: p.ocps, DMASource: p.dmaSource,
		LineDots: p.lineDots, Mode: p.mode,
	}
}

func (p *PPU) LoadState(s State) {
	p.vram = s.VRAM
	p.oam = s.OAM
	p.lcdc, p.stat, p.scy, p.scx = s.LCDC, s.STAT, s.SCY, s.SCX
	p.ly, p.lyc, p.wy, p.wx = s.LY, s.LYC, s.WY, s.WX
	p.bgp, p.obp0, p.obp1, p.vbk = s.BGP, s.OBP0, s.OBP1, s.VBK
	p.bgPalette, p.objPalette = s.BGPalette, s.ObjPalette
	p.bcps, p.ocps, p.dmaSource = s.BCPS, s.OCPS, s.DMASource
	p.lineDots, p.mode = s.LineDots, s.Mode
}

// Step advances the PPU by one dot. The caller (the device scheduler)
// calls this four times per CPU machine cycle, once per dot.
func (p *PPU) Step() {
	if p.lcdc&lcdcEnable == 0 {
		return
	}

	p.lineDots++
	p.updateMode()
	p.updateCoincidence()

	if p.lineDots >= dotsPerLine {
		p.lineDots = 0
		if p.advanceLine() {
			// ly just wrapped to 0: updateMode's ly>=vblankStartLine
			// branch would otherwise keep reporting the VBlank mode
			// the last line of the old frame was in.
			p.updateMode()
		}
	}
}

func (p *PPU) updateMode() {
	var next Mode
	switch {
	case p.ly >= vblankStartLine:
		next = ModeVBlank
	case p.lineDots < oamScanDots:
		next = ModeOAMScan
	case p.lineDots < oamScanDots+172:
		next = ModeDraw
	default:
		next = ModeHBlank
	}

	if next == ModeDraw && p.mode != ModeDraw {
		p.renderLine()
	}
	if p.mode != next {
		p.mode = next
		p.raiseModeInterrupt()
	}

	p.stat = (p.stat &^ statModeMask) | byte(p.mode)
}

func (p *PPU) raiseModeInterrupt() {
	switch p.mode {
	case ModeOAMScan:
		if p.stat&statMode2Interrupt != 0 {
			p.StatInterrupt = true
		}
	case ModeHBlank:
		if p.stat&statMode0Interrupt != 0 {
			p.StatInterrupt = true
		}
	case ModeVBlank:
		if p.stat&statMode1Interrupt != 0 {
			p.StatInterrupt = true
		}
		p.VBlankInterrupt = true
	}
}

func (p *PPU) updateCoincidence() {
	if p.ly == p.lyc {
		p.stat |= statLYCCoincidence
		if p.stat&statLYCInterrupt != 0 {
			p.StatInterrupt = true
		}
	} else {
		p.stat &^= statLYCCoincidence
	}
}

// advanceLine moves to the next scanline, wrapping ly and publishing the
// completed frame when the last line finishes. It reports whether the
// frame wrapped, since the caller must re-derive mode in that case.
func (p *PPU) advanceLine() bool {
	p.ly++
	if p.ly >= linesPerFrame {
		p.ly = 0
		p.front, p.back = p.back, p.front
		p.FrameReady = true
		return true
	}
	return false
}

// Frame returns the most recently published framebuffer. The caller
// must not retain the slice beyond the next VBlank swap.
func (p *PPU) Frame() []uint32 {
	p.FrameReady = false
	return p.front[:]
}

// CurrentFrame returns the front buffer without clearing FrameReady,
// for callers (save-state thumbnails) that just want a snapshot of
// whatever was last composited.
func (p *PPU) CurrentFrame() []uint32 {
	return p.front[:]
}

func (p *PPU) vramAccessible() bool {
	return p.lcdc&lcdcEnable == 0 || p.mode != ModeDraw
}

func (p *PPU) oamAccessible() bool {
	return p.mode == ModeHBlank || p.mode == ModeVBlank || p.lcdc&lcdcEnable == 0
}
