package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newEnabled() *PPU {
	p := New()
	p.Write(0xFF40, lcdcEnable)
	return p
}

func TestFrameCadence(t *testing.T) {
	p := newEnabled()
	for i := 0; i < dotsPerLine*linesPerFrame; i++ {
		p.Step()
	}
	require.True(t, p.FrameReady)
	require.Equal(t, 0, p.lineDots)
	require.Equal(t, ModeOAMScan, p.mode)
	require.Equal(t, byte(0), p.Read(0xFF44))
}

func TestModeSequenceWithinLine(t *testing.T) {
	p := newEnabled()
	require.Equal(t, ModeOAMScan, p.mode)

	for i := 0; i < oamScanDots; i++ {
		p.Step()
	}
	require.Equal(t, ModeDraw, p.mode)

	for i := 0; i < 172; i++ {
		p.Step()
	}
	require.Equal(t, ModeHBlank, p.mode)
}

func TestVRAMGatedDuringDraw(t *testing.T) {
	p := newEnabled()
	p.Write(0x8000, 0x42) // writable during OAM scan

	for i := 0; i < oamScanDots; i++ {
		p.Step()
	}
	require.Equal(t, ModeDraw, p.mode)

	p.Write(0x8000, 0xFF) // blocked during Draw
	require.Equal(t, byte(0xFF), p.Read(0x8000))
	require.Equal(t, byte(0x42), p.vram[0][0])
}

func TestBGPaletteAutoIncrement(t *testing.T) {
	p := New()
	p.Write(0xFF68, 0x80) // index 0, auto-increment
	p.Write(0xFF69, 0x11)
	p.Write(0xFF69, 0x22)

	require.Equal(t, byte(0x11), p.bgPalette[0])
	require.Equal(t, byte(0x22), p.bgPalette[1])
	require.Equal(t, byte(0x82), p.bcps) // index advanced to 2, auto-increment bit retained
}

func TestPaletteIndexWrapsModulo64(t *testing.T) {
	p := New()
	p.Write(0xFF68, 0x80|63)
	p.Write(0xFF69, 0xAA)
	require.Equal(t, byte(0x80), p.bcps) // wraps back to 0
}

func TestLCDCDisableDroppedMidFrame(t *testing.T) {
	p := newEnabled()
	for i := 0; i < oamScanDots; i++ {
		p.Step() // now in Draw, not VBlank
	}
	p.Write(0xFF40, 0x00)
	require.NotEqual(t, byte(0), p.lcdc&lcdcEnable) // disable write dropped
}

func TestTriggerDMAFillsOAM(t *testing.T) {
	p := New()
	src := make([]byte, 160)
	for i := range src {
		src[i] = byte(i)
	}
	p.TriggerDMA(src)
	require.Equal(t, byte(0), p.oam[0])
	require.Equal(t, byte(159), p.oam[159])
}
