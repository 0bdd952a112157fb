package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dotrunner/core/joypad"
	"dotrunner/core/mbc"
	"dotrunner/core/ppu"
	"dotrunner/core/timer"
)

func newTestBus() *Bus {
	rom := make([]byte, 0x8000)
	cart := &Cartridge{MBC: mbc.New(mbc.NoMBC, rom, nil), Variant: mbc.NoMBC}
	return NewBus(cart, ppu.New(), timer.New(), joypad.New())
}

func TestWRAMBank0Fixed(t *testing.T) {
	b := newTestBus()
	b.Write(0xC000, 0x42)
	require.Equal(t, byte(0x42), b.Read(0xC000))
}

func TestWRAMBankSwitchSelect(t *testing.T) {
	b := newTestBus()
	b.Write(0xFF70, 0x03)
	b.Write(0xD000, 0x11)
	b.Write(0xFF70, 0x02)
	require.Equal(t, byte(0), b.Read(0xD000))
	b.Write(0xFF70, 0x03)
	require.Equal(t, byte(0x11), b.Read(0xD000))
}

func TestWRAMBankZeroAliasesToOne(t *testing.T) {
	b := newTestBus()
	b.Write(0xFF70, 0x00)
	require.Equal(t, byte(1), b.Read(0xFF70))
}

func TestEchoRAMProhibitedByDefault(t *testing.T) {
	b := newTestBus()
	b.Write(0xC000, 0x99)
	b.Write(0xE000, 0x55) // prohibited: dropped
	require.Equal(t, byte(0xFF), b.Read(0xE000))
	require.Equal(t, byte(0x99), b.Read(0xC000))
}

func TestEchoRAMPermissiveMirrorsWRAM(t *testing.T) {
	b := newTestBus()
	b.permissive = true
	b.Write(0xC010, 0x77)
	require.Equal(t, byte(0x77), b.Read(0xE010))
	_, ok := b.TakeFault().(*CoreError)
	require.False(t, ok)
}

func TestEchoRAMStrictReadFaults(t *testing.T) {
	b := newTestBus()
	b.Read(0xE010)
	err, ok := b.TakeFault().(*CoreError)
	require.True(t, ok)
	require.Equal(t, KindAccessViolation, err.Kind)
}

func TestOAMSentinelStrictWriteFaults(t *testing.T) {
	b := newTestBus()
	b.Write(0xFEA0, 0x55)
	err, ok := b.TakeFault().(*CoreError)
	require.True(t, ok)
	require.Equal(t, KindAccessViolation, err.Kind)
}

func TestAudioHoleStrictReadFaults(t *testing.T) {
	b := newTestBus()
	require.Equal(t, byte(0xFF), b.Read(0xFF12)) // NR12, unimplemented
	err, ok := b.TakeFault().(*CoreError)
	require.True(t, ok)
	require.Equal(t, KindAccessViolation, err.Kind)
}

func TestTakeFaultClearsAfterRead(t *testing.T) {
	b := newTestBus()
	b.Read(0xE010)
	require.NotNil(t, b.TakeFault())
	require.Nil(t, b.TakeFault())
}

func TestBankOutOfRangeSurfacesThroughBus(t *testing.T) {
	rom := make([]byte, 128*0x4000)
	cart := &Cartridge{MBC: mbc.New(mbc.MBC1, rom, nil), Variant: mbc.MBC1}
	b := NewBus(cart, ppu.New(), timer.New(), joypad.New())

	b.Write(0x2000, 0x1F) // lower = 31
	b.Write(0x4000, 0x03) // upper = 3 -> combined bank 127 > 125
	b.Read(0x4000)

	err, ok := b.TakeFault().(*CoreError)
	require.True(t, ok)
	require.Equal(t, KindBankOutOfRange, err.Kind)
}

func TestOAMDeadZoneReadsFF(t *testing.T) {
	b := newTestBus()
	require.Equal(t, byte(0xFF), b.Read(0xFEA0))
}

func TestHRAMAndIE(t *testing.T) {
	b := newTestBus()
	b.Write(0xFF80, 0xAB)
	require.Equal(t, byte(0xAB), b.Read(0xFF80))
	b.Write(0xFFFF, 0x1F)
	require.Equal(t, byte(0x1F), b.Read(0xFFFF))
}

func TestPendingInterruptPriorityOrder(t *testing.T) {
	b := newTestBus()
	b.ie = 0xFF
	b.RaiseInterrupt(0x04) // Timer
	b.RaiseInterrupt(0x01) // VBlank

	vector, bit, pending := b.PendingInterrupt()
	require.True(t, pending)
	require.Equal(t, byte(0x01), bit)
	require.Equal(t, uint16(0x0040), vector)
}

func TestClearInterruptClearsOnlyThatBit(t *testing.T) {
	b := newTestBus()
	b.ie = 0xFF
	b.RaiseInterrupt(0x01)
	b.RaiseInterrupt(0x02)
	b.ClearInterrupt(0x01)

	_, bit, pending := b.PendingInterrupt()
	require.True(t, pending)
	require.Equal(t, byte(0x02), bit)
}

func TestOAMDMATriggersCopy(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 160; i++ {
		b.Write(0xC100+uint16(i), byte(i))
	}
	b.Write(0xFF46, 0xC1)
	require.Equal(t, byte(0x1), b.PPU.Read(0xFE01))
}
