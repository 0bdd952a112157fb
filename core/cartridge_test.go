package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dotrunner/core/mbc"
)

func makeHeaderROM(title string, mbcType, romSize, ramSize byte) []byte {
	rom := make([]byte, headerMinSize+0x10)
	copy(rom[headerTitleStart:headerTitleEnd], title)
	rom[headerMBCType] = mbcType
	rom[headerROMSize] = romSize
	rom[headerRAMSize] = ramSize
	return rom
}

func TestLoadCartridgeNoMBC(t *testing.T) {
	rom := makeHeaderROM("TETRIS", 0x00, 0x00, 0x00)
	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	require.Equal(t, "TETRIS", cart.Title)
	require.Equal(t, mbc.NoMBC, cart.Variant)
	require.Equal(t, 2, cart.ROMBanks)
	require.Equal(t, 0, cart.RAMBanks)
}

func TestLoadCartridgeMBC1WithRAM(t *testing.T) {
	rom := makeHeaderROM("ZELDA", 0x03, 0x04, 0x03)
	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	require.Equal(t, mbc.MBC1, cart.Variant)
	require.Equal(t, 32, cart.ROMBanks)
	require.Equal(t, 4, cart.RAMBanks)
}

func TestLoadCartridgeMBC2BuiltInRAM(t *testing.T) {
	// MBC2 carries its own 512-byte nibble RAM regardless of the
	// header's RAM-size byte, which is conventionally zero for it.
	rom := makeHeaderROM("POKEMON", 0x05, 0x01, 0x00)
	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	require.Equal(t, mbc.MBC2, cart.Variant)
	require.Equal(t, 512, len(cart.MBC.RAM))
}

func TestLoadCartridgeUnknownMBCType(t *testing.T) {
	rom := makeHeaderROM("BAD", 0xFF, 0x00, 0x00)
	_, err := LoadCartridge(rom)
	require.Error(t, err)
	coreErr, ok := err.(*CoreError)
	require.True(t, ok)
	require.Equal(t, KindCartridgeLoad, coreErr.Kind)
}

func TestLoadCartridgeTooShort(t *testing.T) {
	_, err := LoadCartridge(make([]byte, 16))
	require.Error(t, err)
}

func TestParseTitleStopsAtNullTerminator(t *testing.T) {
	rom := makeHeaderROM("SHORT\x00GARBAGE", 0x00, 0x00, 0x00)
	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	require.Equal(t, "SHORT", cart.Title)
}
