// cartridge.go - header parsing. Grounded on original_source's
// types/cartrige.rs (ROM/RAM size bytes decoded into concrete bank
// counts) and media_loader.go (a loader that validates a
// raw byte stream before handing components a slice of it).

package core

import (
	"dotrunner/core/mbc"
	"fmt"
)

const (
	headerTitleStart = 0x0134
	headerTitleEnd   = 0x0143
	headerCGBFlag    = 0x0143
	headerSGBFlag    = 0x0146
	headerMBCType    = 0x0147
	headerROMSize    = 0x0148
	headerRAMSize    = 0x0149
	headerMinSize    = 0x0150
)

// romBankCounts maps the 0x148 size byte to a ROM bank count. Real
// hardware only defines 0x00-0x08; anything else is a corrupt header.
var romBankCounts = map[byte]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16,
	0x04: 32, 0x05: 64, 0x06: 128, 0x07: 256, 0x08: 512,
}

// ramBankCounts maps the 0x149 size byte to an 8KiB-bank count.
var ramBankCounts = map[byte]int{
	0x00: 0, 0x01: 1, 0x02: 1, 0x03: 4, 0x04: 16, 0x05: 8,
}

var mbcTypeVariant = map[byte]mbc.Variant{
	0x00: mbc.NoMBC,
	0x01: mbc.MBC1, 0x02: mbc.MBC1, 0x03: mbc.MBC1,
	0x05: mbc.MBC2, 0x06: mbc.MBC2,
	0x0F: mbc.MBC3, 0x10: mbc.MBC3, 0x11: mbc.MBC3, 0x12: mbc.MBC3, 0x13: mbc.MBC3,
	0x19: mbc.MBC5, 0x1A: mbc.MBC5, 0x1B: mbc.MBC5, 0x1C: mbc.MBC5, 0x1D: mbc.MBC5, 0x1E: mbc.MBC5,
}

const ramBankSize = 0x2000

// Cartridge is the parsed result of a ROM load: a ready-to-use MBC
// controller plus the header fields callers might want to display.
type Cartridge struct {
	Title      string
	CGBFlag    byte
	SGBFlag    byte
	MBC        *mbc.Controller
	Variant    mbc.Variant
	ROMBanks   int
	RAMBanks   int
}

// LoadCartridge validates a raw ROM byte stream and constructs its MBC.
func LoadCartridge(rom []byte) (*Cartridge, error) {
	if len(rom) < headerMinSize {
		return nil, newError(KindCartridgeLoad, 0, "truncated header: %d bytes", len(rom))
	}

	variant, ok := mbcTypeVariant[rom[headerMBCType]]
	if !ok {
		return nil, newError(KindCartridgeLoad, 0, "unknown MBC type byte 0x%02X", rom[headerMBCType])
	}

	romBanks, ok := romBankCounts[rom[headerROMSize]]
	if !ok {
		return nil, newError(KindCartridgeLoad, 0, "unknown ROM size byte 0x%02X", rom[headerROMSize])
	}
	ramBanks, ok := ramBankCounts[rom[headerRAMSize]]
	if !ok {
		return nil, newError(KindCartridgeLoad, 0, "unknown RAM size byte 0x%02X", rom[headerRAMSize])
	}

	var ram []byte
	if ramBanks > 0 {
		ram = make([]byte, ramBanks*ramBankSize)
	} else if variant == mbc.MBC2 {
		ram = make([]byte, 512) // MBC2's built-in nibble RAM, independent of the header RAM-size byte
	}

	return &Cartridge{
		Title:    parseTitle(rom),
		CGBFlag:  rom[headerCGBFlag],
		SGBFlag:  rom[headerSGBFlag],
		MBC:      mbc.New(variant, rom, ram),
		Variant:  variant,
		ROMBanks: romBanks,
		RAMBanks: ramBanks,
	}, nil
}

func parseTitle(rom []byte) string {
	raw := rom[headerTitleStart : headerTitleEnd+1]
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return fmt.Sprintf("%s", raw[:end])
}
