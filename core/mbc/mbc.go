// mbc.go - Memory Bank Controller family: a tagged variant
// over MBC1/MBC2/MBC3/MBC5 sharing one Controller type, the way
// IntuitionEngine tags a single EmulatorCPU behind createCPURunner's
// mode switch rather than four unrelated interfaces (see
// runtime_helpers.go). Controller.Read/Write dispatch on Variant so the
// bus only ever talks to one concrete type.

package mbc

import "fmt"

type Variant int

const (
	NoMBC Variant = iota
	MBC1
	MBC2
	MBC3
	MBC5
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// bankingMode is MBC1's 0x6000-0x7FFF latch.
type bankingMode int

const (
	romPrimary bankingMode = iota
	ramPrimary
)

// latchState is MBC3's RTC latch state machine.
type latchState int

const (
	unlatched latchState = iota
	attemptingLatch
	latched
	attemptingUnlatch
)

// Controller is the MBC state described below: the ROM image, an
// optional RAM region, and variant-specific banking/latch registers.
// Unused fields for a given Variant simply stay at their zero value.
type Controller struct {
	Variant Variant
	ROM     []byte
	RAM     []byte

	ramEnabled bool

	// MBC1
	lowerROMBank int // 5 bits, value 0 remapped to 1
	upperBits    int // 2 bits: upper ROM bits or RAM bank, per mode
	mode         bankingMode

	// MBC2 / MBC3 / MBC5 ROM bank register (width per variant)
	romBank int

	// MBC3 / MBC5 RAM bank register
	ramBank int

	// MBC3 RTC
	rtc       RTC
	rtcSelect byte // 0x00 = RAM window, 0x08-0x0C = RTC register
	latch     latchState

	// fault latches the first bank-out-of-range condition seen since the
	// last TakeFault, for the bus to surface as a fatal error.
	fault string
}

// raiseFault records a corrupt-cartridge condition, keeping only the
// first one until it is taken.
func (c *Controller) raiseFault(format string, args ...any) {
	if c.fault == "" {
		c.fault = fmt.Sprintf(format, args...)
	}
}

// TakeFault returns and clears any pending fault, for the bus to poll
// after every access.
func (c *Controller) TakeFault() (string, bool) {
	f := c.fault
	c.fault = ""
	return f, f != ""
}

// New constructs a Controller for the given variant over a ROM image
// and (for variants with external RAM) a RAM region sized per the
// cartridge header.
func New(variant Variant, rom, ram []byte) *Controller {
	c := &Controller{Variant: variant, ROM: rom, RAM: ram}
	c.romBank = 1
	c.lowerROMBank = 1
	c.rtc = NewRTC()
	return c
}

// ramEnableWrite implements the shared "low nibble 0xA enables" rule
// used by MBC1 and MBC5, and applied uniformly to MBC3 as well since it
// has no variant-specific enable convention of its own.
func ramEnableWrite(value byte) bool { return value&0x0F == 0x0A }

func (c *Controller) Read(addr uint16) byte {
	switch c.Variant {
	case MBC1:
		return c.readMBC1(addr)
	case MBC2:
		return c.readMBC2(addr)
	case MBC3:
		return c.readMBC3(addr)
	case MBC5:
		return c.readMBC5(addr)
	default:
		return c.readNoMBC(addr)
	}
}

func (c *Controller) Write(addr uint16, value byte) {
	switch c.Variant {
	case MBC1:
		c.writeMBC1(addr, value)
	case MBC2:
		c.writeMBC2(addr, value)
	case MBC3:
		c.writeMBC3(addr, value)
	case MBC5:
		c.writeMBC5(addr, value)
	default:
		c.writeNoMBC(addr, value)
	}
}

func (c *Controller) romByte(offset int) byte {
	if offset < 0 || offset >= len(c.ROM) {
		return 0xFF
	}
	return c.ROM[offset]
}

func (c *Controller) String() string {
	return fmt.Sprintf("MBC variant=%d romBank=%d ramBank=%d enabled=%v", c.Variant, c.romBank, c.ramBank, c.ramEnabled)
}

// State is a save-state snapshot of everything a Controller mutates
// after construction: external RAM contents (battery-backed on real
// cartridges) plus every variant's banking/latch registers, unused
// ones simply carrying their zero value.
type State struct {
	RAM []byte

	RAMEnabled bool

	LowerROMBank int
	UpperBits    int
	Mode         bankingMode

	ROMBank int
	RAMBank int

	RTC       RTC
	RTCSelect byte
	Latch     latchState
}

func (c *Controller) SaveState() State {
	ram := make([]byte, len(c.RAM))
	copy(ram, c.RAM)
	return State{
		RAM:          ram,
		RAMEnabled:   c.ramEnabled,
		LowerROMBank: c.lowerROMBank,
		UpperBits:    c.upperBits,
		Mode:         c.mode,
		ROMBank:      c.romBank,
		RAMBank:      c.ramBank,
		RTC:          c.rtc,
		RTCSelect:    c.rtcSelect,
		Latch:        c.latch,
	}
}

func (c *Controller) LoadState(s State) {
	copy(c.RAM, s.RAM)
	c.ramEnabled = s.RAMEnabled
	c.lowerROMBank = s.LowerROMBank
	c.upperBits = s.UpperBits
	c.mode = s.Mode
	c.romBank = s.ROMBank
	c.ramBank = s.RAMBank
	c.rtc = s.RTC
	c.rtc.reference = NewRTC().reference // gob drops it; live time restarts at load
	c.rtcSelect = s.RTCSelect
	c.latch = s.Latch
}
