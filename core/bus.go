// bus.go - the 16-bit address-space router: total over every address,
// decoding into the MBC, PPU, banked WRAM, HRAM, the I/O page, and the
// interrupt latches. Grounded on machine_bus.go (a single
// Read/Write pair dispatching by address range to whichever component
// owns that range) generalized from its multi-megabyte memory-mapped
// device table down to this console's fixed region layout.

package core

import (
	"dotrunner/core/joypad"
	"dotrunner/core/ppu"
	"dotrunner/core/timer"
)

const (
	wramBankSize = 0x1000
	hramSize     = 0x80
)

// interrupt bit / vector table, priority-ordered highest first.
var interruptVectors = []struct {
	bit    byte
	vector uint16
}{
	{0x01, 0x0040}, // VBlank
	{0x02, 0x0048}, // LCD STAT
	{0x04, 0x0050}, // Timer
	{0x08, 0x0058}, // Serial
	{0x10, 0x0060}, // Joypad
}

// bankedMemory is the subset of mbc.Controller's surface the bus needs;
// named here so Bus doesn't have to import package mbc just to spell a
// type it only ever calls through an interface. TakeFault surfaces a
// corrupt-cartridge bank-out-of-range condition raised since the last
// poll.
type bankedMemory interface {
	Read(uint16) byte
	Write(uint16, byte)
	TakeFault() (string, bool)
}

// Bus owns WRAM/HRAM/IE/IF and routes everything else to its
// component owners.
type Bus struct {
	MBCController bankedMemory
	PPU           *ppu.PPU
	Timer         *timer.Timer
	Joypad        *joypad.Joypad
	IR            infrared

	wram       [8][wramBankSize]byte
	wramBank   int
	hram       [hramSize]byte
	ie         byte
	ifReg      byte
	permissive bool // access-violation toggle: drop-with-log instead of fatal
	fault      error
}

// SetPermissive toggles whether a prohibited-region access is fatal
// (strict, the default) or dropped with a warning log.
func (b *Bus) SetPermissive(permissive bool) {
	b.permissive = permissive
}

func NewBus(cart *Cartridge, p *ppu.PPU, t *timer.Timer, j *joypad.Joypad) *Bus {
	b := &Bus{
		MBCController: cart.MBC,
		PPU:           p,
		Timer:         t,
		Joypad:        j,
	}
	b.wramBank = 1
	return b
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.MBCController.Read(addr)
	case addr < 0xA000:
		return b.PPU.Read(addr)
	case addr < 0xC000:
		return b.MBCController.Read(addr)
	case addr < 0xD000:
		return b.wram[0][addr-0xC000]
	case addr < 0xE000:
		return b.wram[b.wramBank][addr-0xD000]
	case addr < 0xFE00:
		return b.echoRead(addr)
	case addr < 0xFEA0:
		return b.PPU.Read(addr)
	case addr < 0xFF00:
		return b.oamSentinelRead(addr)
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.ie
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.MBCController.Write(addr, value)
	case addr < 0xA000:
		b.PPU.Write(addr, value)
	case addr < 0xC000:
		b.MBCController.Write(addr, value)
	case addr < 0xD000:
		b.wram[0][addr-0xC000] = value
	case addr < 0xE000:
		b.wram[b.wramBank][addr-0xD000] = value
	case addr < 0xFE00:
		b.echoWrite(addr, value)
	case addr < 0xFEA0:
		b.PPU.Write(addr, value)
	case addr < 0xFF00:
		b.oamSentinelWrite(addr, value)
	case addr < 0xFF80:
		b.writeIO(addr, value)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default:
		b.ie = value
	}
}

// echoRead/echoWrite mirror 0xE000-0xFDFF onto WRAM bank 0; this is a
// prohibited region by design, but permissive mode lets emulated
// software that still pokes it keep running instead of halting the core.
func (b *Bus) echoRead(addr uint16) byte {
	if !b.permissive {
		b.raiseFault("echo RAM read prohibited at 0x%04X", addr)
		return 0xFF
	}
	log.Warnf("echo RAM read at 0x%04X dropped to WRAM mirror (permissive mode)", addr)
	return b.wram[0][addr-0xE000]
}

func (b *Bus) echoWrite(addr uint16, value byte) {
	if !b.permissive {
		b.raiseFault("echo RAM write prohibited at 0x%04X", addr)
		return
	}
	log.Warnf("echo RAM write at 0x%04X dropped to WRAM mirror (permissive mode)", addr)
	b.wram[0][addr-0xE000] = value
}

// oamSentinelRead/oamSentinelWrite handle 0xFEA0-0xFEFF, unmapped on
// real hardware and prohibited here by design.
func (b *Bus) oamSentinelRead(addr uint16) byte {
	if !b.permissive {
		b.raiseFault("OAM sentinel read prohibited at 0x%04X", addr)
		return 0xFF
	}
	log.Warnf("OAM sentinel read at 0x%04X returned 0xFF (permissive mode)", addr)
	return 0xFF
}

func (b *Bus) oamSentinelWrite(addr uint16, value byte) {
	if !b.permissive {
		b.raiseFault("OAM sentinel write prohibited at 0x%04X", addr)
		return
	}
	log.Warnf("OAM sentinel write at 0x%04X (value 0x%02X) dropped (permissive mode)", addr, value)
}

// raiseFault records the first strict-mode access violation seen since
// the last TakeFault.
func (b *Bus) raiseFault(format string, args ...any) {
	if b.fault == nil {
		b.fault = newError(KindAccessViolation, 0, format, args...)
	}
}

// TakeFault returns and clears any fault raised by this bus or its MBC
// since the last call; the device scheduler polls it after every CPU
// step.
func (b *Bus) TakeFault() error {
	if b.fault != nil {
		err := b.fault
		b.fault = nil
		return err
	}
	if msg, ok := b.MBCController.TakeFault(); ok {
		return newError(KindBankOutOfRange, 0, "%s", msg)
	}
	return nil
}

func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01 || addr == 0xFF02:
		return 0
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.readTimerReg(addr)
	case addr == 0xFF0F:
		return b.ifReg | 0xE0
	case addr == 0xFF46:
		return b.PPU.DMASource()
	case addr == 0xFF56:
		return b.IR.Read()
	case addr == 0xFF70:
		return byte(b.wramBank)
	case addr >= 0xFF40 && addr <= 0xFF6F:
		return b.PPU.Read(addr)
	default:
		// Unmapped I/O holes, including the unimplemented audio
		// registers (0xFF10-0xFF3F): prohibited the same as any other
		// reserved region.
		if !b.permissive {
			b.raiseFault("I/O read prohibited at 0x%04X", addr)
			return 0xFF
		}
		log.Warnf("I/O read at 0x%04X returned 0xFF (permissive mode)", addr)
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, value byte) {
	switch {
	case addr == 0xFF00:
		b.Joypad.WriteSelect(value)
	case addr == 0xFF01 || addr == 0xFF02:
		// serial stub: writes ignored
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.writeTimerReg(addr, value)
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
	case addr == 0xFF46:
		b.PPU.Write(addr, value) // latches the page for PPU.DMASource
		b.triggerDMA(value)
	case addr == 0xFF56:
		b.IR.Write(value)
	case addr == 0xFF70:
		bank := int(value & 0x07)
		if bank == 0 {
			bank = 1
		}
		b.wramBank = bank
	case addr >= 0xFF40 && addr <= 0xFF6F:
		b.PPU.Write(addr, value)
	default:
		// Unmapped I/O holes, including the unimplemented audio
		// registers (0xFF10-0xFF3F): prohibited the same as any other
		// reserved region.
		if !b.permissive {
			b.raiseFault("I/O write prohibited at 0x%04X", addr)
			return
		}
		log.Warnf("I/O write at 0x%04X (value 0x%02X) dropped (permissive mode)", addr, value)
	}
}

func (b *Bus) readTimerReg(addr uint16) byte {
	switch addr {
	case 0xFF04:
		return b.Timer.Divider
	case 0xFF05:
		return b.Timer.Counter
	case 0xFF06:
		return b.Timer.Modulo
	default: // 0xFF07
		return b.Timer.ReadControl()
	}
}

func (b *Bus) writeTimerReg(addr uint16, value byte) {
	switch addr {
	case 0xFF04:
		b.Timer.WriteDivider()
	case 0xFF05:
		b.Timer.Counter = value
	case 0xFF06:
		b.Timer.Modulo = value
	case 0xFF07:
		b.Timer.WriteControl(value)
	}
}

// triggerDMA performs the 0xFF46 OAM DMA copy immediately: real
// hardware takes 160 machine cycles during which the CPU can only
// access HRAM, a timing nuance this core does not model.
func (b *Bus) triggerDMA(page byte) {
	src := uint16(page) << 8
	var buf [160]byte
	for i := range buf {
		buf[i] = b.Read(src + uint16(i))
	}
	b.PPU.TriggerDMA(buf[:])
}

// PendingInterrupt implements cpu.Bus: the highest-priority enabled
// and flagged interrupt, in VBlank > LCD STAT > Timer > Serial >
// Joypad order.
func (b *Bus) PendingInterrupt() (vector uint16, bit byte, pending bool) {
	for _, iv := range interruptVectors {
		if b.ie&iv.bit != 0 && b.ifReg&iv.bit != 0 {
			return iv.vector, iv.bit, true
		}
	}
	return 0, 0, false
}

func (b *Bus) ClearInterrupt(bit byte) {
	b.ifReg &^= bit
}

// RaiseInterrupt sets an IF bit; called by the device scheduler when a
// component (PPU VBlank/STAT, timer overflow) signals one. The joypad
// raises no interrupt.
func (b *Bus) RaiseInterrupt(bit byte) {
	b.ifReg |= bit
}

// State is a save-state snapshot of the bus's own memory: WRAM, HRAM,
// the interrupt latches, and the active WRAM bank. The MBC's state is
// saved separately since package core holds it only through the
// bankedMemory interface.
type State struct {
	WRAM       [8][wramBankSize]byte
	WRAMBank   int
	HRAM       [hramSize]byte
	IE         byte
	IF         byte
	Permissive bool
}

func (b *Bus) SaveState() State {
	return State{
		WRAM: b.wram, WRAMBank: b.wramBank,
		HRAM: b.hram,
		IE:   b.ie, IF: b.ifReg,
		Permissive: b.permissive,
	}
}

func (b *Bus) LoadState(s State) {
	b.wram = s.WRAM
	b.wramBank = s.WRAMBank
	b.hram = s.HRAM
	b.ie = s.IE
	b.ifReg = s.IF
	b.permissive = s.Permissive
}
