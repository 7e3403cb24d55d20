package c64

// Bus implements the main address decoder (§4.2): 64KiB of RAM shadowed
// by up to 4 ROM banks and an I/O window, selected by the processor-port
// banking bits latched from $0000/$0001 the way the teacher's nes/bus.go
// dispatches CpuRead/CpuWrite by address range with mirror masks — here
// the "mirrors" are ROM/IO banks overlaying RAM rather than repeating
// windows.
type Bus struct {
	Cpu *Cpu6510

	Ram [65536]byte

	BasicRom [8192]byte
	KernalRom [8192]byte
	CharRom  [4096]byte

	Vic *Vic2
	Sid *Sid
	Cia1 *Cia
	Cia2 *Cia
	ColorRam [1024]byte

	// Expansion port cartridge ROM, present only when a cartridge is
	// attached (§4.2 "expansion").
	CartridgeRom []byte
	CartridgeExromLow bool  // EXROM line, active low
	CartridgeGameLow  bool  // GAME line, active low

	// loram/hiram/charen mirror the processor-port banking bits latched
	// from address 1 (§4.2).
	loram, hiram, charen bool

	// vicBank is the 16KiB window of RAM the VIC reads through (§4.4:
	// CIA2 port A's two high bits select one of 4 banks).
	vicBank int

	ClockCount uint64
}

// SetVicBank selects which of the 4 16KiB RAM windows VicRead sees,
// driven by CIA2 port A's high two bits (§4.4).
func (b *Bus) SetVicBank(bank int) { b.vicBank = bank & 0x03 }

func NewBus() *Bus {
	b := &Bus{
		loram: true, hiram: true, charen: true,
	}
	return b
}

// processorPortDDR/processorPortData model the 6510's on-chip I/O port at
// $0000/$0001; bit state not covered by the DDR reads back as whatever
// was last driven, matching the real chip's floating-bus behavior on an
// input pin with nothing pulling it.
func (b *Bus) processorPortDDR() byte  { return b.Ram[0x0000] }
func (b *Bus) processorPortData() byte { return b.Ram[0x0001] }

func (b *Bus) latchBankingBits() {
	ddr := b.processorPortDDR()
	data := b.processorPortData()
	effective := (data & ddr) | (^ddr & 0x1F) // unused bits Hi-Z, pulled high
	b.loram = effective&0x01 != 0
	b.hiram = effective&0x02 != 0
	b.charen = effective&0x04 != 0
}

// Read dispatches a CPU-visible memory access, applying VIC bus-stall
// contention (§4.1/§4.3, "bad lines steal cycles from the CPU") before
// touching the bus, then banking.
func (b *Bus) Read(addr uint16) byte {
	b.consumeVicStall()

	switch {
	case addr == 0x0000:
		return b.processorPortDDR()
	case addr == 0x0001:
		return b.processorPortData()
	case addr < 0xA000:
		return b.Ram[addr]
	case addr >= 0xA000 && addr < 0xC000:
		if b.loram && b.hiram {
			return b.BasicRom[addr-0xA000]
		}
		return b.Ram[addr]
	case addr >= 0xC000 && addr < 0xD000:
		return b.Ram[addr]
	case addr >= 0xD000 && addr < 0xE000:
		return b.readIo(addr)
	case addr >= 0xE000:
		if b.hiram {
			return b.KernalRom[addr-0xE000]
		}
		return b.Ram[addr]
	}
	return 0
}

func (b *Bus) Write(addr uint16, data byte) {
	b.consumeVicStall()

	switch {
	case addr == 0x0000:
		b.Ram[0x0000] = data
		b.latchBankingBits()
	case addr == 0x0001:
		b.Ram[0x0001] = data
		b.latchBankingBits()
	case addr >= 0xD000 && addr < 0xE000:
		b.writeIo(addr, data)
	default:
		b.Ram[addr] = data
	}
}

// readIo/writeIo subdivide the $D000-$DFFF I/O window per §4.2: VIC-II
// registers mirror every 64 bytes, SID every 32, color RAM is a nibble
// store, and the two CIAs mirror every 16.
func (b *Bus) readIo(addr uint16) byte {
	if b.charen {
		switch {
		case addr < 0xD400:
			return b.Vic.Read(addr & 0x3F)
		case addr < 0xD800:
			return b.Sid.Read(addr & 0x1F)
		case addr < 0xDC00:
			return b.ColorRam[addr-0xD800]&0x0F | 0xF0
		case addr < 0xDD00:
			return b.Cia1.Read(addr & 0x0F)
		case addr < 0xDE00:
			return b.Cia2.Read(addr & 0x0F)
		default:
			return b.readCartridgeIo(addr)
		}
	}
	return b.CharRom[addr-0xD000]
}

func (b *Bus) writeIo(addr uint16, data byte) {
	if b.charen {
		switch {
		case addr < 0xD400:
			b.Vic.Write(addr&0x3F, data)
		case addr < 0xD800:
			b.Sid.Write(addr&0x1F, data)
		case addr < 0xDC00:
			b.ColorRam[addr-0xD800] = data & 0x0F
		case addr < 0xDD00:
			b.Cia1.Write(addr&0x0F, data)
		case addr < 0xDE00:
			b.Cia2.Write(addr&0x0F, data)
		default:
			b.writeCartridgeIo(addr, data)
		}
		return
	}
	// IO disabled: the $D000 window reads back character ROM (handled in
	// readIo), but on real hardware a write always lands in the
	// underlying RAM, not the ROM image.
	b.Ram[addr] = data
}

func (b *Bus) readCartridgeIo(addr uint16) byte {
	_ = addr
	return 0
}

func (b *Bus) writeCartridgeIo(addr uint16, data byte) {
	_ = addr
	_ = data
}

// consumeVicStall implements the bus-contention design note: before every
// external access, the CPU (via the bus) checks the VIC's bus_available
// flag, and if it is false, clocks the VIC forward one cycle at a time
// (charging no CPU progress) until the VIC releases the bus.
func (b *Bus) consumeVicStall() {
	if b.Vic == nil {
		return
	}
	for !b.Vic.busAvailable {
		b.Vic.Update(b.ClockCount + 1)
		b.ClockCount++
	}
}

// VicRead lets the VIC-II read CPU-visible RAM and color RAM directly for
// character/bitmap/sprite fetches (§4.3), bypassing banking since the
// VIC always sees RAM, offset into whichever of the 4 16KiB video banks
// CIA2 port A currently selects.
func (b *Bus) VicRead(addr uint16) byte {
	return b.Ram[(uint16(b.vicBank)<<14)+addr]
}
