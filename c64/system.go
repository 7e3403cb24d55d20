package c64

// System owns both CPU timelines (main + drive) and every chip, and
// implements the co-scheduling loop of §2/§5: decode one main-CPU
// instruction, drive the VIC pipeline and any chip whose NextUpdate has
// come due, sample interrupt lines, and — on the same OS thread —
// interleave the drive's own timeline whenever it is behind. Grounded on
// the teacher's Bus.Clock() (nes/bus.go), which interleaves PPU/CPU
// ticks from a single driving loop; generalized here to N chips plus a
// second independent CPU.
type System struct {
	Bus *Bus
	Cpu *Cpu6510
	Vic *Vic2
	Sid *Sid
	Cia1 *Cia
	Cia2 *Cia
	Keyboard *Keyboard
	Iec *IecBus
	Drive *Drive

	chips []IoChip

	PerfMeter PerformanceMeter
}

// PerformanceMeter samples (emulated cycles, wall-clock) once per frame
// to cap emulation speed at the PAL clock rate and to drive VIC
// auto-frameskip, per §5.
type PerformanceMeter struct {
	TargetHz    int
	FrameSkip   int
	cyclesAtLastSample uint64
}

const palClockHz = 985248

func NewSystem(sampleRate int, level EmulationLevel) *System {
	bus := NewBus()
	cpu := NewCpu6510()
	vic := NewVic2()
	sid := NewSid(sampleRate)
	cia1 := NewCia(IRQSourceCIA1, false)
	cia2 := NewCia(NMISourceCIA2, true)
	kb := NewKeyboard()
	iec := NewIecBus()
	drive := NewDrive(level, iec, 8)

	cpu.ConnectBus(bus)
	vic.ConnectBus(bus)
	sid.ConnectBus(bus)
	cia1.ConnectBus(bus)
	cia2.ConnectBus(bus)
	cia1.ConnectKeyboard(kb)
	cia2.ConnectIec(iec)
	cia2.SetAtnRiseCallback(drive.NotifyAtn)

	bus.Cpu = cpu
	bus.Vic = vic
	bus.Sid = sid
	bus.Cia1 = cia1
	bus.Cia2 = cia2

	s := &System{
		Bus: bus, Cpu: cpu, Vic: vic, Sid: sid,
		Cia1: cia1, Cia2: cia2, Keyboard: kb, Iec: iec, Drive: drive,
		chips:     []IoChip{vic, sid, cia1, cia2, drive},
		PerfMeter: PerformanceMeter{TargetHz: palClockHz, FrameSkip: 1},
	}
	vic.frameSkipN = 1
	return s
}

func (s *System) Reset() {
	s.Cpu.Reset()
	for _, c := range s.chips {
		c.Reset()
	}
}

// Step runs one main-CPU instruction, then services every chip whose
// NextUpdate has come due — the loop body described in §2. The CPU samples
// the IRQ/NMI lines at the start of its next Step.
func (s *System) Step() {
	s.Cpu.Step()

	for _, c := range s.chips {
		if c.NextUpdate() <= s.Cpu.CycleCount {
			c.Update(s.Cpu.CycleCount)
		}
	}
}

// Run advances the system for approximately the given number of main-CPU
// cycles, the unit §8's testable scenarios are phrased in ("at cycle
// ~2,000,000 ...").
func (s *System) Run(cycles uint64) {
	target := s.Cpu.CycleCount + cycles
	for s.Cpu.CycleCount < target {
		s.Step()
	}
}

// SetBorderColorObserver / SetFrameObserver / SetAudioObserver wire the
// VIC/SID notification hooks (§6.1/§6.2) to host callbacks.
func (s *System) SetFrameObserver(fn func(frame []uint32)) { s.Vic.OnFrameReady = fn }
func (s *System) SetBorderColorObserver(fn func(rgb uint32)) { s.Vic.OnBorderColorChanged = fn }
func (s *System) SetAudioObserver(fn func(sample int16))    { s.Sid.OnSample = fn }
