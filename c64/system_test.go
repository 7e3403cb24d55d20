package c64

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSystemResetBootsIntoKernalColdStart covers the concrete §8
// scenario: after reset, the CPU's PC comes from the KERNAL's reset
// vector rather than a zeroed or garbage value.
func TestSystemResetBootsIntoKernalColdStart(t *testing.T) {
	s := NewSystem(44100, EmulationIecOnly)
	s.Bus.KernalRom[0x1FFC] = 0x00 // $FFFC-$E000
	s.Bus.KernalRom[0x1FFD] = 0xE0

	s.Reset()

	assert.Equal(t, uint16(0xE000), s.Cpu.Pc)
}

// TestSystemStepAdvancesCpuAndChips covers the co-scheduling loop: one
// Step runs exactly one CPU instruction and lets any chip whose
// NextUpdate has come due catch up to it.
func TestSystemStepAdvancesCpuAndChips(t *testing.T) {
	s := NewSystem(44100, EmulationIecOnly)
	s.Bus.KernalRom[0x1FFC], s.Bus.KernalRom[0x1FFD] = 0x00, 0xE0
	s.Bus.KernalRom[0x0000] = 0xEA // NOP at $E000
	s.Reset()

	before := s.Cpu.CycleCount
	s.Step()

	assert.Greater(t, s.Cpu.CycleCount, before)
	assert.Equal(t, s.Cpu.CycleCount, s.Vic.cycleCount)
}

// TestSystemRunAdvancesAtLeastRequestedCycles covers Run's contract: the
// CPU's cycle count ends at or past the requested target.
func TestSystemRunAdvancesAtLeastRequestedCycles(t *testing.T) {
	s := NewSystem(44100, EmulationIecOnly)
	s.Bus.KernalRom[0x1FFC], s.Bus.KernalRom[0x1FFD] = 0x00, 0xE0
	for i := uint16(0); i < 0x2000; i++ {
		s.Bus.KernalRom[i] = 0xEA // NOP everywhere, so Run never runs off the end
	}
	s.Reset()

	s.Run(1000)

	assert.GreaterOrEqual(t, s.Cpu.CycleCount, uint64(1000))
}

func TestSystemFrameObserverFires(t *testing.T) {
	s := NewSystem(44100, EmulationIecOnly)
	s.Bus.KernalRom[0x1FFC], s.Bus.KernalRom[0x1FFD] = 0x00, 0xE0
	for i := uint16(0); i < 0x2000; i++ {
		s.Bus.KernalRom[i] = 0xEA
	}
	s.Reset()

	fired := false
	s.SetFrameObserver(func(frame []uint32) { fired = true })

	s.Run(uint64(linesPerFrame) * cyclesPerLine)

	assert.True(t, fired)
}
