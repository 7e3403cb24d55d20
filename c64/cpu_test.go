package c64

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCpu() (*Cpu6510, *Bus) {
	bus := NewBus()
	cpu := NewCpu6510()
	cpu.ConnectBus(bus)
	bus.Cpu = cpu
	// Bank out BASIC/KERNAL/IO so tests can place vectors in RAM.
	bus.Write(0x0000, 0x07)
	bus.Write(0x0001, 0x00)
	return cpu, bus
}

func TestCpuResetVectorsThroughFFFC(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC] = 0x00
	bus.Ram[0xFFFD] = 0x80

	cpu.Reset()

	assert.Equal(t, uint16(0x8000), cpu.Pc)
	assert.Equal(t, byte(0xFD), cpu.Sp)
	assert.Equal(t, byte(7), cpu.Cycles)
	assert.True(t, cpu.flagSet(FlagI))
}

// TestCpuLDAImmediateCycles exercises §8's "cycles_after - cycles_before ∈
// {C, C+1, C+2}" property for a non-page-crossing immediate-mode load.
func TestCpuLDAImmediateCycles(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0xA9 // LDA #imm
	bus.Ram[0x8001] = 0x42

	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount

	assert.Equal(t, uint64(2), after-before)
	assert.Equal(t, byte(0x42), cpu.A)
	assert.False(t, cpu.flagSet(FlagZ))
	assert.False(t, cpu.flagSet(FlagN))
}

// TestCpuAbsoluteXPageCrossChargesExtraCycle checks the page-sensitive
// addressing-mode penalty named in §4.1 and tested by §8.
func TestCpuAbsoluteXPageCrossChargesExtraCycle(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0xBD // LDA abs,X
	bus.Ram[0x8001] = 0xFF
	bus.Ram[0x8002] = 0x20
	cpu.X = 0x01 // 0x20FF + 1 crosses into 0x2100
	bus.Ram[0x2100] = 0x99

	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount

	assert.Equal(t, uint64(5), after-before) // base 4 + 1 page-cross
	assert.Equal(t, byte(0x99), cpu.A)
}

func TestCpuAbsoluteXNoPageCrossNoExtraCycle(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0xBD // LDA abs,X
	bus.Ram[0x8001] = 0x00
	bus.Ram[0x8002] = 0x20
	cpu.X = 0x01
	bus.Ram[0x2001] = 0x55

	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount

	assert.Equal(t, uint64(4), after-before)
}

// TestCpuBranchTakenCrossingPageChargesTwoExtra covers both the
// branch-taken penalty and the page-cross penalty stacking, per §4.1/§8.
func TestCpuBranchTakenCrossingPageChargesTwoExtra(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0xFD, 0x80
	cpu.Reset()

	// BNE with a +0x7F offset: after the 2-byte instruction PC=0x80FF, and
	// the branch target 0x80FF+0x7F=0x817E lands on the next page.
	bus.Ram[0x80FD] = 0xD0
	bus.Ram[0x80FE] = 0x7F
	cpu.setFlag(FlagZ, false) // ensure branch is taken (BNE: !Z)

	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount

	assert.Equal(t, uint64(4), after-before) // base 2 + taken 1 + page-cross 1
}

func TestCpuBranchNotTakenNoExtra(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0xD0 // BNE
	bus.Ram[0x8001] = 0x10
	cpu.setFlag(FlagZ, true) // branch not taken

	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount

	assert.Equal(t, uint64(2), after-before)
}

func TestCpuAdcSetsCarryOverflowZeroNegative(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	cpu.A = 0x7F // signed overflow: 0x7F + 0x01 = 0x80
	bus.Ram[0x8000] = 0x69 // ADC #imm
	bus.Ram[0x8001] = 0x01

	cpu.Step()

	assert.Equal(t, byte(0x80), cpu.A)
	assert.True(t, cpu.flagSet(FlagV))
	assert.True(t, cpu.flagSet(FlagN))
	assert.False(t, cpu.flagSet(FlagC))
	assert.False(t, cpu.flagSet(FlagZ))
}

// TestCpuAdcDecimalMode exercises §4.1's "Decimal mode alters ADC/SBC to
// binary-coded-decimal arithmetic": 0x09 + 0x01 in BCD should yield 0x10,
// not the binary 0x0A.
func TestCpuAdcDecimalMode(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	cpu.setFlag(FlagD, true)
	cpu.A = 0x09
	bus.Ram[0x8000] = 0x69
	bus.Ram[0x8001] = 0x01

	cpu.Step()

	assert.Equal(t, byte(0x10), cpu.A)
}

func TestCpuSbcDecimalMode(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	cpu.setFlag(FlagD, true)
	cpu.setFlag(FlagC, true) // no borrow
	cpu.A = 0x10
	bus.Ram[0x8000] = 0xE9 // SBC #imm
	bus.Ram[0x8001] = 0x01

	cpu.Step()

	assert.Equal(t, byte(0x09), cpu.A)
}

// TestCpuUnknownOpcodeAdvancesAndRecordsDecodeError covers §7: an unknown
// opcode logs a warning and the CPU still advances rather than deadlocking.
func TestCpuUnknownOpcodeAdvancesAndRecordsDecodeError(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0x02 // illegal/JAM in our table -> opXXX
	bus.Ram[0x8001] = 0xEA // NOP, should still be reached next step

	cpu.Step()
	require.NotNil(t, cpu.LastDecodeErr)
	assert.Equal(t, byte(0x02), cpu.LastDecodeErr.Opcode)
	assert.Equal(t, uint16(0x8001), cpu.Pc)

	cpu.Step()
	assert.Equal(t, uint16(0x8002), cpu.Pc)
}

// TestCpuIrqVectorsAndChargesSevenCycles covers §4.1's interrupt handling:
// an asserted IRQ with I clear vectors through $FFFE and charges 7 cycles.
func TestCpuIrqVectorsAndChargesSevenCycles(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()
	cpu.setFlag(FlagI, false)

	bus.Ram[0xFFFE], bus.Ram[0xFFFF] = 0x00, 0x90
	bus.Ram[0x8000] = 0xEA // NOP, so Step() completes before the next
	// interrupt check happens at the *start* of the following Step().

	cpu.Step() // executes the NOP
	cpu.SetIRQ(IRQSourceVIC, true)

	before := cpu.CycleCount
	cpu.Step() // should vector instead of fetching at 0x8001
	after := cpu.CycleCount

	assert.Equal(t, uint16(0x9000), cpu.Pc)
	assert.True(t, cpu.flagSet(FlagI))
	assert.Equal(t, uint64(7), after-before)
}

// TestCpuIrqIgnoredWhenIFlagSet ensures a masked IRQ line does not vector.
func TestCpuIrqIgnoredWhenIFlagSet(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()
	cpu.setFlag(FlagI, true)

	bus.Ram[0x8000] = 0xEA
	cpu.SetIRQ(IRQSourceVIC, true)

	cpu.Step()

	assert.Equal(t, uint16(0x8001), cpu.Pc)
}

// TestCpuNmiIsEdgeTriggered: NMI only fires on the asserted-set's
// empty-to-non-empty transition (§4.1 "edge-sensitive, remembered by
// last_nmi_state"), and does not re-fire while the source stays asserted.
func TestCpuNmiIsEdgeTriggered(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()
	bus.Ram[0xFFFA], bus.Ram[0xFFFB] = 0x00, 0x95
	bus.Ram[0x8000] = 0xEA
	bus.Ram[0x8001] = 0xEA
	bus.Ram[0x9500] = 0xEA

	cpu.Step() // consumes the post-reset 7-cycle charge; no interrupt check yet
	cpu.SetNMI(NMISourceRestore, true)
	cpu.Step() // Cycles==0 now, so this step's interrupt check vectors

	assert.Equal(t, uint16(0x9500), cpu.Pc)

	// NMI source is still asserted, but it shouldn't fire again: the CPU
	// continues executing straight-line code at the handler.
	before := cpu.CycleCount
	cpu.Step()
	after := cpu.CycleCount
	assert.Equal(t, uint64(2), after-before) // just the NOP, no 7-cycle vector
}

func TestCpuUndocumentedLaxLoadsBothAAndX(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0xA7 // LAX zp
	bus.Ram[0x8001] = 0x10
	bus.Ram[0x0010] = 0x77

	cpu.Step()

	assert.Equal(t, byte(0x77), cpu.A)
	assert.Equal(t, byte(0x77), cpu.X)
}

func TestCpuStackPushPopRoundTrips(t *testing.T) {
	cpu, _ := newTestCpu()
	cpu.Sp = 0xFD
	cpu.stackPush(0xAB)
	cpu.stackPush(0xCD)
	assert.Equal(t, byte(0xCD), cpu.stackPop())
	assert.Equal(t, byte(0xAB), cpu.stackPop())
}

func TestCpuIndirectJmpPageBoundaryBug(t *testing.T) {
	cpu, bus := newTestCpu()
	bus.Ram[0xFFFC], bus.Ram[0xFFFD] = 0x00, 0x80
	cpu.Reset()

	bus.Ram[0x8000] = 0x6C // JMP (ind)
	bus.Ram[0x8001] = 0xFF
	bus.Ram[0x8002] = 0x02 // pointer = 0x02FF
	bus.Ram[0x02FF] = 0x34
	bus.Ram[0x0200] = 0x12 // the NMOS bug reads the high byte from 0x0200, not 0x0300
	bus.Ram[0x0300] = 0x99

	cpu.Step()

	assert.Equal(t, uint16(0x1234), cpu.Pc)
}
