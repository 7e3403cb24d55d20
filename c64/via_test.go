package c64

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMixedInputOutputMasksByDdr(t *testing.T) {
	// bits 0-3 driven as outputs (ddr=1), reflect the output register;
	// bits 4-7 are inputs, reflect whatever is presented on the input reg.
	in := byte(0xF0)
	out := byte(0x0A)
	ddr := byte(0x0F)

	assert.Equal(t, byte(0xFA), readMixedInputOutput(in, out, ddr))
}

func TestViaTimer1OneShotUnderflowsAndStops(t *testing.T) {
	v := NewVia6522(nil)
	v.Write(viaACR, 0x00) // bit 6 clear -> one-shot
	v.Write(viaT1CL, 0x02)
	v.Write(viaT1CH, 0x00) // latch=2, also loads the counter and starts it

	v.Update(1)
	v.Update(2)
	v.Update(3) // counter: 2 -> 1 -> 0 (underflow fires, one-shot stops)

	assert.NotZero(t, v.ifr&ifrT1)
	assert.False(t, v.timerA.running)
}

// TestViaIfrReadClearsMatchingBitsAndReportsAggregate covers the IFR's
// clear-on-read-of-related-register behavior and the bit-7 aggregate.
func TestViaIfrReadClearsMatchingBitsAndReportsAggregate(t *testing.T) {
	v := NewVia6522(nil)
	v.Write(viaIER, 0x80|ifrT1) // unmask timer 1
	v.ifr |= ifrT1

	val := v.Read(viaIFR)
	assert.Equal(t, byte(ifrT1|ifrIRQ), val)
}

// TestBusControllerViaReflectsIecLinesOnPrb covers §4.5's bus-controller
// VIA: reading PRB reflects the bus-wide OR of CLK/DATA/ATN, independent
// of what this VIA itself last drove.
func TestBusControllerViaReflectsIecLinesOnPrb(t *testing.T) {
	iec := NewIecBus()
	variant := newBusControllerVia(iec, 1)
	v := NewVia6522(variant)
	v.Write(viaDDRB, 0x00) // PRB all inputs, so readPRB's bus bits pass through

	iec.Set(iecControllerID, LineClk, true)
	iec.Set(iecControllerID, LineData, false)
	iec.Set(iecControllerID, LineAtn, false)

	result := v.Read(viaORB)
	assert.NotZero(t, result&iecPinClk)
	assert.Zero(t, result&iecPinData)
	assert.NotZero(t, result&iecPinAtn) // ATN sense bit is active-low on the wire
}

func TestBusControllerViaWritePrbDrivesIecLines(t *testing.T) {
	iec := NewIecBus()
	variant := newBusControllerVia(iec, 2)
	v := NewVia6522(variant)
	v.Write(viaDDRB, iecPinData|iecPinClk) // drive both as outputs

	v.Write(viaORB, iecPinData)

	assert.True(t, iec.Own(2, LineData))
	assert.False(t, iec.Own(2, LineClk))
}
