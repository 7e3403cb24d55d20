package c64

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSidVoiceFrequencyWriteReadBack(t *testing.T) {
	s := NewSid(44100)
	s.Write(0x00, 0x34) // voice 0 freq lo
	s.Write(0x01, 0x12) // voice 0 freq hi

	assert.Equal(t, uint16(0x1234), s.voices[0].freq)
}

// TestSidGateOnStartsAttackPhase covers §4.6's ADSR phase machine: setting
// the gate bit moves the voice into the attack phase.
func TestSidGateOnStartsAttackPhase(t *testing.T) {
	s := NewSid(44100)
	s.voices[0].envPhase = envFinished

	s.Write(0x04, sidCtrlGate|sidCtrlTriangle) // voice 0 control register

	assert.Equal(t, envAttack, s.voices[0].envPhase)
}

// TestSidGateOffStartsReleasePhase covers the gate-clear transition.
func TestSidGateOffStartsReleasePhase(t *testing.T) {
	s := NewSid(44100)
	s.Write(0x04, sidCtrlGate|sidCtrlTriangle)
	s.voices[0].envPhase = envSustain

	s.Write(0x04, sidCtrlTriangle) // gate bit cleared

	assert.Equal(t, envRelease, s.voices[0].envPhase)
}

func TestSidVoiceWiringForSyncAndRing(t *testing.T) {
	s := NewSid(44100)
	assert.Same(t, &s.voices[2], s.voices[0].syncSource)
	assert.Same(t, &s.voices[0], s.voices[1].syncSource)
	assert.Same(t, &s.voices[1], s.voices[2].syncSource)
}

// TestSidGenerateSampleInvokesObserver covers the SID's observer hook
// (§6.2).
func TestSidGenerateSampleInvokesObserver(t *testing.T) {
	s := NewSid(44100)
	s.masterVolume = 0x0F
	s.voices[0].ctrl = sidCtrlSawtooth
	s.voices[0].envValue = 0xFF
	s.voices[0].freq = 0x1000

	var got []int16
	s.OnSample = func(sample int16) { got = append(got, sample) }

	s.Update(uint64(sidClockPal / s.sampleRate))

	assert.Len(t, got, 1)
}

func TestSidEnvelopeFinishedHoldsAtZero(t *testing.T) {
	s := NewSid(44100)
	v := &s.voices[0]
	v.envPhase = envFinished
	v.envValue = 0

	s.stepEnvelope(v)

	assert.Equal(t, envFinished, v.envPhase)
	assert.Equal(t, byte(0), v.envValue)
}

func TestSidReadEnvelope3OutputAndRandomRegister(t *testing.T) {
	s := NewSid(44100)
	s.voices[2].envValue = 0x7A
	assert.Equal(t, byte(0x7A), s.Read(0x1C))

	s.voices[2].accumulator = 0x00ABCDEF
	assert.Equal(t, byte(0xAB), s.Read(0x1B))
}
