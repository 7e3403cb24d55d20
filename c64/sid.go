package c64

// Sid emulates the MOS 6581/8580 sound chip (§4.6): three voices, each
// with an accumulator-driven oscillator, an ADSR envelope phase machine,
// and a final mixer. Register layout and the SID_CLOCK/waveform-bit
// constants are grounded on the retrieved sid_constants.go reference
// file; the envelope/oscillator state machine has no direct teacher
// analogue and is built from the spec's formulas directly. Waveforms are
// computed from the accumulator on every sample; there is no precomputed
// waveform table.
type Sid struct {
	bus *Bus

	voices      [3]sidVoice
	lastWritten byte

	sampleRate int
	sampleAcc  int // fractional-cycle accumulator driving sample generation

	filterEnable byte // bits 0-2: voice 0/1/2 routed through "filter" (passthrough only, per Non-goals)
	masterVolume byte

	cycleCount uint64

	OnSample func(sample int16)
}

const (
	sidClockPal  = 985248
	sidClockNtsc = 1022727
)

type sidEnvPhase int

const (
	envAttack sidEnvPhase = iota
	envDecay
	envSustain
	envRelease
	envFinished
)

type sidVoice struct {
	freq       uint16
	pulseWidth uint16
	ctrl       byte // GATE/SYNC/RING/TEST/waveform bits

	attackDecay  byte
	sustainRelease byte

	accumulator uint32
	noiseShift  uint32

	envPhase   sidEnvPhase
	envValue   byte
	gatedLast  bool

	syncSource *sidVoice
}

// Waveform control bits (§4.6), grounded on the retrieved sid_constants.go.
const (
	sidCtrlGate     = 0x01
	sidCtrlSync     = 0x02
	sidCtrlRingMod  = 0x04
	sidCtrlTest     = 0x08
	sidCtrlTriangle = 0x10
	sidCtrlSawtooth = 0x20
	sidCtrlPulse    = 0x40
	sidCtrlNoise    = 0x80
)

func NewSid(sampleRate int) *Sid {
	s := &Sid{sampleRate: sampleRate}
	for i := range s.voices {
		s.voices[i].noiseShift = 0x7FFFF8
	}
	// Voice wiring per §4.6: voice0's sync-source = voice2, voice1's =
	// voice0, voice2's = voice1.
	s.voices[0].syncSource = &s.voices[2]
	s.voices[1].syncSource = &s.voices[0]
	s.voices[2].syncSource = &s.voices[1]
	return s
}

func (s *Sid) ConnectBus(b *Bus) { s.bus = b }

// VoiceState is a read-only snapshot of one voice, for host debug displays.
type VoiceState struct {
	Freq       uint16
	PulseWidth uint16
	Ctrl       byte
	EnvValue   byte
	EnvPhase   int
	Accumulator uint32
}

// VoiceState returns a snapshot of the given voice (0-2).
func (s *Sid) VoiceState(i int) VoiceState {
	v := &s.voices[i]
	return VoiceState{
		Freq: v.freq, PulseWidth: v.pulseWidth, Ctrl: v.ctrl,
		EnvValue: v.envValue, EnvPhase: int(v.envPhase), Accumulator: v.accumulator,
	}
}

func (s *Sid) Read(reg uint16) byte {
	switch reg {
	case 0x19, 0x1A: // PADDLE1/PADDLE2
		return 0
	case 0x1B: // RANDOM_GENERATOR
		return byte(s.voices[2].accumulator >> 16)
	case 0x1C: // ENVELOPE3_OUTPUT
		return s.voices[2].envValue
	default:
		return s.lastWritten
	}
}

func (s *Sid) Write(reg uint16, data byte) {
	s.lastWritten = data
	if reg >= 0x1D {
		return
	}
	voiceIdx := reg / 7
	if voiceIdx > 2 {
		switch reg {
		case 0x15, 0x16: // filter cutoff, not modeled (Non-goal)
		case 0x17:
			s.filterEnable = data & 0x07
		case 0x18:
			s.masterVolume = data & 0x0F
		}
		return
	}
	v := &s.voices[voiceIdx]
	switch reg % 7 {
	case 0:
		v.freq = v.freq&0xFF00 | uint16(data)
	case 1:
		v.freq = v.freq&0x00FF | uint16(data)<<8
	case 2:
		v.pulseWidth = v.pulseWidth&0x0F00 | uint16(data)
	case 3:
		v.pulseWidth = v.pulseWidth&0x00FF | uint16(data&0x0F)<<8
	case 4:
		gate := data&sidCtrlGate != 0
		if gate && !v.gatedLast {
			v.envPhase = envAttack
		} else if !gate && v.gatedLast {
			v.envPhase = envRelease
		}
		v.gatedLast = gate
		v.ctrl = data
	case 5:
		v.attackDecay = data
	case 6:
		if data>>4 <= v.envValue>>4 && v.envPhase == envSustain {
			v.envPhase = envRelease
		}
		v.sustainRelease = data
	}
}

// attackCycles/decayReleaseCycles approximate the chip's documented
// per-rate timing tables (§4.6) with a small monotonic table rather than
// the full 16-entry ms lookup, since the exact table is not part of the
// spec this core is grounded on.
var attackCycles = [16]int{2, 8, 16, 24, 38, 56, 68, 80, 100, 240, 500, 800, 1000, 3000, 5000, 8000}
var decayReleaseCycles = [16]int{6, 24, 48, 72, 114, 168, 204, 240, 300, 750, 1500, 2400, 3000, 9000, 15000, 24000}

func (s *Sid) NextUpdate() uint64 { return s.cycleCount + 1 }

func (s *Sid) Update(currentCycle uint64) {
	cyclesPerSample := sidClockPal / s.sampleRate
	for s.cycleCount < currentCycle {
		s.cycleCount++
		s.sampleAcc++
		if s.sampleAcc >= cyclesPerSample {
			s.sampleAcc -= cyclesPerSample
			s.generateSample()
		}
	}
}

func (s *Sid) generateSample() {
	for i := range s.voices {
		s.stepVoice(&s.voices[i])
	}

	var mix int32
	for i := range s.voices {
		mix += int32(s.voiceOutput(&s.voices[i]))
	}
	mix >>= 2
	mix = mix * int32(s.masterVolume) >> 3

	if mix > 0x1FFF {
		mix = 0x1FFF
	}
	if mix < -0x2000 {
		mix = -0x2000
	}

	if s.OnSample != nil {
		s.OnSample(int16(mix))
	}
}

func (s *Sid) stepVoice(v *sidVoice) {
	step := uint32(v.freq) * uint32(sidClockPal/s.sampleRate) / 16
	prevAcc := v.accumulator
	v.accumulator = (v.accumulator + step) & 0xFFFFFF

	wrapped := v.accumulator < prevAcc
	if wrapped {
		// advance a simplified Galois LFSR for the noise waveform
		bit := ((v.noiseShift >> 22) ^ (v.noiseShift >> 17)) & 1
		v.noiseShift = ((v.noiseShift << 1) | bit) & 0x7FFFFF
	}

	if v.ctrl&sidCtrlSync != 0 && v.syncSource != nil {
		// The source wrapped on its most recent step when its accumulator
		// is below that step's increment.
		srcStep := uint32(v.syncSource.freq) * uint32(sidClockPal/s.sampleRate) / 16
		if v.syncSource.accumulator < srcStep {
			v.accumulator = 0
		}
	}

	s.stepEnvelope(v)
}

func (s *Sid) stepEnvelope(v *sidVoice) {
	switch v.envPhase {
	case envAttack:
		rate := attackCycles[v.attackDecay>>4]
		inc := 255 * sidClockPal / (s.sampleRate * maxInt(rate, 1))
		if int(v.envValue)+inc >= 255 {
			v.envValue = 255
			v.envPhase = envDecay
		} else {
			v.envValue += byte(inc)
		}
	case envDecay:
		rate := decayReleaseCycles[v.attackDecay&0x0F]
		sustain := (v.sustainRelease >> 4) * 0x11
		factor := 256 * sidClockPal / (s.sampleRate * maxInt(rate, 1))
		dec := int(v.envValue) * factor >> 8
		if dec < 1 {
			dec = 1
		}
		if int(v.envValue)-dec <= int(sustain) {
			v.envValue = sustain
			v.envPhase = envSustain
		} else {
			v.envValue -= byte(dec)
		}
	case envSustain:
		// holds until gate changes or sustain register lowers below current
	case envRelease:
		rate := decayReleaseCycles[v.sustainRelease&0x0F]
		factor := 256 * sidClockPal / (s.sampleRate * maxInt(rate, 1))
		dec := int(v.envValue) * factor >> 8
		if dec < 1 {
			dec = 1
		}
		if int(v.envValue)-dec < 1 {
			v.envValue = 0
			v.envPhase = envFinished
		} else {
			v.envValue -= byte(dec)
		}
	case envFinished:
	}
}

// voiceOutput implements the oscillator waveform combinators (§4.6),
// including the "Combined" AND-with-neighbors approximation for
// multi-bit waveform selections, and ring modulation on the triangle.
func (s *Sid) voiceOutput(v *sidVoice) int32 {
	if v.ctrl&sidCtrlTest != 0 {
		return 0
	}

	osc := s.oscillate(v)
	return ((int32(osc) - 0x800) * int32(v.envValue)) >> 7
}

func (s *Sid) oscillate(v *sidVoice) uint16 {
	wave := v.ctrl & 0xF0

	triangle := func() uint16 {
		idx := v.accumulator >> 12
		if v.ctrl&sidCtrlRingMod != 0 && v.syncSource != nil {
			idx ^= v.syncSource.accumulator >> 12
		}
		if idx&0x800 != 0 {
			idx = ^idx & 0xFFF
		}
		return uint16(idx<<1) & 0xFFF
	}
	sawtooth := func() uint16 { return uint16(v.accumulator >> 12) }
	pulse := func() uint16 {
		if uint16(v.accumulator>>12) >= v.pulseWidth {
			return 0xFFF
		}
		return 0
	}
	noise := func() uint16 { return uint16(v.noiseShift & 0xFFF) }

	switch wave {
	case sidCtrlTriangle:
		return triangle()
	case sidCtrlSawtooth:
		return sawtooth()
	case sidCtrlPulse:
		return pulse()
	case sidCtrlNoise:
		return noise()
	case 0:
		return 0
	default:
		s1, s2 := uint16(0xFFF), uint16(0xFFF)
		if wave&sidCtrlTriangle != 0 {
			s1 = triangle()
		}
		if wave&sidCtrlSawtooth != 0 {
			s2 = sawtooth()
		}
		if wave&sidCtrlPulse != 0 {
			s1 &= pulse()
		}
		if wave&sidCtrlNoise != 0 {
			s2 &= noise()
		}
		return (s1 << 1) & (s1 >> 1) & (s2 << 1) & (s2 >> 1) & 0xFFF
	}
}

func (s *Sid) Reset() {
	bus, rate := s.bus, s.sampleRate
	onSample := s.OnSample
	*s = *NewSid(rate)
	s.bus = bus
	s.OnSample = onSample
}
