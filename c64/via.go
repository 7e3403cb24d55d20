package c64

// Via6522 is the generic drive-side VIA (§4.5), grounded directly on the
// retrieved other_examples/.../via6522.go reference: the same
// ora/orb/ira/irb/ddra/ddrb/pcr register set, the same
// readMixedInputOutput masking idiom for port reads, and the same
// RS-address register switch. Two PRB specializations are layered on top
// via the prbVariant interface rather than subclassing, matching design
// note §9's preference for small typed behavior slots over inheritance.
type Via6522 struct {
	ora, orb, ira, irb, ddra, ddrb byte
	acr, pcr                       byte
	ifr, ier                       byte

	timerA, timerB viaTimer

	variant prbVariant

	cycleCount uint64
	nextUpdate uint64
}

type viaTimer struct {
	counter uint16
	latch   uint16
	running bool
	oneShot bool
}

// prbVariant customizes PRB read/write behavior for the bus-controller
// and disk-controller VIAs (§4.5).
type prbVariant interface {
	readPRB(v *Via6522) byte
	writePRB(v *Via6522, data byte)
	writeDDRB(v *Via6522, data byte)
	tick(v *Via6522)
}

func NewVia6522(variant prbVariant) *Via6522 {
	return &Via6522{variant: variant}
}

const (
	viaORB  = 0x00
	viaORA  = 0x01
	viaDDRB = 0x02
	viaDDRA = 0x03
	viaT1CL = 0x04
	viaT1CH = 0x05
	viaT1LL = 0x06
	viaT1LH = 0x07
	viaT2CL = 0x08
	viaT2CH = 0x09
	viaSR   = 0x0A
	viaACR  = 0x0B
	viaPCR  = 0x0C
	viaIFR  = 0x0D
	viaIER  = 0x0E
	viaORANoHs = 0x0F
)

// readMixedInputOutput matches the retrieved Via6522's helper exactly:
// bits driven by the DDR read back the output register; bits not driven
// read back whatever was presented on the input register.
func readMixedInputOutput(in, out, ddr byte) byte {
	return (out & ddr) | (in &^ ddr)
}

const (
	ifrCA2 = 0x01
	ifrCA1 = 0x02
	ifrSR  = 0x04
	ifrCB2 = 0x08
	ifrCB1 = 0x10
	ifrT2  = 0x20
	ifrT1  = 0x40
	ifrIRQ = 0x80
)

func (v *Via6522) Read(reg uint16) byte {
	switch reg & 0x0F {
	case viaORB:
		v.ifr &^= ifrCB1 | ifrCB2
		if v.variant != nil {
			return v.variant.readPRB(v)
		}
		return readMixedInputOutput(v.irb, v.orb, v.ddrb)
	case viaORA, viaORANoHs:
		v.ifr &^= ifrCA1 | ifrCA2
		return readMixedInputOutput(v.ira, v.ora, v.ddra)
	case viaDDRB:
		return v.ddrb
	case viaDDRA:
		return v.ddra
	case viaT1CL:
		v.ifr &^= ifrT1
		return byte(v.timerA.counter)
	case viaT1CH:
		return byte(v.timerA.counter >> 8)
	case viaT1LL:
		return byte(v.timerA.latch)
	case viaT1LH:
		return byte(v.timerA.latch >> 8)
	case viaT2CL:
		v.ifr &^= ifrT2
		return byte(v.timerB.counter)
	case viaT2CH:
		return byte(v.timerB.counter >> 8)
	case viaSR:
		return 0
	case viaACR:
		return v.acr
	case viaPCR:
		return v.pcr
	case viaIFR:
		agg := byte(0)
		if v.ifr&v.ier != 0 {
			agg = ifrIRQ
		}
		return v.ifr | agg
	case viaIER:
		return v.ier | 0x80
	}
	return 0
}

func (v *Via6522) Write(reg uint16, data byte) {
	switch reg & 0x0F {
	case viaORB:
		v.orb = data
		if v.variant != nil {
			v.variant.writePRB(v, data)
		}
	case viaORA, viaORANoHs:
		v.ora = data
	case viaDDRB:
		v.ddrb = data
		if v.variant != nil {
			v.variant.writeDDRB(v, data)
		}
	case viaDDRA:
		v.ddra = data
	case viaT1CL:
		v.timerA.latch = v.timerA.latch&0xFF00 | uint16(data)
	case viaT1CH:
		v.timerA.latch = v.timerA.latch&0x00FF | uint16(data)<<8
		v.timerA.counter = v.timerA.latch
		v.timerA.running = true
		v.ifr &^= ifrT1
	case viaT1LL:
		v.timerA.latch = v.timerA.latch&0xFF00 | uint16(data)
	case viaT1LH:
		v.timerA.latch = v.timerA.latch&0x00FF | uint16(data)<<8
	case viaT2CL:
		v.timerB.latch = v.timerB.latch&0xFF00 | uint16(data)
	case viaT2CH:
		v.timerB.counter = uint16(data)<<8 | v.timerB.latch&0x00FF
		v.timerB.running = true
		v.ifr &^= ifrT2
	case viaSR:
		// shift register not separately modeled
	case viaACR:
		v.acr = data
		v.timerA.oneShot = data&0x40 == 0
	case viaPCR:
		v.pcr = data
	case viaIFR:
		v.ifr &^= data & 0x7F
	case viaIER:
		if data&0x80 != 0 {
			v.ier |= data & 0x7F
		} else {
			v.ier &^= data & 0x7F
		}
	}
}

// control1Mode/control2Mode extract the PCR's CA1/CA2 (or CB1/CB2) edge
// mode, named exactly as in the retrieved reference.
func control1Mode(pcr byte, portB bool) byte {
	if portB {
		return (pcr >> 4) & 0x01
	}
	return pcr & 0x01
}

func control2Mode(pcr byte, portB bool) byte {
	if portB {
		return (pcr >> 5) & 0x07
	}
	return (pcr >> 1) & 0x07
}

func (v *Via6522) NextUpdate() uint64 { return v.cycleCount + 1 }

func (v *Via6522) Update(currentCycle uint64) {
	for v.cycleCount < currentCycle {
		v.tick()
		v.cycleCount++
	}
}

func (v *Via6522) tick() {
	if v.timerA.running {
		if v.timerA.counter == 0 {
			v.ifr |= ifrT1
			if v.timerA.oneShot {
				v.timerA.running = false
			}
			v.timerA.counter = v.timerA.latch
		} else {
			v.timerA.counter--
		}
	}
	if v.timerB.running {
		if v.timerB.counter == 0 {
			v.ifr |= ifrT2
			v.timerB.running = false
		} else {
			v.timerB.counter--
		}
	}
	if v.variant != nil {
		v.variant.tick(v)
	}
}

func (v *Via6522) Reset() {
	variant := v.variant
	*v = *NewVia6522(variant)
}

////////////////////////////////////////////////////////////////
// busControllerVia: reflects IEC bus lines on PRB, drives CLK/DATA out
// (§4.5).

type busControllerVia struct {
	iec      *IecBus
	deviceID int
}

func newBusControllerVia(iec *IecBus, deviceID int) *busControllerVia {
	return &busControllerVia{iec: iec, deviceID: deviceID}
}

const (
	iecPinData = 0x01
	iecPinClk  = 0x02
	iecPinAtn  = 0x80 // read-only ATN sense bit on the bus-controller VIA's PRB
)

func (c *busControllerVia) readPRB(v *Via6522) byte {
	var b byte
	if c.iec.Get(LineData) {
		b |= iecPinData
	}
	if c.iec.Get(LineClk) {
		b |= iecPinClk
	}
	if !c.iec.Get(LineAtn) {
		b |= iecPinAtn
	}
	return readMixedInputOutput(b, v.orb, v.ddrb)
}

func (c *busControllerVia) writePRB(v *Via6522, data byte) {
	c.iec.Set(c.deviceID, LineData, data&iecPinData != 0 && v.ddrb&iecPinData != 0)
	c.iec.Set(c.deviceID, LineClk, data&iecPinClk != 0 && v.ddrb&iecPinClk != 0)
}

func (c *busControllerVia) writeDDRB(v *Via6522, data byte) {
	c.iec.Set(c.deviceID, LineData, v.orb&iecPinData != 0 && data&iecPinData != 0)
	c.iec.Set(c.deviceID, LineClk, v.orb&iecPinClk != 0 && data&iecPinClk != 0)
}

func (c *busControllerVia) tick(v *Via6522) {
	if c.iec.Get(LineAtn) {
		v.ifr |= ifrCA1
	}
}

////////////////////////////////////////////////////////////////
// diskControllerVia: stepper motor + GCR byte-ready scheduling (§4.5).

type diskControllerVia struct {
	drive *driveMechanics

	lastStepperBits byte
}

func newDiskControllerVia(drive *driveMechanics) *diskControllerVia {
	return &diskControllerVia{drive: drive}
}

const (
	dcBitStepper0  = 0x01
	dcBitStepper1  = 0x02
	dcBitMotor     = 0x04
	dcBitLed       = 0x08
	dcBitWriteProt = 0x10
	dcBitSync      = 0x80
)

func (d *diskControllerVia) readPRB(v *Via6522) byte {
	in := byte(0)
	if !d.drive.motorOn {
		// motor off: report whatever the last driven bits were
		in = v.orb & (dcBitStepper0 | dcBitStepper1 | dcBitMotor)
	} else {
		in = v.orb & (dcBitStepper0 | dcBitStepper1 | dcBitMotor)
	}
	if d.drive.writeProtect {
		in |= dcBitWriteProt
	}
	if d.drive.headOverSync() {
		in |= dcBitSync
	}
	return readMixedInputOutput(in, v.orb, v.ddrb)
}

func (d *diskControllerVia) writePRB(v *Via6522, data byte) {
	stepBits := data & (dcBitStepper0 | dcBitStepper1)
	if stepBits != d.lastStepperBits {
		d.drive.stepHalfTrack(int(stepBits) - int(d.lastStepperBits))
		d.lastStepperBits = stepBits
	}
	d.drive.motorOn = data&dcBitMotor != 0
	d.drive.ledOn = data&dcBitLed != 0
}

func (d *diskControllerVia) writeDDRB(v *Via6522, data byte) {}

// tick drives the byte-ready scheduling at ~30 CPU cycles/byte (§4.5).
func (d *diskControllerVia) tick(v *Via6522) {
	if !d.drive.motorOn {
		return
	}
	d.drive.rotationAcc++
	if d.drive.rotationAcc < driveIntervalMoveToNextByte {
		return
	}
	d.drive.rotationAcc = 0

	if v.ddra == 0xFF {
		if v.ora != d.drive.currentGcrByte() {
			d.drive.writeGcrByte(v.ora)
		}
	} else {
		v.ira = d.drive.currentGcrByte()
	}
	d.drive.advanceGcrPointer()

	if !d.drive.headOverSync() {
		v.ifr |= ifrCA1 // byte-ready signaled via CA1 transition
	}
}

const driveIntervalMoveToNextByte = 30
