package c64

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Snapshot serialization (§4.8, §6.5): a big-endian, marker-delimited
// stream. Grounded on the teacher's cartridge.go, which parses the iNES
// header with encoding/binary.Read against a bytes.Buffer; the same
// idiom is used here in both directions.
const snapshotMarker uint32 = 0xC64B1AAD

// WriteSnapshot serializes the system in the stable order required by
// §4.8: CIAs, marker, keyboard, marker, joysticks, marker, IEC bus,
// marker, SID, marker, VIC, marker, CPU, marker, drives, marker.
func (s *System) WriteSnapshot(w io.Writer) error {
	steps := []func(io.Writer) error{
		s.writeCias,
		writeMarker,
		s.writeKeyboard,
		writeMarker,
		s.writeJoysticks,
		writeMarker,
		s.writeIec,
		writeMarker,
		s.writeSid,
		writeMarker,
		s.writeVic,
		writeMarker,
		s.writeCpu,
		writeMarker,
		s.writeDrives,
		writeMarker,
	}
	for _, step := range steps {
		if err := step(w); err != nil {
			return newSerializationError(err.Error())
		}
	}
	return nil
}

func writeMarker(w io.Writer) error { return binary.Write(w, binary.BigEndian, snapshotMarker) }

func readAndCheckMarker(r io.Reader) error {
	var m uint32
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return err
	}
	if m != snapshotMarker {
		return newBusConsistencyError("snapshot marker mismatch")
	}
	return nil
}

func (s *System) writeCias(w io.Writer) error {
	for _, c := range []*Cia{s.Cia1, s.Cia2} {
		fields := []interface{}{
			c.pra, c.prb, c.ddra, c.ddrb,
			c.timerA.counter, c.timerA.latch, c.timerA.control,
			c.timerB.counter, c.timerB.latch, c.timerB.control,
			c.todTenths, c.todSec, c.todMin, c.todHour,
			c.todAlarmTenths, c.todAlarmSec, c.todAlarmMin, c.todAlarmHour,
			c.icr, c.icrMask,
		}
		for _, f := range fields {
			if err := binary.Write(w, binary.BigEndian, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *System) writeKeyboard(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, s.Keyboard.rows); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, s.Keyboard.cols)
}

func (s *System) writeJoysticks(w io.Writer) error {
	for _, j := range []Joystick{s.Keyboard.Joystick1, s.Keyboard.Joystick2} {
		var b byte
		setBit(&b, 0, j.Up)
		setBit(&b, 1, j.Down)
		setBit(&b, 2, j.Left)
		setBit(&b, 3, j.Right)
		setBit(&b, 4, j.Fire)
		if err := binary.Write(w, binary.BigEndian, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) writeIec(w io.Writer) error {
	for _, arr := range [][iecMaxContributors]bool{s.Iec.atn, s.Iec.clk, s.Iec.data} {
		var packed uint16
		for i, v := range arr {
			if v {
				packed |= 1 << uint(i)
			}
		}
		if err := binary.Write(w, binary.BigEndian, packed); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) writeSid(w io.Writer) error {
	for i := range s.Sid.voices {
		v := &s.Sid.voices[i]
		fields := []interface{}{
			v.freq, v.pulseWidth, v.ctrl, v.attackDecay, v.sustainRelease,
			v.accumulator, v.envValue, byte(v.envPhase),
		}
		for _, f := range fields {
			if err := binary.Write(w, binary.BigEndian, f); err != nil {
				return err
			}
		}
	}
	return binary.Write(w, binary.BigEndian, [2]byte{s.Sid.filterEnable, s.Sid.masterVolume})
}

func (s *System) writeVic(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, s.Vic.regs); err != nil {
		return err
	}
	fields := []interface{}{
		s.Vic.rasterY, int32(s.Vic.cycleInLine), s.Vic.videoCounterBase,
		s.Vic.videoCounter, s.Vic.rowCounter, s.Vic.irqLatch, s.Vic.irqEnable,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) writeCpu(w io.Writer) error {
	c := s.Cpu
	fields := []interface{}{c.Pc, c.Sp, c.A, c.X, c.Y, c.Status, c.CycleCount}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.BigEndian, [2]byte{c.irq.asserted, c.nmi.asserted})
}

func (s *System) writeDrives(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, int32(0)) // no drives attached in this stream
}

// ReadSnapshot restores a system from a stream written by WriteSnapshot,
// checking every marker; a mismatch returns a BusConsistencyError, and the
// sections read before the mismatch have already been applied.
func (s *System) ReadSnapshot(r io.Reader) error {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return newSerializationError(err.Error())
	}
	br := bytes.NewReader(buf.Bytes())

	steps := []func(io.Reader) error{
		s.readCias,
		readAndCheckMarker,
		s.readKeyboard,
		readAndCheckMarker,
		s.readJoysticks,
		readAndCheckMarker,
		s.readIec,
		readAndCheckMarker,
		s.readSid,
		readAndCheckMarker,
		s.readVic,
		readAndCheckMarker,
		s.readCpu,
		readAndCheckMarker,
		s.readDrives,
		readAndCheckMarker,
	}
	for _, step := range steps {
		if err := step(br); err != nil {
			if _, ok := err.(*BusConsistencyError); ok {
				return err
			}
			return newSerializationError(err.Error())
		}
	}
	return nil
}

func (s *System) readCias(r io.Reader) error {
	for _, c := range []*Cia{s.Cia1, s.Cia2} {
		fields := []interface{}{
			&c.pra, &c.prb, &c.ddra, &c.ddrb,
			&c.timerA.counter, &c.timerA.latch, &c.timerA.control,
			&c.timerB.counter, &c.timerB.latch, &c.timerB.control,
			&c.todTenths, &c.todSec, &c.todMin, &c.todHour,
			&c.todAlarmTenths, &c.todAlarmSec, &c.todAlarmMin, &c.todAlarmHour,
			&c.icr, &c.icrMask,
		}
		for _, f := range fields {
			if err := binary.Read(r, binary.BigEndian, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *System) readKeyboard(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, &s.Keyboard.rows); err != nil {
		return err
	}
	return binary.Read(r, binary.BigEndian, &s.Keyboard.cols)
}

func (s *System) readJoysticks(r io.Reader) error {
	joys := []*Joystick{&s.Keyboard.Joystick1, &s.Keyboard.Joystick2}
	for _, j := range joys {
		var b byte
		if err := binary.Read(r, binary.BigEndian, &b); err != nil {
			return err
		}
		j.Up = bitSet(b, 0)
		j.Down = bitSet(b, 1)
		j.Left = bitSet(b, 2)
		j.Right = bitSet(b, 3)
		j.Fire = bitSet(b, 4)
	}
	return nil
}

func (s *System) readIec(r io.Reader) error {
	arrs := []*[iecMaxContributors]bool{&s.Iec.atn, &s.Iec.clk, &s.Iec.data}
	for _, arr := range arrs {
		var packed uint16
		if err := binary.Read(r, binary.BigEndian, &packed); err != nil {
			return err
		}
		for i := range arr {
			arr[i] = packed&(1<<uint(i)) != 0
		}
	}
	return nil
}

func (s *System) readSid(r io.Reader) error {
	for i := range s.Sid.voices {
		v := &s.Sid.voices[i]
		var phase byte
		fields := []interface{}{
			&v.freq, &v.pulseWidth, &v.ctrl, &v.attackDecay, &v.sustainRelease,
			&v.accumulator, &v.envValue, &phase,
		}
		for _, f := range fields {
			if err := binary.Read(r, binary.BigEndian, f); err != nil {
				return err
			}
		}
		v.envPhase = sidEnvPhase(phase)
	}
	var rest [2]byte
	if err := binary.Read(r, binary.BigEndian, &rest); err != nil {
		return err
	}
	s.Sid.filterEnable, s.Sid.masterVolume = rest[0], rest[1]
	return nil
}

func (s *System) readVic(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, &s.Vic.regs); err != nil {
		return err
	}
	var cycleInLine int32
	fields := []interface{}{
		&s.Vic.rasterY, &cycleInLine, &s.Vic.videoCounterBase,
		&s.Vic.videoCounter, &s.Vic.rowCounter, &s.Vic.irqLatch, &s.Vic.irqEnable,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	s.Vic.cycleInLine = int(cycleInLine)
	return nil
}

func (s *System) readCpu(r io.Reader) error {
	c := s.Cpu
	fields := []interface{}{&c.Pc, &c.Sp, &c.A, &c.X, &c.Y, &c.Status, &c.CycleCount}
	for _, f := range fields {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	var lines [2]byte
	if err := binary.Read(r, binary.BigEndian, &lines); err != nil {
		return err
	}
	c.irq.asserted, c.nmi.asserted = InterruptSource(lines[0]), InterruptSource(lines[1])
	return nil
}

func (s *System) readDrives(r io.Reader) error {
	var count int32
	return binary.Read(r, binary.BigEndian, &count)
}
