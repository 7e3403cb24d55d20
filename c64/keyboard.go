package c64

// Keyboard models the 8x8 row/column key matrix read through CIA1's two
// data ports (§3, §4.4): writing a row-select pattern to one port and
// reading the other returns the ANDed column/row state. Two parallel bit
// matrices are kept so the invariant `row[r].bit(c) == col[c].bit(r)`
// holds for every press/release, as required by §8.
type Keyboard struct {
	rows [8]byte // rows[r] bit c == key(r,c) pressed
	cols [8]byte // cols[c] bit r == key(r,c) pressed

	Joystick1 Joystick
	Joystick2 Joystick
}

func NewKeyboard() *Keyboard { return &Keyboard{} }

// Press/Release set or clear key (row, col) in both matrices together,
// keeping them in lockstep.
func (k *Keyboard) Press(row, col uint) {
	setBit(&k.rows[row], col, true)
	setBit(&k.cols[col], row, true)
}

func (k *Keyboard) Release(row, col uint) {
	setBit(&k.rows[row], col, false)
	setBit(&k.cols[col], row, false)
}

// ReadPRA returns, for each row, 0 where any selected column has a
// pressed key in that row, with the other bits pulled high — i.e. reading
// port A with port B driving the column select. A column is selected when
// its prb bit is an output (ddrb bit set) driven low.
func (k *Keyboard) ReadPRA(prb, ddrb byte) byte {
	colSelect := ^prb & ddrb
	var result byte = 0xFF
	for c := uint(0); c < 8; c++ {
		if colSelect&(1<<c) == 0 {
			continue
		}
		result &^= k.cols[c]
	}
	return result
}

// ReadPRB is the mirror: port B reads rows selected via port A (an output
// bit driven low).
func (k *Keyboard) ReadPRB(pra, ddra byte) byte {
	rowSelect := ^pra & ddra
	var result byte = 0xFF
	for r := uint(0); r < 8; r++ {
		if rowSelect&(1<<r) == 0 {
			continue
		}
		result &^= k.rows[r]
	}
	return result
}

// Joystick models a digital joystick port presented as 5 active-low bits
// (up, down, left, right, fire) ORed onto a CIA data port in the real
// hardware; here kept as an abstract button state plus the preserved
// source quirk noted in §9's Open Questions.
type Joystick struct {
	Up, Down, Left, Right, Fire bool

	// width/height describe the virtual joystick's on-screen touch/drag
	// region, used only by getValue below.
	Width, Height int
}

// getValue preserves, verbatim, the source's AbstractVirtualJoystick
// quirk flagged in §9: the vertical-threshold check divides the WIDTH
// rather than the HEIGHT by 3. Do not "fix" this without test evidence
// that the original behavior was unintended in practice.
func (j *Joystick) getValue(x, y int) byte {
	var v byte
	if x < j.Width/3 {
		v |= 0x04 // left
	} else if x > j.Width*2/3 {
		v |= 0x08 // right
	}
	if y < j.Height/3 {
		v |= 0x01 // up
	} else if y > j.Width*2/3 { // preserved bug: should likely be j.Height
		v |= 0x02 // down
	}
	return v
}
