package c64

// Vic2 is the raster/cycle-based video pipeline (§4.3). It advances one
// cycle at a time, driven either by the bus's contention check
// (consumeVicStall) or by the system scheduler's periodic Update call,
// mirroring the teacher's ppu.go register-bank-plus-switch-statement
// shape but replacing the PPU's scanline model with the VIC's fixed
// 63-cycle micro-sequence.
type Vic2 struct {
	bus *Bus

	regs [64]byte

	rasterY     uint16
	cycleInLine int // 1..cyclesPerLine

	busAvailable bool
	stallCyclesLeft int

	videoCounterBase uint16
	videoCounter     uint16
	rowCounter       byte
	mainBorder       bool

	matrixLine [40]byte // latched character codes for the current row
	colorLine  [40]byte // latched color-RAM nibbles for the current row

	frame       [vicTotalWidth * vicTotalHeight]uint32
	frameSkipN  int
	frameSkipAt int

	paintCache [vicDisplayHeight][40]uint64

	sprites [8]vicSprite

	irqLatch  byte
	irqEnable byte

	lastBorderColor byte

	cycleCount uint64

	OnFrameReady         func(frame []uint32)
	OnBorderColorChanged func(rgb uint32)
}

const (
	cyclesPerLine    = 63
	linesPerFrame    = 312
	vicDisplayWidth  = 320
	vicDisplayHeight = 200
	vicBorderX       = 40
	vicBorderY       = 35
	vicTotalWidth    = vicDisplayWidth + 2*vicBorderX
	vicTotalHeight   = vicDisplayHeight + 2*vicBorderY
)

type vicSprite struct {
	pointer   byte
	data      [3]byte
	shiftReg  uint32
	mcShift   uint32
	painting  bool
	xCounter  int
}

func NewVic2() *Vic2 {
	v := &Vic2{
		busAvailable: true,
		cycleInLine:  1,
		frameSkipN:   1,
	}
	return v
}

func (v *Vic2) ConnectBus(b *Bus) { v.bus = b }

// RasterY reports the current raster line, for host status displays.
func (v *Vic2) RasterY() uint16 { return v.rasterY }

const (
	regCR1          = 0x11
	regRaster       = 0x12
	regSpriteEnable = 0x15
	regCR2          = 0x16
	regSpriteExpY   = 0x17
	regMemPtrs      = 0x18
	regIrqLatch     = 0x19
	regIrqEnable    = 0x1A
	regSpritePrio   = 0x1B
	regSpriteMC     = 0x1C
	regSpriteExpX   = 0x1D
	regCollSS       = 0x1E
	regCollSB       = 0x1F
	regBorderColor  = 0x20
	regBg0          = 0x21
)

func (v *Vic2) Read(reg uint16) byte {
	switch {
	case reg <= 0x0F:
		return v.regs[reg]
	case reg == 0x10:
		return v.spriteXMsb()
	case reg == regRaster:
		return byte(v.rasterY)
	case reg == regCR1:
		msb := byte(0)
		if v.rasterY&0x100 != 0 {
			msb = 0x80
		}
		return v.regs[regCR1]&0x7F | msb
	case reg == regCollSS:
		val := v.regs[regCollSS]
		v.regs[regCollSS] = 0
		return val
	case reg == regCollSB:
		val := v.regs[regCollSB]
		v.regs[regCollSB] = 0
		return val
	case reg == regIrqLatch:
		aggregate := byte(0)
		if v.irqLatch&v.irqEnable != 0 {
			aggregate = 0x80
		}
		return v.irqLatch&0x0F | aggregate | 0x70
	case reg == regIrqEnable:
		return v.irqEnable & 0x0F
	case reg > 0x2E:
		return 0xFF
	default:
		return v.regs[reg]
	}
}

func (v *Vic2) Write(reg uint16, data byte) {
	switch {
	case reg <= 0x0F:
		v.regs[reg] = data
	case reg == regRaster:
		v.regs[regRaster] = data
	case reg == regIrqLatch:
		v.irqLatch &^= data & 0x0F
	case reg == regIrqEnable:
		v.irqEnable = data & 0x0F
	case reg == regCollSS, reg == regCollSB:
		// read-only, writes ignored
	case reg == regBorderColor:
		v.regs[regBorderColor] = data & 0x0F
		if data&0x0F != v.lastBorderColor {
			v.lastBorderColor = data & 0x0F
			if v.OnBorderColorChanged != nil {
				v.OnBorderColorChanged(vicPalette[v.lastBorderColor])
			}
		}
	case reg > 0x2E:
		// unused
	default:
		v.regs[reg] = data
	}
}

func (v *Vic2) spriteY(i byte) byte { return v.regs[uint16(i)*2+1] }

func (v *Vic2) spriteXMsb() byte { return v.regs[0x10] }

func (v *Vic2) spriteX(i int) int {
	lo := int(v.regs[i*2])
	msb := v.regs[0x10]&(1<<uint(i)) != 0
	if msb {
		return lo + 256
	}
	return lo
}

func (v *Vic2) displayEnabled() bool { return v.regs[regCR1]&0x10 != 0 }
func (v *Vic2) ecm() bool            { return v.regs[regCR1]&0x40 != 0 }
func (v *Vic2) bmm() bool            { return v.regs[regCR1]&0x20 != 0 }
func (v *Vic2) mcm() bool            { return v.regs[regCR2]&0x10 != 0 }
func (v *Vic2) yscroll() byte        { return v.regs[regCR1] & 0x07 }
func (v *Vic2) xscroll() byte        { return v.regs[regCR2] & 0x07 }
func (v *Vic2) rsel() bool           { return v.regs[regCR1]&0x08 != 0 }
func (v *Vic2) csel() bool           { return v.regs[regCR2]&0x04 != 0 }

func (v *Vic2) videoMatrixBase() uint16 { return uint16(v.regs[regMemPtrs]>>4) * 0x0400 }
func (v *Vic2) charDataBase() uint16    { return uint16(v.regs[regMemPtrs]>>1&0x07) * 0x0800 }

func (v *Vic2) bgColor(i int) byte { return v.regs[regBg0+i] & 0x0F }

// isBadLine implements §4.3's "bad line" predicate exactly.
func (v *Vic2) isBadLine() bool {
	return v.displayEnabled() && v.rasterY >= 0x30 && v.rasterY <= 0xF7 && byte(v.rasterY&7) == v.yscroll()
}

func (v *Vic2) raiseIrq(bit byte) {
	wasZero := v.irqLatch&v.irqEnable == 0
	v.irqLatch |= bit
	if wasZero && v.irqLatch&v.irqEnable != 0 && v.bus != nil && v.bus.Cpu != nil {
		v.bus.Cpu.SetIRQ(IRQSourceVIC, true)
	}
}

// NextUpdate / Update satisfy IoChip so the scheduler can also drive the
// VIC forward directly (outside of CPU-triggered bus contention).
func (v *Vic2) NextUpdate() uint64 { return v.cycleCount + 1 }

func (v *Vic2) Update(currentCycle uint64) {
	for v.cycleCount < currentCycle {
		v.stepCycle()
		v.cycleCount++
	}
}

func (v *Vic2) Reset() {
	*v = *NewVic2()
}

// stepCycle executes one VIC cycle of the fixed per-line micro-sequence
// (§4.3). The pointer fetch of an enabled sprite 3..7 takes the bus away
// from the CPU, which gets it back at cycle 11.
func (v *Vic2) stepCycle() {
	c := v.cycleInLine

	switch {
	case c == 1 || c == 3 || c == 5 || c == 7 || c == 9:
		idx := (c-1)/2 + 3
		if v.spriteEnabled(idx) {
			v.busAvailable = false
			v.fetchSpritePointer(idx)
		}
	case c == 11:
		v.busAvailable = true
	case c == 12:
		if v.isBadLine() {
			v.busAvailable = false
			for col := 0; col < 40; col++ {
				addr := v.videoMatrixBase() + v.videoCounter + uint16(col)
				v.matrixLine[col] = v.bus.VicRead(addr)
				v.colorLine[col] = v.bus.ColorRam[v.videoCounter+uint16(col)] & 0x0F
			}
		}
	case c == 13:
		v.paintBorderColumnAt(0)
	case c == 14:
		v.videoCounter = v.videoCounterBase
		if v.isBadLine() {
			v.rowCounter = 0
		}
	case c >= 15 && c <= 54:
		col := c - 15
		v.paintCharacter(col)
		if c == 17 {
			v.updateMainBorder()
		}
	case c == 55:
		v.paintCharacter(39)
	case c == 56:
		v.busAvailable = true
	case c == 57:
		v.mainBorder = true
		v.paintBorderColumnAt(39)
		v.drawSprites()
	case c == 58:
		if v.rowCounter == 7 {
			v.videoCounterBase = v.videoCounter
		} else {
			v.rowCounter++
		}
		for i := range v.sprites {
			if v.spriteEnabled(i) && byte(v.spriteY(byte(i))) == byte(v.rasterY) {
				v.sprites[i].painting = true
				v.sprites[i].xCounter = 0
			}
		}
	case c == 60 || c == 62:
		idx := 1
		if c == 62 {
			idx = 2
		}
		if v.spriteEnabled(idx) {
			v.fetchSpritePointer(idx)
		}
	case c == 63:
		v.advanceLine()
	}

	v.cycleInLine++
	if v.cycleInLine > cyclesPerLine {
		v.cycleInLine = 1
	}
}

func (v *Vic2) spriteEnabled(i int) bool { return v.regs[regSpriteEnable]&(1<<uint(i)) != 0 }

func (v *Vic2) fetchSpritePointer(i int) {
	base := v.videoMatrixBase() + 0x03F8 + uint16(i)
	ptr := v.bus.VicRead(base)
	v.sprites[i].pointer = ptr
	for b := 0; b < 3; b++ {
		v.sprites[i].data[b] = v.bus.VicRead(uint16(ptr)*64 + uint16(b))
	}
}

func (v *Vic2) updateMainBorder() {
	top, bottom := 0x33, 0xFB
	if v.rsel() {
		top, bottom = 0x32, 0xFA
	}
	if int(v.rasterY) == top && v.displayEnabled() {
		v.mainBorder = false
	}
	if int(v.rasterY) == bottom {
		v.mainBorder = true
	}
}

func (v *Vic2) advanceLine() {
	v.rasterY++
	rasterCompare := uint16(v.regs[regRaster])
	if v.regs[regCR1]&0x80 != 0 {
		rasterCompare |= 0x100
	}
	if v.rasterY == rasterCompare {
		v.raiseIrq(0x01)
	}
	if v.rasterY >= linesPerFrame {
		v.rasterY = 0
		v.videoCounterBase = 0
		v.videoCounter = 0
		v.rowCounter = 0

		v.frameSkipAt++
		if v.frameSkipAt >= v.frameSkipN {
			v.frameSkipAt = 0
			if v.OnFrameReady != nil {
				v.OnFrameReady(v.frame[:])
			}
		}
		for col := range v.paintCache[0] {
			v.paintCache[0][col] = 0
		}
	}
}

// paintBorderColumnAt fills one 8-pixel-wide border strip at the given
// character column (the columns painted at cycles 13/57, outside the
// main 15-54 per-character loop).
func (v *Vic2) paintBorderColumnAt(col int) {
	frameY := int(v.rasterY) - 0x33 + vicBorderY
	if frameY < 0 || frameY >= vicTotalHeight || !v.mainBorder {
		return
	}
	v.drawBorderCell(frameY, col)
}

// paintCharacter paints the 8 pixels of character column `col` on the
// current raster line, using the graphics-mode rules of §4.3, then
// checks/updates the per-(row,col) cache (§4.3 "Caching").
func (v *Vic2) paintCharacter(col int) {
	frameY := int(v.rasterY) - 0x33 + vicBorderY
	if frameY < 0 || frameY >= vicTotalHeight {
		return
	}

	if v.mainBorder {
		v.drawBorderCell(frameY, col)
		return
	}

	matrixByte := v.matrixLine[col]
	colorNibble := v.colorLine[col]
	graphByte := v.fetchGraphicsByte(matrixByte)

	hash := v.cellHash(matrixByte, colorNibble, graphByte)
	if v.paintCache[clampInt(frameY-vicBorderY, 0, vicDisplayHeight-1)][col] == hash {
		return
	}
	v.paintCache[clampInt(frameY-vicBorderY, 0, vicDisplayHeight-1)][col] = hash

	pixels, _ := v.computeCellPixels(matrixByte, colorNibble, graphByte)
	baseX := vicBorderX + col*8
	for px := 0; px < 8; px++ {
		v.frame[frameY*vicTotalWidth+baseX+px] = vicPalette[pixels[px]&0x0F]
	}
}

func (v *Vic2) drawBorderCell(frameY, col int) {
	baseX := vicBorderX + col*8
	c := vicPalette[v.regs[regBorderColor]&0x0F]
	for px := 0; px < 8; px++ {
		v.frame[frameY*vicTotalWidth+baseX+px] = c
	}
}

func (v *Vic2) fetchGraphicsByte(matrixByte byte) byte {
	var addr uint16
	if v.bmm() {
		addr = (uint16(matrixByte) << 3) | uint16(v.rowCounter)
		addr += v.videoMatrixBase() & 0x2000 // bitmap follows the same bank selection
	} else {
		charCode := matrixByte
		if v.ecm() {
			charCode &= 0x3F
		}
		addr = v.charDataBase() + uint16(charCode)<<3 | uint16(v.rowCounter)
	}
	return v.bus.VicRead(addr)
}

func (v *Vic2) cellHash(matrixByte, colorNibble, graphByte byte) uint64 {
	mode := uint64(0)
	if v.ecm() {
		mode |= 1
	}
	if v.bmm() {
		mode |= 2
	}
	if v.mcm() {
		mode |= 4
	}
	h := mode
	h = h<<8 | uint64(v.bgColor(0))
	h = h<<8 | uint64(v.bgColor(1))
	h = h<<8 | uint64(v.bgColor(2))
	h = h<<8 | uint64(v.bgColor(3))
	h = h<<8 | uint64(v.xscroll())
	h = h<<8 | uint64(v.yscroll())
	h = h<<8 | uint64(graphByte)
	h = h<<8 | uint64(matrixByte)
	h = h<<8 | uint64(colorNibble)
	return h
}

// computeCellPixels implements the 8 graphics-mode combinations of
// §4.3, returning 8 color indices and an 8-bit foreground collision mask
// (bit set where the pixel counts as "foreground" for sprite-background
// collision purposes).
func (v *Vic2) computeCellPixels(matrixByte, colorNibble, graphByte byte) (pixels [8]byte, collideMask byte) {
	mode := 0
	if v.ecm() {
		mode |= 4
	}
	if v.bmm() {
		mode |= 2
	}
	if v.mcm() {
		mode |= 1
	}

	standardText := func() {
		for b := 0; b < 8; b++ {
			if bitSet(graphByte, uint(7-b)) {
				pixels[b] = colorNibble
				setBit(&collideMask, uint(7-b), true)
			} else {
				pixels[b] = v.bgColor(0)
			}
		}
	}

	switch mode {
	case 0: // standard text
		standardText()
	case 1: // multicolor text
		if !bitSet(colorNibble, 3) {
			standardText()
			return
		}
		for pair := 0; pair < 4; pair++ {
			bits := (graphByte >> uint((3-pair)*2)) & 0x03
			var color byte
			fg := false
			switch bits {
			case 0:
				color = v.bgColor(0)
			case 1:
				color = v.bgColor(1)
			case 2:
				color = v.bgColor(2)
			case 3:
				color = colorNibble & 0x07
				fg = true
			}
			pixels[pair*2] = color
			pixels[pair*2+1] = color
			if fg {
				setBit(&collideMask, uint(7-pair*2), true)
				setBit(&collideMask, uint(7-pair*2-1), true)
			}
		}
	case 2: // standard bitmap
		fg := matrixByte >> 4
		bg := matrixByte & 0x0F
		for b := 0; b < 8; b++ {
			if bitSet(graphByte, uint(7-b)) {
				pixels[b] = fg
				setBit(&collideMask, uint(7-b), true)
			} else {
				pixels[b] = bg
			}
		}
	case 3: // multicolor bitmap
		for pair := 0; pair < 4; pair++ {
			bits := (graphByte >> uint((3-pair)*2)) & 0x03
			var color byte
			fg := false
			switch bits {
			case 0:
				color = v.bgColor(0)
			case 1:
				color = matrixByte >> 4
				fg = true
			case 2:
				color = matrixByte & 0x0F
				fg = true
			case 3:
				color = colorNibble
				fg = true
			}
			pixels[pair*2] = color
			pixels[pair*2+1] = color
			if fg {
				setBit(&collideMask, uint(7-pair*2), true)
				setBit(&collideMask, uint(7-pair*2-1), true)
			}
		}
	case 4: // ECM text
		bgIdx := matrixByte >> 6
		for b := 0; b < 8; b++ {
			if bitSet(graphByte, uint(7-b)) {
				pixels[b] = colorNibble
				setBit(&collideMask, uint(7-b), true)
			} else {
				pixels[b] = v.bgColor(int(bgIdx))
			}
		}
	default: // invalid modes 5/6/7: forced black, collision bits still set from data
		for b := 0; b < 8; b++ {
			pixels[b] = colorBlack
			if bitSet(graphByte, uint(7-b)) {
				setBit(&collideMask, uint(7-b), true)
			}
		}
	}
	return
}

// drawSprites implements §4.3's per-line sprite draw at cycle 57: for
// each enabled sprite whose shift register has pixels pending on this
// line, test collisions and composite into the frame buffer.
func (v *Vic2) drawSprites() {
	frameY := int(v.rasterY) - 0x33 + vicBorderY
	if frameY < 0 || frameY >= vicTotalHeight {
		return
	}

	var spriteBitsThisLine [8][]int // frame-x positions touched, for sprite-sprite overlap test

	for i := 0; i < 8; i++ {
		if !v.spriteEnabled(i) || !v.sprites[i].painting {
			continue
		}
		s := &v.sprites[i]
		expandX := v.regs[regSpriteExpX]&(1<<uint(i)) != 0
		multicolor := v.regs[regSpriteMC]&(1<<uint(i)) != 0
		priority := v.regs[regSpritePrio]&(1<<uint(i)) != 0
		color := v.regs[0x27+i] & 0x0F
		mc0 := v.regs[0x25] & 0x0F
		mc1 := v.regs[0x26] & 0x0F

		x0 := v.spriteX(i) + vicBorderX
		bits := uint32(s.data[0])<<16 | uint32(s.data[1])<<8 | uint32(s.data[2])

		width := 24
		if expandX {
			width = 48
		}
		for px := 0; px < width; px++ {
			bitIdx := px
			if expandX {
				bitIdx = px / 2
			}
			if bitIdx >= 24 {
				continue
			}
			var opaque bool
			var col byte
			if multicolor {
				pairIdx := bitIdx / 2
				shift := uint(22 - pairIdx*2)
				pair := (bits >> shift) & 0x03
				switch pair {
				case 0:
					opaque = false
				case 1:
					col, opaque = mc0, true
				case 2:
					col, opaque = color, true
				case 3:
					col, opaque = mc1, true
				}
			} else {
				shift := uint(23 - bitIdx)
				if bits&(1<<shift) != 0 {
					col, opaque = color, true
				}
			}
			if !opaque {
				continue
			}
			fx := x0 + px
			if fx < 0 || fx >= vicTotalWidth {
				continue
			}

			for j := 0; j < i; j++ {
				for _, ox := range spriteBitsThisLine[j] {
					if ox == fx {
						v.regs[regCollSS] |= 1 << uint(i)
						v.regs[regCollSS] |= 1 << uint(j)
						v.raiseIrq(0x04)
					}
				}
			}
			spriteBitsThisLine[i] = append(spriteBitsThisLine[i], fx)

			idx := frameY*vicTotalWidth + fx
			bgForeground := v.lastPixelWasForeground(frameY, fx)
			if bgForeground {
				v.regs[regCollSB] |= 1 << uint(i)
				v.raiseIrq(0x02)
			}
			if !priority || !bgForeground {
				v.frame[idx] = vicPalette[col]
			}
		}
	}
}

// lastPixelWasForeground is a coarse stand-in for per-pixel foreground
// tracking: it treats a frame pixel that doesn't match the current
// background color as "foreground" for sprite-background collision
// purposes, since the full per-pixel collision mask from
// computeCellPixels is not retained pixel-by-pixel across the frame
// buffer.
func (v *Vic2) lastPixelWasForeground(frameY, fx int) bool {
	if frameY < 0 || frameY >= vicTotalHeight || fx < 0 || fx >= vicTotalWidth {
		return false
	}
	return v.frame[frameY*vicTotalWidth+fx] != vicPalette[v.bgColor(0)]
}
