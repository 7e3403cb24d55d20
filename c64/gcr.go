package c64

// GCR (Group Coded Recording) 4→5 bit line code tables and sector layout
// constants (§4.5, §glossary). The nibble tables are read-only and given
// program-lifetime storage per design note §9.
var gcrEncodeTable = [16]byte{
	0x0A, 0x0B, 0x12, 0x13, 0x0E, 0x0F, 0x16, 0x17,
	0x09, 0x19, 0x1A, 0x1B, 0x0D, 0x1D, 0x1E, 0x15,
}

// gcrDecodeTable inverts gcrEncodeTable; entries not present in the
// encode table are -1, signaling a corrupt image on decode (§4.5).
var gcrDecodeTable = buildGcrDecodeTable()

func buildGcrDecodeTable() [32]int8 {
	var t [32]int8
	for i := range t {
		t[i] = -1
	}
	for nibble, code := range gcrEncodeTable {
		t[code] = int8(nibble)
	}
	return t
}

const (
	gcrSectorSyncLen   = 1
	gcrSectorHeaderLen = 10
	gcrSectorGapLen    = 9
	gcrSectorDataLen   = 325
	gcrSectorTailGap   = 8
	gcrSectorTotalLen  = 365 // §4.5's stated whole-sector size, including inter-field gaps

	gcrDataBlockStartByte = 0x07
)

// gcrEncodeGroup packs 4 raw bytes into 5 GCR bytes by looking up each
// nibble's 5-bit code and concatenating the 40 resulting bits.
func gcrEncodeGroup(raw [4]byte) (out [5]byte) {
	var bits uint64
	nibbles := [8]byte{
		raw[0] >> 4, raw[0] & 0x0F,
		raw[1] >> 4, raw[1] & 0x0F,
		raw[2] >> 4, raw[2] & 0x0F,
		raw[3] >> 4, raw[3] & 0x0F,
	}
	for _, n := range nibbles {
		bits = bits<<5 | uint64(gcrEncodeTable[n])
	}
	// bits now holds 40 significant bits; emit as 5 bytes big-endian.
	for i := 0; i < 5; i++ {
		shift := uint(32 - i*8)
		out[i] = byte(bits >> shift)
	}
	return
}

// gcrDecodeGroup inverts gcrEncodeGroup. err is non-nil (an ImageError)
// if any 5-bit code has no corresponding nibble.
func gcrDecodeGroup(in [5]byte) (raw [4]byte, err error) {
	var bits uint64
	for _, b := range in {
		bits = bits<<8 | uint64(b)
	}
	var nibbles [8]byte
	for i := 7; i >= 0; i-- {
		code := byte(bits & 0x1F)
		bits >>= 5
		n := gcrDecodeTable[code]
		if n < 0 {
			return raw, newImageError("invalid GCR code in sector")
		}
		nibbles[i] = byte(n)
	}
	raw[0] = nibbles[0]<<4 | nibbles[1]
	raw[1] = nibbles[2]<<4 | nibbles[3]
	raw[2] = nibbles[4]<<4 | nibbles[5]
	raw[3] = nibbles[6]<<4 | nibbles[7]
	return raw, nil
}

// GcrEncodeSector turns a 256-byte sector payload into its 325-byte GCR
// data field: the 260 raw bytes (block-start marker + 256-byte payload +
// checksum + 2 tail bytes) split into 65 groups of 4, each expanded to 5
// GCR bytes (260 * 5/4 == 325), per §4.5.
func GcrEncodeSector(payload [256]byte, checksum byte) []byte {
	buf := make([]byte, 0, 260)
	buf = append(buf, gcrDataBlockStartByte)
	buf = append(buf, payload[:]...)
	buf = append(buf, checksum, 0, 0)

	out := make([]byte, 0, gcrSectorDataLen)
	for i := 0; i+4 <= len(buf); i += 4 {
		var group [4]byte
		copy(group[:], buf[i:i+4])
		enc := gcrEncodeGroup(group)
		out = append(out, enc[:]...)
	}
	return out
}

// GcrDecodeSector inverts GcrEncodeSector, returning the 256-byte
// payload. Satisfies §8's round-trip property for all 256 raw bytes.
func GcrDecodeSector(data []byte) (payload [256]byte, err error) {
	if len(data) < gcrSectorDataLen {
		return payload, newImageError("short GCR sector")
	}
	decoded := make([]byte, 0, 260)
	for i := 0; i+5 <= len(data); i += 5 {
		var group [5]byte
		copy(group[:], data[i:i+5])
		raw, derr := gcrDecodeGroup(group)
		if derr != nil {
			return payload, derr
		}
		decoded = append(decoded, raw[:]...)
	}
	copy(payload[:], decoded[1:257])
	return payload, nil
}

// gcrSyncByte is the on-disk byte value of a sync mark. Real 1541 hardware
// marks one with a run of consecutive "1" bits; here it is a single 0xFF
// byte. Encoded data can also contain a 0xFF byte (a raw low nibble 5
// followed by a high nibble E, codes 0x0F then 0x1E, in the middle of a
// group), so a lone 0xFF is not unambiguous on its own.
const gcrSyncByte = 0xFF

// GcrEncodeFramedSector assembles the full on-disk byte layout of one
// sector per §4.5's field breakdown: SYNC + HEADER + GAP + SYNC + DATA +
// trailing GAP, around the 325-byte data field GcrEncodeSector already
// produces. The header's sector/track identifier bytes are real; the
// remaining header/gap filler bytes are placeholders (no disk-image
// format is in scope per §1) chosen to never collide with gcrSyncByte. The
// header gap is padded so the whole sector is gcrSectorTotalLen bytes and
// ends with the data field and trailing gap. The sector holds exactly 2
// sync bytes whenever the encoded data field has no 0xFF byte, as with a
// 0x00..0xFF payload.
func GcrEncodeFramedSector(track, sector int, payload [256]byte, checksum byte) []byte {
	buf := make([]byte, 0, gcrSectorTotalLen)
	buf = append(buf, gcrSyncByte)

	header := make([]byte, gcrSectorHeaderLen)
	header[0] = gcrDataBlockStartByte
	header[1] = byte(sector) ^ byte(track) // parity
	header[2] = byte(sector)
	header[3] = byte(track)
	header[4] = 0 // id2
	header[5] = 0 // id1
	header[6] = 0x0F
	header[7] = 0x0F
	buf = append(buf, header...)

	for i := 0; i < gcrSectorGapLen; i++ {
		buf = append(buf, 0x55)
	}
	for len(buf) < gcrSectorTotalLen-gcrSectorSyncLen-gcrSectorDataLen-gcrSectorTailGap {
		buf = append(buf, 0x55)
	}

	buf = append(buf, gcrSyncByte)
	buf = append(buf, GcrEncodeSector(payload, checksum)...)

	for i := 0; i < gcrSectorTailGap; i++ {
		buf = append(buf, 0x55)
	}
	return buf
}

// sectorsPerTrack is the 1541 geometry table indexed by (track-1), 35
// tracks / 683 sectors total (§6.4).
var sectorsPerTrack = [35]int{
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	19, 19, 19, 19, 19, 19, 19,
	18, 18, 18, 18, 18, 18,
	17, 17, 17, 17, 17,
}
