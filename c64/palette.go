package c64

// VIC-II 16-color palette, packed 0xAARRGGBB (§6.1). A commonly used
// "Colodore" palette; values are read-only program-lifetime storage per
// design note §9 ("static tables ... give them program-lifetime storage").
var vicPalette = [16]uint32{
	0xFF000000, // 0 black
	0xFFFFFFFF, // 1 white
	0xFF813338, // 2 red
	0xFF75cec8, // 3 cyan
	0xFF8e3c97, // 4 purple
	0xFF56ac4d, // 5 green
	0xFF2e2c9b, // 6 blue
	0xFFedf171, // 7 yellow
	0xFF8e5029, // 8 orange
	0xFF553800, // 9 brown
	0xFFc46c71, // 10 light red
	0xFF4a4a4a, // 11 dark grey
	0xFF7b7b7b, // 12 grey
	0xFFa9ff9f, // 13 light green
	0xFF706deb, // 14 light blue
	0xFFb2b2b2, // 15 light grey
}

const (
	colorBlack      = 0
	colorLightBlue  = 14
	colorBlue       = 6
)
