package backend

// Color is an ANSI palette index or a 24-bit color from ColorRGB.
type Color int32

// The eight ANSI colors plus bright black. Widgets default to these so the
// form stays legible on 16-color terminals.
const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7
	ColorGray    Color = 8
)

const rgbFlag = 1 << 24

// ColorRGB returns a true color.
func ColorRGB(r, g, b uint8) Color {
	return Color(rgbFlag | int32(r)<<16 | int32(g)<<8 | int32(b))
}

// IsRGB reports whether c was built with ColorRGB.
func (c Color) IsRGB() bool {
	return c >= 0 && c&rgbFlag != 0
}

// RGB splits a true color into its components. Palette colors return zeros.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
