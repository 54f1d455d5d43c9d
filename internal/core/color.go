package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorGray
)

// bodyPalette cycles through distinguishable colors for scenario bodies.
var bodyPalette = []Color{ColorCyan, ColorYellow, ColorMagenta, ColorGreen, ColorBlue}

// BodyColor returns a stable color for the i-th body in a scene.
func BodyColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return bodyPalette[i%len(bodyPalette)]
}
