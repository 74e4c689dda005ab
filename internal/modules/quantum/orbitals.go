package quantum

import "fmt"

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// WithAlpha returns the color with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

var orbitalLetters = [...]string{"s", "p", "d", "f", "g", "h", "i"}

// Visualization extent in Bohr radii for n = 1..7.
var orbitalExtents = [...]float64{10, 20, 30, 40, 50, 60, 70}

var orbitalColors = map[string]RGBA{
	"s": {0.2, 0.6, 1.0, 0.7}, // blue
	"p": {1.0, 0.5, 0.2, 0.7}, // orange
	"d": {0.2, 1.0, 0.4, 0.7}, // green
	"f": {0.8, 0.2, 1.0, 0.7}, // purple
	"g": {1.0, 1.0, 0.2, 0.7}, // yellow
	"h": {0.2, 1.0, 1.0, 0.7}, // cyan
	"i": {1.0, 0.2, 0.6, 0.7}, // magenta
}

// Fallback and lobe-phase colors.
var (
	NeutralColor       = RGBA{0.5, 0.5, 0.5, 0.7}
	PhasePositiveColor = RGBA{1.0, 0.3, 0.3, 0.7}
	PhaseNegativeColor = RGBA{0.3, 0.3, 1.0, 0.7}
)

// OrbitalLetter returns the spectroscopic letter for l, or "l{l}" past the table.
func OrbitalLetter(l int) string {
	if l >= 0 && l < len(orbitalLetters) {
		return orbitalLetters[l]
	}
	return fmt.Sprintf("l%d", l)
}

// OrbitalExtent returns the half-width of the sampling cube for principal number n.
func OrbitalExtent(n int) float64 {
	if n >= 1 && n <= len(orbitalExtents) {
		return orbitalExtents[n-1]
	}
	return 10 * float64(n)
}

// OrbitalColor returns the display color for an azimuthal number, neutral gray
// when l is past the table.
func OrbitalColor(l int) RGBA {
	if l < 0 || l >= len(orbitalLetters) {
		return NeutralColor
	}
	if c, ok := orbitalColors[orbitalLetters[l]]; ok {
		return c
	}
	return NeutralColor
}

// PhaseColor colors a lobe by the sign of its phase.
func PhaseColor(phase float64) RGBA {
	if phase >= 0 {
		return PhasePositiveColor
	}
	return PhaseNegativeColor
}

// OrbitalName returns the shell name without a lobe suffix, e.g. "3d".
func OrbitalName(n, l int) string {
	return fmt.Sprintf("%d%s", n, OrbitalLetter(l))
}

// OrbitalNameWithM appends the real-orbital lobe suffix for m.
func OrbitalNameWithM(n, l, m int) string {
	return OrbitalName(n, l) + lobeSuffix(l, m)
}

func lobeSuffix(l, m int) string {
	switch l {
	case 1:
		switch m {
		case 1:
			return "x"
		case -1:
			return "y"
		case 0:
			return "z"
		}
	case 2:
		switch m {
		case 0:
			return "z²"
		case 1:
			return "xz"
		case -1:
			return "yz"
		case 2:
			return "x²-y²"
		case -2:
			return "xy"
		}
	default:
		if m == 0 {
			return ""
		}
	}
	return fmt.Sprintf("m%d", m)
}
