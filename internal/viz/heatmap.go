package viz

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

var shades = []rune(" ░▒▓█")

// Heatmap renders a density grid with row 0 at the top, scaling every cell
// against the grid maximum.
func Heatmap(grid [][]float64) string {
	peak := 0.0
	for _, row := range grid {
		if len(row) > 0 {
			peak = max(peak, floats.Max(row))
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for _, v := range row {
			b.WriteRune(shade(v, peak))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func shade(v, peak float64) rune {
	if peak <= 0 || v <= 0 {
		return shades[0]
	}
	idx := int(v / peak * float64(len(shades)-1))
	if idx >= len(shades) {
		idx = len(shades) - 1
	}
	if idx == 0 {
		// any positive density is visible
		idx = 1
	}
	return shades[idx]
}
