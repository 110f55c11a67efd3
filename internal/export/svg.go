package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Scene is what FrameSVG draws: world bounds, walls and one frame.
type Scene struct {
	Bounds         fluid.Bounds
	Walls          []fluid.Wall
	ParticleRadius float64
	// Scale is output pixels per world unit; zero means 1.
	Scale float64
}

func (s Scene) scale() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// margin leaves room for walls centred on the bounds lines.
func (s Scene) margin() float64 {
	m := 0.0
	for _, w := range s.Walls {
		m = max(m, min(w.HalfExtent.X, w.HalfExtent.Y))
	}
	return m
}

// point maps world coordinates to SVG pixels, flipping y.
func (s Scene) point(v r2.Vec) (float64, float64) {
	m := s.margin()
	return (v.X - s.Bounds.Left + m) * s.scale(), (s.Bounds.Top + m - v.Y) * s.scale()
}

func (s Scene) size() (float64, float64) {
	m := s.margin()
	return (s.Bounds.Width() + 2*m) * s.scale(), (s.Bounds.Height() + 2*m) * s.scale()
}

// FrameSVG renders walls as grey rectangles and particles as circles shaded
// from blue (slow) to red (fastest in the frame).
func FrameSVG(scene Scene, frame sim.Frame) string {
	width, height := scene.size()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g fill="#444444">` + "\n")
	for _, w := range scene.Walls {
		b := w.Box()
		x, y := scene.point(r2.Vec{X: b.Min.X, Y: b.Max.Y})
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			x, y, (b.Max.X-b.Min.X)*scene.scale(), (b.Max.Y-b.Min.Y)*scene.scale())
	}
	sb.WriteString("</g>\n")

	speeds := make([]float64, len(frame.Particles))
	for i, p := range frame.Particles {
		speeds[i] = p.Speed()
	}
	peak := 0.0
	if len(speeds) > 0 {
		peak = floats.Max(speeds)
	}

	fmt.Fprintf(&sb, `<g data-tick="%d">`+"\n", frame.Tick)
	r := scene.ParticleRadius * scene.scale()
	for i, p := range frame.Particles {
		cx, cy := scene.point(p.Position)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, r, speedColor(speeds[i], peak))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func speedColor(speed, peak float64) string {
	t := 0.0
	if peak > 0 {
		t = speed / peak
	}
	red := int(64 + t*191)
	blue := int(255 - t*191)
	return fmt.Sprintf("#%02x60%02x", red, blue)
}

// TrajectorySVG draws the path of one particle across frames. It returns ""
// when the particle appears in fewer than two frames.
func TrajectorySVG(scene Scene, frames []sim.Frame, particle int, strokeColor string) string {
	points := make([]r2.Vec, 0, len(frames))
	for _, f := range frames {
		if particle >= 0 && particle < len(f.Particles) {
			points = append(points, f.Particles[particle].Position)
		}
	}
	if len(points) < 2 {
		return ""
	}

	width, height := scene.size()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x, y := scene.point(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
