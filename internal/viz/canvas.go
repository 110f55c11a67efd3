package viz

import (
	"strings"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a sub-pixel. The canvas is (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// String joins the rows, each terminated by a newline.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		for _, r := range row {
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) hspan(x0, x1, y int) {
	for x := min(x0, x1); x <= max(x0, x1); x++ {
		c.Set(x, y)
	}
}

func (c *Canvas) vspan(x, y0, y1 int) {
	for y := min(y0, y1); y <= max(y0, y1); y++ {
		c.Set(x, y)
	}
}

// Projection maps world coordinates onto canvas sub-pixels with +y up.
type Projection struct {
	Bounds           fluid.Bounds
	PixelsX, PixelsY int
}

func NewProjection(b fluid.Bounds, c *Canvas) Projection {
	return Projection{Bounds: b, PixelsX: c.Width * 2, PixelsY: c.Height * 4}
}

func (p Projection) Point(x, y float64) (int, int) {
	px := (x - p.Bounds.Left) / p.Bounds.Width() * float64(p.PixelsX-1)
	py := (p.Bounds.Top - y) / p.Bounds.Height() * float64(p.PixelsY-1)
	return int(px + 0.5), int(py + 0.5)
}

// DrawBox outlines the world bounds.
func (c *Canvas) DrawBox(p Projection) {
	x0, y0 := p.Point(p.Bounds.Left, p.Bounds.Top)
	x1, y1 := p.Point(p.Bounds.Right, p.Bounds.Bottom)
	c.hspan(x0, x1, y0)
	c.hspan(x0, x1, y1)
	c.vspan(x0, y0, y1)
	c.vspan(x1, y0, y1)
}

// DrawParticles plots each particle as a 2x2 dot.
func (c *Canvas) DrawParticles(p Projection, ps []fluid.Particle) {
	for i := range ps {
		x, y := p.Point(ps[i].Position.X, ps[i].Position.Y)
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	}
}
