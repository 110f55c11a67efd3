package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Normalizer maps a smoothing radius to the divisor applied to the summed
// kernel contributions.
type Normalizer func(smoothingRadius float64) float64

// AreaNormalizer divides by the area of the kernel support, pi*h^2.
func AreaNormalizer(smoothingRadius float64) float64 {
	return math.Pi * smoothingRadius * smoothingRadius
}

// DensityField estimates density from particle samples. A nil Normalize uses
// AreaNormalizer.
//
// The estimate is diagnostic only. Hooking it into a pressure force would
// happen in a Force implementation; none does today.
type DensityField struct {
	Mass            float64
	SmoothingRadius float64
	Normalize       Normalizer
}

// DensityAt is DensityField{mass, smoothingRadius, AreaNormalizer}.At. A
// smoothingRadius <= 0 or NaN has no support and yields 0.
func DensityAt(point r2.Vec, particles []Particle, mass, smoothingRadius float64) float64 {
	return DensityField{Mass: mass, SmoothingRadius: smoothingRadius}.At(point, particles)
}

// At sums mass * Influence over all particles and normalizes. It returns 0
// for an empty collection or a smoothing radius that is not positive, and
// never mutates particles.
func (f DensityField) At(point r2.Vec, particles []Particle) float64 {
	if len(particles) == 0 || !(f.SmoothingRadius > 0) {
		return 0
	}
	total := 0.0
	for i := range particles {
		d := r2.Norm(r2.Sub(particles[i].Position, point))
		total += f.Mass * Influence(d, f.SmoothingRadius)
	}
	norm := f.Normalize
	if norm == nil {
		norm = AreaNormalizer
	}
	return total / norm(f.SmoothingRadius)
}

// Grid samples the field at the centers of an nx by ny lattice over box.
// Row 0 is the top of the box so the result can be drawn directly.
func (f DensityField) Grid(particles []Particle, box r2.Box, nx, ny int) [][]float64 {
	if nx <= 0 || ny <= 0 {
		return nil
	}
	cw := (box.Max.X - box.Min.X) / float64(nx)
	ch := (box.Max.Y - box.Min.Y) / float64(ny)

	grid := make([][]float64, ny)
	for row := 0; row < ny; row++ {
		grid[row] = make([]float64, nx)
		y := box.Max.Y - (float64(row)+0.5)*ch
		for col := 0; col < nx; col++ {
			x := box.Min.X + (float64(col)+0.5)*cw
			grid[row][col] = f.At(r2.Vec{X: x, Y: y}, particles)
		}
	}
	return grid
}
