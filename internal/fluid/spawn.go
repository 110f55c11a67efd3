package fluid

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpawnOptions describe the startup grid.
type SpawnOptions struct {
	Count   int
	Radius  float64
	Spacing float64
	Mass    float64
	// InitialSpeed > 0 gives each particle a velocity drawn uniformly from
	// [-InitialSpeed, InitialSpeed] on both axes, reproducible from Seed.
	InitialSpeed float64
	Seed         int64
}

// gridLayout holds the derived spawn grid constants.
type gridLayout struct {
	cols           int
	pitch, scale   float64
	xStart, yStart float64
}

func newGridLayout(opts SpawnOptions) gridLayout {
	cols := int(math.Floor(math.Sqrt(float64(opts.Count))))
	rows := opts.Count / cols
	diameter := opts.Radius * 2
	return gridLayout{
		cols:   cols,
		pitch:  math.Trunc(diameter),
		scale:  opts.Spacing + 1,
		xStart: 0.5 * diameter * float64(cols),
		yStart: 0.5 * diameter * float64(rows),
	}
}

// position is the spawn point of the i-th particle, 1-based.
func (g gridLayout) position(i int) r2.Vec {
	col := i % g.cols
	row := (i + g.cols - 1) / g.cols
	return r2.Vec{
		X: (-g.xStart + float64(col)*g.pitch) * g.scale,
		Y: (g.yStart - float64(row)*g.pitch) * g.scale,
	}
}

// SpawnGrid lays particles out on a roughly square grid centred near the
// origin with floor(sqrt(Count)) columns. Cell pitch is the truncated
// diameter scaled by 1+Spacing. The layout is deterministic.
func SpawnGrid(opts SpawnOptions) []Particle {
	if opts.Count <= 0 {
		return nil
	}
	layout := newGridLayout(opts)

	var rng *rand.Rand
	if opts.InitialSpeed > 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	particles := make([]Particle, 0, opts.Count)
	for i := 1; i <= opts.Count; i++ {
		p := Particle{Position: layout.position(i), Mass: opts.Mass}
		if rng != nil {
			p.Velocity = r2.Vec{
				X: (rng.Float64()*2 - 1) * opts.InitialSpeed,
				Y: (rng.Float64()*2 - 1) * opts.InitialSpeed,
			}
		}
		particles = append(particles, p)
	}
	return particles
}

// SpawnExtent is the bounding box of the particle centres SpawnGrid would
// produce for opts, without allocating them. It is the zero Box when
// Count <= 0.
func SpawnExtent(opts SpawnOptions) r2.Box {
	if opts.Count <= 0 {
		return r2.Box{}
	}
	layout := newGridLayout(opts)
	first := layout.position(1)
	box := r2.Box{Min: first, Max: first}
	for i := 2; i <= opts.Count; i++ {
		p := layout.position(i)
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
	}
	return box
}
