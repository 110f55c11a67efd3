package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Side identifies one of the four box walls.
type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Face is the side of a particle's bounding box that a wall penetrates.
type Face int

const (
	FaceNone Face = iota
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
	// FaceInside means the boxes overlap without a distinguishable face.
	FaceInside
)

func (f Face) String() string {
	switch f {
	case FaceNone:
		return "none"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceInside:
		return "inside"
	}
	return fmt.Sprintf("face(%d)", int(f))
}

// Wall is an immutable axis-aligned rectangle.
type Wall struct {
	Side       Side
	Center     r2.Vec
	HalfExtent r2.Vec
}

// NewWall rejects non-positive or non-finite half-extents.
func NewWall(side Side, center, halfExtent r2.Vec) (Wall, error) {
	if !(halfExtent.X > 0) || !(halfExtent.Y > 0) || !finite(halfExtent.X) || !finite(halfExtent.Y) {
		return Wall{}, fmt.Errorf("%w: %s wall half-extent %v", ErrDegenerateGeometry, side, halfExtent)
	}
	if !finite(center.X) || !finite(center.Y) {
		return Wall{}, fmt.Errorf("%w: %s wall center %v", ErrDegenerateGeometry, side, center)
	}
	return Wall{Side: side, Center: center, HalfExtent: halfExtent}, nil
}

func (w Wall) Box() r2.Box {
	return r2.Box{Min: r2.Sub(w.Center, w.HalfExtent), Max: r2.Add(w.Center, w.HalfExtent)}
}

// Bounds are the world-space wall positions.
type Bounds struct {
	Left, Right, Bottom, Top float64
}

// DefaultBounds is the 600x500 box centered on the origin.
func DefaultBounds() Bounds {
	return Bounds{Left: -300, Right: 300, Bottom: -250, Top: 250}
}

func (b Bounds) Width() float64  { return b.Right - b.Left }
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

func (b Bounds) Box() r2.Box {
	return r2.Box{Min: r2.Vec{X: b.Left, Y: b.Bottom}, Max: r2.Vec{X: b.Right, Y: b.Top}}
}

// Contains reports whether p lies within the bounds grown by margin.
func (b Bounds) Contains(p r2.Vec, margin float64) bool {
	return p.X >= b.Left-margin && p.X <= b.Right+margin &&
		p.Y >= b.Bottom-margin && p.Y <= b.Top+margin
}

// NewBoxWalls builds the four walls centred on the bounds lines, in the fixed
// resolution order Left, Right, Top, Bottom. Vertical walls span the full
// height plus one thickness, horizontal walls the full width plus one
// thickness.
func NewBoxWalls(b Bounds, thickness float64) ([]Wall, error) {
	if !(b.Left < b.Right) || !(b.Bottom < b.Top) {
		return nil, fmt.Errorf("%w: bounds %+v", ErrDegenerateGeometry, b)
	}
	vertical := r2.Vec{X: thickness / 2, Y: (b.Height() + thickness) / 2}
	horizontal := r2.Vec{X: (b.Width() + thickness) / 2, Y: thickness / 2}
	midX := (b.Left + b.Right) / 2
	midY := (b.Bottom + b.Top) / 2

	specs := []struct {
		side       Side
		center     r2.Vec
		halfExtent r2.Vec
	}{
		{Left, r2.Vec{X: b.Left, Y: midY}, vertical},
		{Right, r2.Vec{X: b.Right, Y: midY}, vertical},
		{Top, r2.Vec{X: midX, Y: b.Top}, horizontal},
		{Bottom, r2.Vec{X: midX, Y: b.Bottom}, horizontal},
	}

	walls := make([]Wall, 0, len(specs))
	for _, s := range specs {
		w, err := NewWall(s.side, s.center, s.halfExtent)
		if err != nil {
			return nil, err
		}
		walls = append(walls, w)
	}
	return walls, nil
}

// ParticleBox is the square bounding box of a particle of the given radius.
func ParticleBox(position r2.Vec, radius float64) r2.Box {
	half := r2.Vec{X: radius, Y: radius}
	return r2.Box{Min: r2.Sub(position, half), Max: r2.Add(position, half)}
}

// Classify returns which face of particle box a is penetrated by wall box b.
// Per axis a face is found when b covers exactly one edge of a; the axis with
// the smaller penetration depth wins, x on an exact tie. When b covers both or
// neither edge on each axis the result is FaceInside.
func Classify(a, b r2.Box) Face {
	if !(a.Min.X < b.Max.X && a.Max.X > b.Min.X && a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y) {
		return FaceNone
	}

	xFace, xDepth := FaceInside, math.Inf(1)
	switch {
	case b.Min.X < a.Min.X && b.Max.X > a.Min.X && b.Max.X < a.Max.X:
		xFace, xDepth = FaceLeft, b.Max.X-a.Min.X
	case b.Min.X > a.Min.X && b.Min.X < a.Max.X && b.Max.X > a.Max.X:
		xFace, xDepth = FaceRight, a.Max.X-b.Min.X
	}

	yFace, yDepth := FaceInside, math.Inf(1)
	switch {
	case b.Min.Y < a.Min.Y && b.Max.Y > a.Min.Y && b.Max.Y < a.Max.Y:
		yFace, yDepth = FaceBottom, b.Max.Y-a.Min.Y
	case b.Min.Y > a.Min.Y && b.Min.Y < a.Max.Y && b.Max.Y > a.Max.Y:
		yFace, yDepth = FaceTop, a.Max.Y-b.Min.Y
	}

	if yDepth < xDepth {
		return yFace
	}
	return xFace
}

// ResolveCollisions tests p against each wall in order and reflects the
// velocity component pointing into a penetrated face. The component is scaled
// by -restitution and the position is pushed back toward the interior by
// thickness: +x off the Left face, -x off the Right face, -y off the Top face
// and +y off the Bottom face. Right and Top therefore subtract thickness
// rather than adding it, so a particle is never pushed through the wall it
// hit. A particle already moving away from the face is left alone.
//
// Restitution above 1 is accepted and adds energy on every bounce.
func ResolveCollisions(p *Particle, radius float64, walls []Wall, thickness, restitution float64) {
	for i := range walls {
		face := Classify(ParticleBox(p.Position, radius), walls[i].Box())
		reflect(p, face, thickness, restitution)
	}
}

func reflect(p *Particle, face Face, thickness, restitution float64) {
	switch face {
	case FaceLeft:
		if p.Velocity.X < 0 {
			p.Position.X += thickness
			p.Velocity.X *= -restitution
		}
	case FaceRight:
		if p.Velocity.X > 0 {
			p.Position.X -= thickness
			p.Velocity.X *= -restitution
		}
	case FaceTop:
		if p.Velocity.Y > 0 {
			p.Position.Y -= thickness
			p.Velocity.Y *= -restitution
		}
	case FaceBottom:
		if p.Velocity.Y < 0 {
			p.Position.Y += thickness
			p.Velocity.Y *= -restitution
		}
	}
}

// WallSystem bundles wall geometry with the collision parameters.
type WallSystem struct {
	Walls          []Wall
	Thickness      float64
	Restitution    float64
	ParticleRadius float64
}

func (ws WallSystem) Resolve(p *Particle) {
	ResolveCollisions(p, ws.ParticleRadius, ws.Walls, ws.Thickness, ws.Restitution)
}

func (ws WallSystem) ResolveAll(particles []Particle) {
	for i := range particles {
		ws.Resolve(&particles[i])
	}
}
