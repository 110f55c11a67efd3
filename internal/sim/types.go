package sim

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// Metric is observed after every tick.
type Metric interface {
	Name() string
	Observe(particles []fluid.Particle, t float64)
	// Current is the value from the most recent observation.
	Current() float64
	// Value aggregates every observation since Reset.
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(particles []fluid.Particle, tick int, t float64)
}

// Frame is a snapshot of the particle collection after a tick.
type Frame struct {
	Tick      int
	Time      float64
	Particles []fluid.Particle
}

type Result struct {
	Frames []Frame
	// Times and Series are sampled every tick; Series is keyed by metric name.
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
	Ticks   int
}

// LogValue implements slog.LogValuer.
func (r *Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", r.Ticks),
		slog.Int("frames", len(r.Frames)),
	}
	for name, v := range r.Metrics {
		attrs = append(attrs, slog.Float64(name, v))
	}
	return slog.GroupValue(attrs...)
}

// TickError wraps a failed step with the tick it happened on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
