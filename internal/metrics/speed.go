package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// MaxSpeed tracks the fastest particle. Value is the peak over all samples.
type MaxSpeed struct {
	name    string
	current float64
	peak    float64
	speeds  []float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(ps []fluid.Particle, t float64) {
	m.speeds = speeds(m.speeds, ps)
	if len(m.speeds) == 0 {
		m.current = 0
		return
	}
	m.current = floats.Max(m.speeds)
	m.peak = math.Max(m.peak, m.current)
}

func (m *MaxSpeed) Current() float64 { return m.current }
func (m *MaxSpeed) Value() float64   { return m.peak }

func (m *MaxSpeed) Reset() {
	m.current = 0
	m.peak = 0
}

// SpeedSpread is the standard deviation of particle speeds.
type SpeedSpread struct {
	name    string
	current float64
	sum     float64
	samples int
	speeds  []float64
}

func NewSpeedSpread() *SpeedSpread {
	return &SpeedSpread{name: "speed_stddev"}
}

func (s *SpeedSpread) Name() string { return s.name }

func (s *SpeedSpread) Observe(ps []fluid.Particle, t float64) {
	s.speeds = speeds(s.speeds, ps)
	s.current = 0
	if len(s.speeds) > 1 {
		s.current = stat.StdDev(s.speeds, nil)
	}
	s.sum += s.current
	s.samples++
}

func (s *SpeedSpread) Current() float64 { return s.current }

func (s *SpeedSpread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *SpeedSpread) Reset() {
	s.current = 0
	s.sum = 0
	s.samples = 0
}

func speeds(buf []float64, ps []fluid.Particle) []float64 {
	buf = buf[:0]
	for i := range ps {
		buf = append(buf, ps[i].Speed())
	}
	return buf
}
