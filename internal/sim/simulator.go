package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
)

// Simulator owns one particle collection and advances it tick by tick.
// It is not safe for concurrent use; run independent simulators in an
// Ensemble instead.
type Simulator struct {
	cfg       *config.SimulationConfig
	params    fluid.Params
	walls     []fluid.Wall
	field     fluid.DensityField
	particles []fluid.Particle
	tick      int
	t         float64
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithMetrics(m ...Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m...) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

// WithForce registers an extra force run after gravity each tick.
func WithForce(f fluid.Force) Option {
	return func(s *Simulator) { s.params.Forces = append(s.params.Forces, f) }
}

// New validates cfg, builds the walls and spawns the particle grid.
// Configuration errors are returned here and never per tick.
func New(cfg *config.SimulationConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	walls, err := fluid.NewBoxWalls(cfg.WorldBounds(), cfg.WallThickness)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:    cfg.Clone(),
		params: cfg.Params(),
		walls:  walls,
		field:  cfg.DensityField(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, w := range cfg.Warnings() {
		s.logger.Warn("config", "warning", w)
	}
	s.Reset()
	return s, nil
}

// Reset respawns the grid and rewinds the clock.
func (s *Simulator) Reset() {
	s.particles = fluid.SpawnGrid(s.cfg.SpawnOptions())
	s.tick = 0
	s.t = 0
}

// Step advances one tick at the configured dt.
func (s *Simulator) Step() error {
	return s.StepDt(s.cfg.Dt)
}

// StepDt advances one tick with a host-supplied dt.
func (s *Simulator) StepDt(dt float64) error {
	if err := fluid.Step(s.particles, s.walls, s.params, dt); err != nil {
		return &TickError{Tick: s.tick + 1, Time: s.t, Wrapped: err}
	}
	s.tick++
	s.t += dt
	return nil
}

// Run advances ticks steps, feeding metrics and observers after each one.
// It stops at the first failed step or when ctx is done, returning the
// partial result alongside the error.
func (s *Simulator) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", fluid.ErrInvalidConfiguration, ticks)
	}

	result := &Result{
		Frames:  make([]Frame, 0, ticks/s.cfg.RecordEvery+1),
		Times:   make([]float64, 0, ticks),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("simulation started",
		"particles", len(s.particles),
		"ticks", ticks,
		"dt", s.cfg.Dt,
		"restitution", s.cfg.Restitution,
	)
	start := time.Now()

	result.Frames = append(result.Frames, s.frame())

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.Step(); err != nil {
			runErr = err
			break
		}
		result.Ticks++
		result.Times = append(result.Times, s.t)

		for _, m := range s.metrics {
			m.Observe(s.particles, s.t)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Current())
		}
		for _, o := range s.observers {
			o.OnStep(s.particles, s.tick, s.t)
		}
		if s.tick%s.cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, s.frame())
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.logger.Error("simulation stopped", "tick", s.tick, "error", runErr)
		return result, runErr
	}
	s.logger.Info("simulation finished", "elapsed", time.Since(start), "result", result)
	return result, nil
}

func (s *Simulator) frame() Frame {
	return Frame{Tick: s.tick, Time: s.t, Particles: fluid.Clone(s.particles)}
}

// Particles returns a copy of the current particle states.
func (s *Simulator) Particles() []fluid.Particle {
	return fluid.Clone(s.particles)
}

func (s *Simulator) Walls() []fluid.Wall {
	w := make([]fluid.Wall, len(s.walls))
	copy(w, s.walls)
	return w
}

func (s *Simulator) Config() *config.SimulationConfig { return s.cfg.Clone() }
func (s *Simulator) Tick() int                         { return s.tick }
func (s *Simulator) Time() float64                     { return s.t }

// Density queries the density field at point.
func (s *Simulator) Density(point r2.Vec) float64 {
	return s.field.At(point, s.particles)
}

// DensityGrid samples the density field over the world bounds.
func (s *Simulator) DensityGrid(nx, ny int) [][]float64 {
	return s.field.Grid(s.particles, s.cfg.WorldBounds().Box(), nx, ny)
}

// SetGravity toggles the gravity hook.
func (s *Simulator) SetGravity(enabled bool) {
	s.params.Gravity.Enabled = enabled
}

func (s *Simulator) GravityEnabled() bool { return s.params.Gravity.Enabled }

// Kick adds an impulse to every particle, uniformly in [-speed, speed] per
// axis and reproducible from the configured seed and the current tick.
func (s *Simulator) Kick(speed float64) {
	rng := rand.New(rand.NewSource(s.cfg.Seed + int64(s.tick) + 1))
	for i := range s.particles {
		s.particles[i].Velocity.X += (rng.Float64()*2 - 1) * speed
		s.particles[i].Velocity.Y += (rng.Float64()*2 - 1) * speed
	}
}
