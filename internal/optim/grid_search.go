package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Setters name the config fields a grid search can vary.
var Setters = map[string]func(*config.SimulationConfig, float64){
	"restitution":      func(c *config.SimulationConfig, v float64) { c.Restitution = v },
	"smoothing_radius": func(c *config.SimulationConfig, v float64) { c.SmoothingRadius = v },
	"spacing_factor":   func(c *config.SimulationConfig, v float64) { c.SpacingFactor = v },
	"initial_speed":    func(c *config.SimulationConfig, v float64) { c.InitialSpeed = v },
	"gravity_strength": func(c *config.SimulationConfig, v float64) { c.GravityStrength = v },
	"particle_radius":  func(c *config.SimulationConfig, v float64) { c.ParticleRadius = v },
	"wall_thickness":   func(c *config.SimulationConfig, v float64) { c.WallThickness = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimizes a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("need one value range per parameter, got %d params and %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %q has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, limit: -1}, nil
}

// SetLimit caps concurrent simulations.
func (g *GridSearch) SetLimit(n int) { g.limit = n }

// Candidates expands the grid with the last parameter varying fastest.
func (g *GridSearch) Candidates() []map[string]float64 {
	var out []map[string]float64
	g.expand(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		g.expand(depth+1, next, out)
	}
}

// Trial is one evaluated grid point. Err is set when the combination was
// rejected by config validation; such trials are not run.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs every valid candidate for ticks steps from base and returns
// the trial with the smallest aggregated metricName alongside all trials in
// grid order.
func (g *GridSearch) Search(ctx context.Context, base *config.SimulationConfig, ticks int, metricName string) (Trial, []Trial, error) {
	candidates := g.Candidates()
	trials := make([]Trial, len(candidates))

	var configs []*config.SimulationConfig
	var index []int
	for i, params := range candidates {
		cfg := base.Clone()
		for name, v := range params {
			Setters[name](cfg, v)
		}
		trials[i].Params = params
		if err := cfg.Validate(); err != nil {
			trials[i].Err = err
			trials[i].Value = math.NaN()
			continue
		}
		configs = append(configs, cfg)
		index = append(index, i)
	}
	if len(configs) == 0 {
		return Trial{}, trials, fmt.Errorf("no valid parameter combinations")
	}

	ens := sim.NewEnsemble(configs, ticks, func(i int) []sim.Option {
		logger := slog.Default().With("trial", index[i])
		return []sim.Option{
			sim.WithLogger(logger),
			sim.WithMetrics(metrics.Default(configs[i], logger)...),
		}
	})
	ens.SetLimit(g.limit)

	results, err := ens.Run(ctx)
	if err != nil {
		return Trial{}, trials, err
	}

	best := -1
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return Trial{}, trials, fmt.Errorf("unknown metric %q", metricName)
		}
		t := index[i]
		trials[t].Value = val
		if best < 0 || val < trials[best].Value {
			best = t
		}
	}
	return trials[best], trials, nil
}
