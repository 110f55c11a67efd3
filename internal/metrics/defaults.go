package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/sim"
)

// probeLogEvery matches one log line per simulated second at 60 Hz.
const probeLogEvery = 60

// Default returns the metric set recorded by every CLI run.
func Default(cfg *config.SimulationConfig, logger *slog.Logger) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewSpeedSpread(),
		NewProbeDensity(cfg.DensityField(), r2.Vec{X: cfg.DensityProbe.X, Y: cfg.DensityProbe.Y}, logger, probeLogEvery),
		NewContainment(cfg.WorldBounds(), cfg.WallThickness),
	}
}
