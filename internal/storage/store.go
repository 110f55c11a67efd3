package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	framesFile   = "frames.csv"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	Ticks     int                `json:"ticks"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameRecord is one particle in one recorded frame of frames.csv.
type FrameRecord struct {
	Tick     int     `csv:"tick"`
	Time     float64 `csv:"time"`
	Particle int     `csv:"particle"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	Mass     float64 `csv:"mass"`
}

// SeriesRecord is one metric sample of series.csv.
type SeriesRecord struct {
	Tick   int     `csv:"tick"`
	Time   float64 `csv:"time"`
	Metric string  `csv:"metric"`
	Value  float64 `csv:"value"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(name string, cfg *config.SimulationConfig, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Particles: cfg.ParticleCount,
		Ticks:     result.Ticks,
		Dt:        cfg.Dt,
		Frames:    len(result.Frames),
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	frames := make([]*FrameRecord, 0, len(result.Frames)*cfg.ParticleCount)
	for _, f := range result.Frames {
		for i, p := range f.Particles {
			frames = append(frames, &FrameRecord{
				Tick: f.Tick, Time: f.Time, Particle: i,
				X: p.Position.X, Y: p.Position.Y,
				VX: p.Velocity.X, VY: p.Velocity.Y,
				Mass: p.Mass,
			})
		}
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), &frames); err != nil {
		return "", err
	}

	names := make([]string, 0, len(result.Series))
	for n := range result.Series {
		names = append(names, n)
	}
	sort.Strings(names)

	series := make([]*SeriesRecord, 0, len(names)*len(result.Times))
	for _, n := range names {
		for i, v := range result.Series[n] {
			if i >= len(result.Times) {
				break
			}
			series = append(series, &SeriesRecord{Tick: i + 1, Time: result.Times[i], Metric: n, Value: v})
		}
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), &series); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.SimulationConfig, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadFrames rebuilds the recorded frames in tick order.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	var records []*FrameRecord
	if err := readCSV(filepath.Join(s.baseDir, runID, framesFile), &records); err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for _, r := range records {
		if len(frames) == 0 || frames[len(frames)-1].Tick != r.Tick {
			frames = append(frames, sim.Frame{Tick: r.Tick, Time: r.Time})
		}
		f := &frames[len(frames)-1]
		f.Particles = append(f.Particles, fluid.Particle{
			Position: r2.Vec{X: r.X, Y: r.Y},
			Velocity: r2.Vec{X: r.VX, Y: r.VY},
			Mass:     r.Mass,
		})
	}
	return frames, nil
}

// LoadSeries returns the per-tick metric samples and their times.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []float64, error) {
	var records []*SeriesRecord
	if err := readCSV(filepath.Join(s.baseDir, runID, seriesFile), &records); err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	times := make([]float64, 0)
	for _, r := range records {
		series[r.Metric] = append(series[r.Metric], r.Value)
		if r.Tick > len(times) {
			times = append(times, r.Time)
		}
	}
	return series, times, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(records, f)
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		if err == gocsv.ErrEmptyCSVFile {
			return nil
		}
		return err
	}
	return nil
}
