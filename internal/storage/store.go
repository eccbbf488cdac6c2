package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/gas"
)

const (
	metadataFile  = "metadata.json"
	samplesFile   = "samples.csv"
	particlesFile = "particles.csv"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type GasMeta struct {
	Count       int     `json:"count"`
	Temperature float64 `json:"temperature"`
	Mass        float64 `json:"mass"`
}

func gasMeta(c gas.PopulationConfig) GasMeta {
	return GasMeta{Count: c.Count, Temperature: c.Temperature, Mass: c.Mass}
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	HalfSize  float64            `json:"half_size"`
	Elapsed   float64            `json:"elapsed"`
	WallHits  int                `json:"wall_hits"`
	GasA      GasMeta            `json:"gas_a"`
	GasB      GasMeta            `json:"gas_b"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a finished run under a fresh directory and returns its id.
func (s *Store) Save(name string, cfg experiment.Config, result *experiment.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("save %s: nil result", name)
	}
	if name == "" {
		name = "run"
	}

	now := time.Now()
	runID, runDir, err := s.allocate(name, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Frames:    result.Frames,
		HalfSize:  halfSize(cfg.HalfSize),
		Elapsed:   result.Elapsed,
		WallHits:  result.WallHits,
		GasA:      gasMeta(cfg.A),
		GasB:      gasMeta(cfg.B),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Times, result.Series); err != nil {
		return "", fmt.Errorf("write samples: %w", err)
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result.Particles); err != nil {
		return "", fmt.Errorf("write particles: %w", err)
	}

	return runID, nil
}

// allocate picks an unused run directory; several saves in the same second
// get a numeric suffix.
func (s *Store) allocate(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func halfSize(h float64) float64 {
	if h > 0 {
		return h
	}
	return gas.DefaultHalfSize
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

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSamples(path string, times []float64, series map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := seriesNames(series)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i, t := range times {
		row := make([]string, 0, len(names)+1)
		row = append(row, formatFloat(t))
		for _, name := range names {
			vals := series[name]
			if i < len(vals) {
				row = append(row, formatFloat(vals[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

var particleHeader = []string{"population", "x", "y", "z", "vx", "vy", "vz", "radius", "mass"}

func writeParticles(path string, ps []gas.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(particleHeader); err != nil {
		return err
	}
	for _, p := range ps {
		row := []string{
			p.Population.String(),
			formatFloat(p.Position.X()), formatFloat(p.Position.Y()), formatFloat(p.Position.Z()),
			formatFloat(p.Velocity.X()), formatFloat(p.Velocity.Y()), formatFloat(p.Velocity.Z()),
			formatFloat(p.Radius), formatFloat(p.Mass),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path, runID string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadSamples returns the sample times and the metric series keyed by name.
func (s *Store) LoadSamples(runID string) ([]float64, map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile), runID)
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return []float64{}, series, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for line, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", samplesFile, line+2, err)
		}
		times = append(times, t)

		for j, name := range header[1:] {
			if j+1 >= len(record) || record[j+1] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", samplesFile, line+2, err)
			}
			series[name] = append(series[name], v)
		}
	}

	return times, series, nil
}

// LoadParticles returns the final particle snapshot of a run.
func (s *Store) LoadParticles(runID string) ([]gas.Particle, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile), runID)
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return []gas.Particle{}, nil
	}

	ps := make([]gas.Particle, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != len(particleHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				particlesFile, line+2, len(particleHeader), len(record))
		}
		pop, err := gas.ParsePopulation(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", particlesFile, line+2, err)
		}

		var vals [8]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", particlesFile, line+2, err)
			}
			vals[j] = v
		}

		ps = append(ps, gas.Particle{
			Position:   mgl64.Vec3{vals[0], vals[1], vals[2]},
			Velocity:   mgl64.Vec3{vals[3], vals[4], vals[5]},
			Radius:     vals[6],
			Mass:       vals[7],
			Population: pop,
		})
	}
	return ps, nil
}
