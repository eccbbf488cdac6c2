package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gasmix/internal/gas"
	"github.com/san-kum/gasmix/internal/metrics"
)

type Config struct {
	A, B        gas.PopulationConfig
	Dt          float64
	Frames      int
	SampleEvery int
	Seed        int64
	HalfSize    float64
}

type Result struct {
	Frames    int
	Elapsed   float64
	WallHits  int
	Times     []float64
	Series    map[string][]float64
	Metrics   map[string]float64
	Particles []gas.Particle
}

type Experiment struct {
	cfg     Config
	sim     *gas.Simulation
	metrics []metrics.Metric
	log     gas.Logger
}

func New(cfg Config) *Experiment {
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}
	return &Experiment{cfg: cfg, log: gas.NopLogger{}}
}

// SetLogger routes engine and run logging to l.
func (e *Experiment) SetLogger(l gas.Logger) {
	if l != nil {
		e.log = l
	}
}

func (e *Experiment) Setup(ms []metrics.Metric) error {
	if err := validateConfig(e.cfg); err != nil {
		return err
	}
	opts := []gas.Option{
		gas.WithSource(gas.NewSource(e.cfg.Seed)),
		gas.WithLogger(e.log),
	}
	if e.cfg.HalfSize > 0 {
		opts = append(opts, gas.WithHalfSize(e.cfg.HalfSize))
	}
	e.sim = gas.New(opts...)
	e.metrics = ms
	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if err := cfg.A.Validate(); err != nil {
		return fmt.Errorf("gas A: %w", err)
	}
	if err := cfg.B.Validate(); err != nil {
		return fmt.Errorf("gas B: %w", err)
	}
	return nil
}

// Run resets the simulation, lifts the partition and steps it for the
// configured number of frames, sampling metrics every SampleEvery frames.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.sim == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	samples := e.cfg.Frames/e.cfg.SampleEvery + 2
	result := &Result{
		Times:   make([]float64, 0, samples),
		Series:  make(map[string][]float64, len(e.metrics)),
		Metrics: make(map[string]float64, len(e.metrics)),
	}
	for _, m := range e.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	e.sim.Reset(e.cfg.A, e.cfg.B)
	e.sim.SetRunning(true)

	ps := e.sim.Particles()
	e.observe(result, ps)

	for i := 1; i <= e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Frames = i - 1
			e.finish(result)
			return result, ctx.Err()
		default:
		}

		e.sim.Step(e.cfg.Dt)

		if i%e.cfg.SampleEvery == 0 || i == e.cfg.Frames {
			ps = e.sim.Particles()
			e.observe(result, ps)
		}
	}
	result.Frames = e.cfg.Frames
	e.finish(result)

	e.log.Infof("run finished: %d frames, t=%.2f, %d wall hits", result.Frames, result.Elapsed, result.WallHits)
	return result, nil
}

func (e *Experiment) observe(r *Result, ps []gas.Particle) {
	t := e.sim.Elapsed()
	r.Times = append(r.Times, t)
	for _, m := range e.metrics {
		m.Observe(ps, t)
		r.Series[m.Name()] = append(r.Series[m.Name()], m.Value())
	}
}

func (e *Experiment) finish(r *Result) {
	r.Elapsed = e.sim.Elapsed()
	r.WallHits = e.sim.WallHits()
	r.Particles = e.sim.Particles()
	for _, m := range e.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// Simulation returns the underlying engine, e.g. for inspection after Run.
func (e *Experiment) Simulation() *gas.Simulation {
	return e.sim
}
