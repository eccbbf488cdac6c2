package optim

import (
	"context"
	"testing"

	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/gas"
)

func baseConfig() experiment.Config {
	return experiment.Config{
		A:           gas.PopulationConfig{Count: 30, Temperature: 300, Mass: 10},
		B:           gas.PopulationConfig{Count: 30, Temperature: 300, Mass: 10},
		Dt:          1.0 / 30,
		Frames:      400,
		SampleEvery: 5,
		Seed:        7,
	}
}

func TestApply(t *testing.T) {
	cfg := baseConfig()
	for _, name := range Params {
		if err := Apply(&cfg, name, 12.4); err != nil {
			t.Errorf("Apply(%s): %v", name, err)
		}
	}
	if cfg.A.Count != 12 || cfg.B.Count != 12 {
		t.Errorf("counts not rounded: %d, %d", cfg.A.Count, cfg.B.Count)
	}
	if cfg.A.Temperature != 12.4 || cfg.B.Mass != 12.4 {
		t.Errorf("float params not applied: %+v", cfg)
	}
	if err := Apply(&cfg, "pressure", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestNewGridSearch_Invalid(t *testing.T) {
	if _, err := NewGridSearch([]string{"mass_a"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"volume"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := NewGridSearch([]string{"mass_a"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestGridSearch_HotterMixesFaster(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"temperature_a", "temperature_b"},
		[][]float64{{50, 2000}, {50, 2000}},
	)
	if err != nil {
		t.Fatal(err)
	}

	r := experiment.NewRegistry()
	best, trials, err := g.Search(context.Background(), baseConfig(), "mixing_time", r.DefaultMetrics)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(trials) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(trials))
	}
	if best.Params["temperature_a"] != 2000 || best.Params["temperature_b"] != 2000 {
		t.Errorf("best = %+v, want both gases hot", best)
	}
	if trials[0].Value != best.Value {
		t.Error("trials not sorted best first")
	}
}

func TestGridSearch_UnknownMetric(t *testing.T) {
	g, err := NewGridSearch([]string{"count_a"}, [][]float64{{5}})
	if err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.Frames = 10
	if _, _, err := g.Search(context.Background(), cfg, "nope", experiment.NewRegistry().DefaultMetrics); err == nil {
		t.Error("expected error for uncollected metric")
	}
}

func TestGridSearch_Canceled(t *testing.T) {
	g, err := NewGridSearch([]string{"count_a"}, [][]float64{{5, 10}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, baseConfig(), "mixing", experiment.NewRegistry().DefaultMetrics); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
