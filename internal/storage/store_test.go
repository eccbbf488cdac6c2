package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/gas"
)

func sampleRun() (experiment.Config, *experiment.Result) {
	cfg := experiment.Config{
		A:           gas.PopulationConfig{Count: 1, Temperature: 300, Mass: 10},
		B:           gas.PopulationConfig{Count: 1, Temperature: 100, Mass: 20},
		Dt:          0.01,
		Frames:      2,
		SampleEvery: 1,
		Seed:        42,
	}
	result := &experiment.Result{
		Frames:   2,
		Elapsed:  0.1,
		WallHits: 3,
		Times:    []float64{0, 0.05, 0.1},
		Series: map[string][]float64{
			"mixing":         {0, 0.5, 1},
			"kinetic_energy": {1.5, 1.5, 1.5},
		},
		Metrics: map[string]float64{"mixing": 1, "kinetic_energy": 1.5},
		Particles: []gas.Particle{
			{
				Position:   mgl64.Vec3{-1, 2, 3},
				Velocity:   mgl64.Vec3{0.1, -0.2, 0.3},
				Radius:     0.2154,
				Mass:       10,
				Population: gas.PopulationA,
			},
			{
				Position:   mgl64.Vec3{4, -4, 0.5},
				Velocity:   mgl64.Vec3{-0.01, 0, 0.02},
				Radius:     0.2714,
				Mass:       20,
				Population: gas.PopulationB,
			},
		},
	}
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := sampleRun()
	runID, err := st.Save("test", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" || meta.Seed != 42 || meta.Frames != 2 || meta.WallHits != 3 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.HalfSize != gas.DefaultHalfSize {
		t.Errorf("expected default half size, got %v", meta.HalfSize)
	}
	if meta.GasA.Mass != 10 || meta.GasB.Temperature != 100 {
		t.Errorf("gas metadata mismatch: %+v %+v", meta.GasA, meta.GasB)
	}
	if meta.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected kinetic_energy 1.5, got %f", meta.Metrics["kinetic_energy"])
	}

	times, series, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(times) != 3 || times[2] != 0.1 {
		t.Errorf("times mismatch: %v", times)
	}
	if got := series["mixing"]; len(got) != 3 || got[1] != 0.5 {
		t.Errorf("mixing series mismatch: %v", got)
	}

	ps, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(ps))
	}
	for i := range ps {
		if ps[i] != result.Particles[i] {
			t.Errorf("particle %d: got %+v, want %+v", i, ps[i], result.Particles[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, result := sampleRun()
	first, err := st.Save("same", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("same", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("run ids collided: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg, result := sampleRun()
	runID, err := st.Save("test", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "samples.csv", "particles.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSamples: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadParticles("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadParticles: expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreSaveNilResult(t *testing.T) {
	st := New(t.TempDir())
	cfg, _ := sampleRun()
	if _, err := st.Save("x", cfg, nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	cfg, result := sampleRun()
	runID, err := st.Save("test", cfg, result)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID || data.Samples != 3 {
		t.Errorf("unexpected export header: %+v", data.Run)
	}
	if len(data.Series["kinetic_energy"]) != 3 {
		t.Errorf("series missing from export: %v", data.Series)
	}
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	cfg, result := sampleRun()
	runID, err := st.Save("test", cfg, result)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,kinetic_energy,mixing" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "0.05,1.5,0.5" {
		t.Errorf("unexpected row %q", lines[2])
	}
}
