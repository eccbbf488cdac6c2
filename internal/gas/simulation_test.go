package gas

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	cfgA = PopulationConfig{Count: 50, Temperature: 300, Mass: 10}
	cfgB = PopulationConfig{Count: 30, Temperature: 300, Mass: 20}
)

func newTestSim(seed int64) *Simulation {
	return New(WithSource(NewSource(seed)))
}

func TestSimulation_PopulationCount(t *testing.T) {
	s := newTestSim(1)
	s.Reset(cfgA, cfgB)

	if got := s.Count(PopulationA); got != 50 {
		t.Errorf("Count(A) = %d, want 50", got)
	}
	if got := s.Count(PopulationB); got != 30 {
		t.Errorf("Count(B) = %d, want 30", got)
	}
	if s.Len() != 80 {
		t.Errorf("Len() = %d, want 80", s.Len())
	}
}

func TestSimulation_ResetClearsPrevious(t *testing.T) {
	s := newTestSim(1)
	s.Reset(cfgA, cfgB)
	s.SetRunning(true)
	s.Step(0.1)

	s.Reset(PopulationConfig{Count: 5, Temperature: 100, Mass: 1}, PopulationConfig{Count: 0, Temperature: 100, Mass: 1})
	if s.Len() != 5 {
		t.Errorf("Len() = %d after second reset, want 5", s.Len())
	}
	if s.Running() {
		t.Error("Reset must leave the simulation idle")
	}
	if s.Elapsed() != 0 || s.WallHits() != 0 {
		t.Errorf("Reset left elapsed=%v wallHits=%d", s.Elapsed(), s.WallHits())
	}
}

func TestSimulation_SpawnSeparation(t *testing.T) {
	s := newTestSim(9)
	heavy := PopulationConfig{Count: 400, Temperature: 300, Mass: 100}
	light := PopulationConfig{Count: 400, Temperature: 300, Mass: 1}
	s.Reset(heavy, light)

	margin := 2 * math.Max(s.Radius(PopulationA), s.Radius(PopulationB))
	for i, p := range s.Particles() {
		x := p.Position.X()
		switch p.Population {
		case PopulationA:
			if x > -margin {
				t.Fatalf("particle %d (A) at x=%v crosses partition margin %v", i, x, margin)
			}
		case PopulationB:
			if x < margin {
				t.Fatalf("particle %d (B) at x=%v crosses partition margin %v", i, x, margin)
			}
		}
		for axis := 0; axis < 3; axis++ {
			if math.Abs(p.Position[axis]) > spawnExtent*s.HalfSize() {
				t.Fatalf("particle %d spawned at %v outside the wall margin", i, p.Position)
			}
		}
	}
}

func TestSimulation_RadiusFromMass(t *testing.T) {
	s := newTestSim(1)
	s.Reset(PopulationConfig{Count: 1, Temperature: 1, Mass: 8}, PopulationConfig{Count: 1, Temperature: 1, Mass: 0})

	if got, want := s.Radius(PopulationA), math.Cbrt(8)*RadiusScale; math.Abs(got-want) > 1e-12 {
		t.Errorf("Radius(A) = %v, want %v", got, want)
	}
	if got, want := s.Radius(PopulationB), math.Cbrt(MinMass)*RadiusScale; math.Abs(got-want) > 1e-12 {
		t.Errorf("Radius(B) = %v, want floored %v", got, want)
	}
	for _, p := range s.Particles() {
		if p.Radius != s.Radius(p.Population) {
			t.Errorf("particle radius %v != population radius %v", p.Radius, s.Radius(p.Population))
		}
		if !isFinite(p.Velocity) {
			t.Errorf("non-finite velocity %v", p.Velocity)
		}
	}
}

func TestSimulation_NormalizesBadInput(t *testing.T) {
	s := newTestSim(1)
	s.Reset(PopulationConfig{Count: -3, Temperature: 300, Mass: 1}, PopulationConfig{Count: 4, Temperature: -1, Mass: math.NaN()})

	if s.Count(PopulationA) != 0 {
		t.Errorf("negative count produced %d particles", s.Count(PopulationA))
	}
	for _, p := range s.Particles() {
		if p.Speed() != 0 {
			t.Errorf("non-positive temperature produced speed %v", p.Speed())
		}
		if p.Mass != MinMass {
			t.Errorf("NaN mass not floored: %v", p.Mass)
		}
	}
}

func TestSimulation_IdleStability(t *testing.T) {
	s := newTestSim(2)
	s.Reset(cfgA, cfgB)
	before := s.Particles()

	for i := 0; i < 100; i++ {
		s.Step(0.05)
	}

	after := s.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d changed while idle: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestSimulation_StepIgnoresBadDt(t *testing.T) {
	s := newTestSim(2)
	s.Reset(cfgA, cfgB)
	s.SetRunning(true)
	before := s.Particles()

	for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		s.Step(dt)
	}

	after := s.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d moved on an invalid dt", i)
		}
	}
}

func TestSimulation_StepDeterministic(t *testing.T) {
	s := newTestSim(4)
	s.Reset(PopulationConfig{Count: 1, Temperature: 300, Mass: 10}, PopulationConfig{})
	s.particles[0].Position = mgl64.Vec3{0.5, -0.25, 1}
	s.particles[0].Velocity = mgl64.Vec3{0.1, 0.2, -0.3}
	s.SetRunning(true)

	dt := 1.0 / 60
	p0 := s.particles[0]
	s.Step(dt)

	scaled := dt * SpeedMultiplier
	want := p0.Position.Add(p0.Velocity.Mul(scaled))
	if got := s.particles[0].Position; got != want {
		t.Errorf("position = %v, want %v", got, want)
	}
	if s.Elapsed() != scaled {
		t.Errorf("Elapsed() = %v, want %v", s.Elapsed(), scaled)
	}
}

func TestSimulation_BoundaryContainment(t *testing.T) {
	s := newTestSim(5)
	s.Reset(PopulationConfig{Count: 200, Temperature: 1000, Mass: 0.1}, PopulationConfig{Count: 200, Temperature: 50, Mass: 80})
	s.SetRunning(true)

	const eps = 1e-9
	for frame := 0; frame < 2000; frame++ {
		dt := 0.016
		if frame%97 == 0 {
			dt = 0.5
		}
		s.Step(dt)
		for i, p := range s.particles {
			limit := s.HalfSize() - p.Radius
			for axis := 0; axis < 3; axis++ {
				if math.Abs(p.Position[axis]) > limit+eps {
					t.Fatalf("frame %d particle %d escaped: %v (limit %v)", frame, i, p.Position, limit)
				}
			}
		}
	}
	if s.WallHits() == 0 {
		t.Error("expected wall reflections over 2000 frames")
	}
}

func TestSimulation_SameSeedSameState(t *testing.T) {
	a, b := newTestSim(11), newTestSim(11)
	a.Reset(cfgA, cfgB)
	b.Reset(cfgA, cfgB)

	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs between identically seeded runs", i)
		}
	}
}

func TestSimulation_ParticlesIsCopy(t *testing.T) {
	s := newTestSim(1)
	s.Reset(cfgA, cfgB)

	ps := s.Particles()
	ps[0].Position = mgl64.Vec3{99, 99, 99}
	if s.particles[0].Position == ps[0].Position {
		t.Error("Particles() exposed internal storage")
	}
}

func TestSimulation_Each(t *testing.T) {
	s := newTestSim(1)
	s.Reset(cfgA, cfgB)

	seen := 0
	s.Each(func(p Particle) bool {
		seen++
		return seen < 10
	})
	if seen != 10 {
		t.Errorf("Each visited %d particles, want 10 (early stop)", seen)
	}
}

func TestWithHalfSize(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{8, 8},
		{0, DefaultHalfSize},
		{-2, DefaultHalfSize},
		{math.Inf(1), DefaultHalfSize},
	}
	for _, tt := range tests {
		if got := New(WithHalfSize(tt.in)).HalfSize(); got != tt.want {
			t.Errorf("WithHalfSize(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPopulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  PopulationConfig
		want error
	}{
		{"valid", PopulationConfig{Count: 0, Temperature: 1, Mass: 1}, nil},
		{"negative count", PopulationConfig{Count: -1, Temperature: 1, Mass: 1}, ErrNegativeCount},
		{"zero temperature", PopulationConfig{Count: 1, Temperature: 0, Mass: 1}, ErrNonPositiveTemperature},
		{"NaN temperature", PopulationConfig{Count: 1, Temperature: math.NaN(), Mass: 1}, ErrNonPositiveTemperature},
		{"zero mass", PopulationConfig{Count: 1, Temperature: 1, Mass: 0}, ErrNonPositiveMass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParsePopulation(t *testing.T) {
	for in, want := range map[string]Population{"A": PopulationA, "a": PopulationA, "B": PopulationB, "b": PopulationB} {
		got, err := ParsePopulation(in)
		if err != nil || got != want {
			t.Errorf("ParsePopulation(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePopulation("C"); !errors.Is(err, ErrUnknownPopulation) {
		t.Errorf("ParsePopulation(C) err = %v", err)
	}
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
