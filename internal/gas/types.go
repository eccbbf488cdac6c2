package gas

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultHalfSize = 5.0
	VelocityScale   = 0.05
	SpeedMultiplier = 5.0
	MinMass         = 0.1
	RadiusScale     = 0.1

	// spawnExtent keeps freshly spawned particles off the walls.
	spawnExtent = 0.95
	jitterMin   = 0.8
	jitterSpan  = 0.4
)

// Population tags which gas species a particle belongs to.
type Population uint8

const (
	PopulationA Population = iota
	PopulationB
)

// Populations lists every population in spawn order.
var Populations = [...]Population{PopulationA, PopulationB}

func (p Population) String() string {
	switch p {
	case PopulationA:
		return "A"
	case PopulationB:
		return "B"
	default:
		return fmt.Sprintf("Population(%d)", uint8(p))
	}
}

// ParsePopulation accepts "A"/"B" in either case.
func ParsePopulation(s string) (Population, error) {
	switch s {
	case "A", "a":
		return PopulationA, nil
	case "B", "b":
		return PopulationB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPopulation, s)
}

// side is -1 for the population spawned in the negative X half, +1 otherwise.
func (p Population) side() float64 {
	if p == PopulationA {
		return -1
	}
	return 1
}

type Particle struct {
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Radius     float64
	Mass       float64
	Population Population
}

// Speed returns the magnitude of the particle's velocity.
func (p Particle) Speed() float64 { return p.Velocity.Len() }

// KineticEnergy returns ½·m·|v|².
func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
}

// PopulationConfig is the per-gas input supplied at reset time.
type PopulationConfig struct {
	Count       int
	Temperature float64
	Mass        float64
}

// Validate reports the first contract violation in c. The engine itself never
// requires a valid config: Reset normalizes whatever it is given.
func (c PopulationConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, c.Count)
	}
	if !(c.Temperature > 0) || math.IsInf(c.Temperature, 0) {
		return fmt.Errorf("%w: %v", ErrNonPositiveTemperature, c.Temperature)
	}
	if !(c.Mass > 0) || math.IsInf(c.Mass, 0) {
		return fmt.Errorf("%w: %v", ErrNonPositiveMass, c.Mass)
	}
	return nil
}

func (c PopulationConfig) normalized() PopulationConfig {
	if c.Count < 0 {
		c.Count = 0
	}
	if !(c.Temperature > 0) || math.IsInf(c.Temperature, 0) {
		c.Temperature = 0
	}
	c.Mass = FloorMass(c.Mass)
	return c
}

// FloorMass clamps mass to MinMass so the velocity scale stays finite.
func FloorMass(m float64) float64 {
	if !(m >= MinMass) || math.IsInf(m, 0) {
		return MinMass
	}
	return m
}

// RadiusForMass derives the particle radius from its (floored) mass.
func RadiusForMass(m float64) float64 {
	return math.Cbrt(FloorMass(m)) * RadiusScale
}
