package metrics

import (
	"math"

	"github.com/san-kum/gasmix/internal/gas"
)

// KineticEnergy reports the mean ½mv² per particle at the last observation.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []gas.Particle, t float64) {
	e.value = meanKineticEnergy(ps)
}

func (e *KineticEnergy) Value() float64 { return e.value }

func (e *KineticEnergy) Reset() { e.value = 0 }

type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps []gas.Particle, t float64) {
	energy := meanKineticEnergy(ps)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func meanKineticEnergy(ps []gas.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range ps {
		total += p.KineticEnergy()
	}
	return total / float64(len(ps))
}
