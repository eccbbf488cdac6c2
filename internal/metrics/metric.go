package metrics

import "github.com/san-kum/gasmix/internal/gas"

// Metric accumulates an observation of the particle collection at simulated
// time t.
type Metric interface {
	Name() string
	Observe(ps []gas.Particle, t float64)
	Value() float64
	Reset()
}

// MixingIndex is 0 while every particle is still in its own half and 1 once
// half of all particles sit on the opposite side of the partition plane.
func MixingIndex(ps []gas.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	crossed := 0
	for _, p := range ps {
		x := p.Position.X()
		if (p.Population == gas.PopulationA && x > 0) || (p.Population == gas.PopulationB && x < 0) {
			crossed++
		}
	}
	idx := 2 * float64(crossed) / float64(len(ps))
	if idx > 1 {
		idx = 1
	}
	return idx
}
