package metrics

import "github.com/san-kum/gasmix/internal/gas"

type Mixing struct {
	name  string
	value float64
}

func NewMixing() *Mixing {
	return &Mixing{name: "mixing"}
}

func (m *Mixing) Name() string { return m.name }

func (m *Mixing) Observe(ps []gas.Particle, t float64) {
	m.value = MixingIndex(ps)
}

func (m *Mixing) Value() float64 { return m.value }

func (m *Mixing) Reset() { m.value = 0 }

// MixingTime records the first time the mixing index reaches threshold. Until
// then its value is the last observed time, so a run that never mixes reports
// its own length.
type MixingTime struct {
	name      string
	threshold float64
	reached   bool
	at        float64
	last      float64
}

func NewMixingTime(threshold float64) *MixingTime {
	return &MixingTime{name: "mixing_time", threshold: threshold}
}

func (m *MixingTime) Name() string { return m.name }

func (m *MixingTime) Observe(ps []gas.Particle, t float64) {
	m.last = t
	if m.reached {
		return
	}
	if MixingIndex(ps) >= m.threshold {
		m.reached = true
		m.at = t
	}
}

func (m *MixingTime) Value() float64 {
	if m.reached {
		return m.at
	}
	return m.last
}

func (m *MixingTime) Reached() bool { return m.reached }

func (m *MixingTime) Reset() {
	m.reached = false
	m.at = 0
	m.last = 0
}
