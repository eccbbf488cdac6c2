package metrics

import (
	"fmt"
	"strings"

	"github.com/san-kum/gasmix/internal/gas"
	"gonum.org/v1/gonum/stat"
)

// MeanSpeed tracks the mean speed of one population.
type MeanSpeed struct {
	name   string
	pop    gas.Population
	value  float64
	speeds []float64
}

func NewMeanSpeed(pop gas.Population) *MeanSpeed {
	return &MeanSpeed{name: fmt.Sprintf("speed_%s", strings.ToLower(pop.String())), pop: pop}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(ps []gas.Particle, t float64) {
	m.speeds = m.speeds[:0]
	for _, p := range ps {
		if p.Population == m.pop {
			m.speeds = append(m.speeds, p.Speed())
		}
	}
	if len(m.speeds) == 0 {
		m.value = 0
		return
	}
	m.value = stat.Mean(m.speeds, nil)
}

func (m *MeanSpeed) Value() float64 { return m.value }

func (m *MeanSpeed) Reset() {
	m.value = 0
	m.speeds = m.speeds[:0]
}

// SpeedSpread is the sample standard deviation of every particle's speed.
type SpeedSpread struct {
	name   string
	value  float64
	speeds []float64
}

func NewSpeedSpread() *SpeedSpread {
	return &SpeedSpread{name: "speed_std"}
}

func (s *SpeedSpread) Name() string { return s.name }

func (s *SpeedSpread) Observe(ps []gas.Particle, t float64) {
	s.speeds = s.speeds[:0]
	for _, p := range ps {
		s.speeds = append(s.speeds, p.Speed())
	}
	if len(s.speeds) < 2 {
		s.value = 0
		return
	}
	s.value = stat.StdDev(s.speeds, nil)
}

func (s *SpeedSpread) Value() float64 { return s.value }

func (s *SpeedSpread) Reset() {
	s.value = 0
	s.speeds = s.speeds[:0]
}
