package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gasmix/internal/gas"
	"github.com/san-kum/gasmix/internal/metrics"
)

// DefaultMixingThreshold is the mixing index at which mixing_time stops.
const DefaultMixingThreshold = 0.9

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() metrics.Metric),
	}

	r.metrics["mixing"] = func() metrics.Metric { return metrics.NewMixing() }
	r.metrics["mixing_time"] = func() metrics.Metric { return metrics.NewMixingTime(DefaultMixingThreshold) }
	r.metrics["kinetic_energy"] = func() metrics.Metric { return metrics.NewKineticEnergy() }
	r.metrics["energy_drift"] = func() metrics.Metric { return metrics.NewEnergyDrift() }
	r.metrics["speed_a"] = func() metrics.Metric { return metrics.NewMeanSpeed(gas.PopulationA) }
	r.metrics["speed_b"] = func() metrics.Metric { return metrics.NewMeanSpeed(gas.PopulationB) }
	r.metrics["speed_std"] = func() metrics.Metric { return metrics.NewSpeedSpread() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics builds fresh instances for every name, or the defaults when names
// is empty.
func (r *Registry) Metrics(names []string) ([]metrics.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(), nil
	}
	out := make([]metrics.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return []metrics.Metric{
		metrics.NewMixing(),
		metrics.NewMixingTime(DefaultMixingThreshold),
		metrics.NewKineticEnergy(),
		metrics.NewMeanSpeed(gas.PopulationA),
		metrics.NewMeanSpeed(gas.PopulationB),
	}
}
