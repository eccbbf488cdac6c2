package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/metrics"
)

// Params are the sweepable knobs of an experiment.Config.
var Params = []string{"count_a", "count_b", "temperature_a", "temperature_b", "mass_a", "mass_b"}

// Apply sets the named parameter on cfg.
func Apply(cfg *experiment.Config, name string, v float64) error {
	switch name {
	case "count_a":
		cfg.A.Count = int(math.Round(v))
	case "count_b":
		cfg.B.Count = int(math.Round(v))
	case "temperature_a":
		cfg.A.Temperature = v
	case "temperature_b":
		cfg.B.Temperature = v
	case "mass_a":
		cfg.A.Mass = v
	case "mass_b":
		cfg.B.Mass = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters but %d ranges", len(params), len(ranges))
	}
	probe := experiment.Config{}
	for i, name := range params {
		if err := Apply(&probe, name, 0); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has an empty range", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs one experiment per grid point and returns the point with the
// lowest final value of metricName, plus every trial sorted best first.
func (g *GridSearch) Search(
	ctx context.Context,
	base experiment.Config,
	metricName string,
	newMetrics func() []metrics.Metric,
) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	trials := make([]Trial, 0)

	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), metricName, newMetrics, &best, &trials)
	if err != nil {
		return Trial{}, trials, err
	}
	if best.Params == nil {
		return Trial{}, trials, fmt.Errorf("no trial produced metric %s", metricName)
	}

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Value < trials[j].Value })
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg experiment.Config,
	current map[string]float64,
	metricName string,
	newMetrics func() []metrics.Metric,
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp := experiment.New(cfg)
		if err := exp.Setup(newMetrics()); err != nil {
			return fmt.Errorf("grid point %v: %w", current, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %s not collected", metricName)
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*trials = append(*trials, Trial{Params: params, Value: val})
		if val < best.Value {
			*best = Trial{Params: params, Value: val}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := cfg
		if err := Apply(&next, paramName, val); err != nil {
			return err
		}
		current[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, current, metricName, newMetrics, best, trials); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}
