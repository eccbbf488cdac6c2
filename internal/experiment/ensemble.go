package experiment

import (
	"context"
	"sort"
	"sync"

	"github.com/san-kum/gasmix/internal/metrics"
	"gonum.org/v1/gonum/stat"
)

// Ensemble repeats one configuration over consecutive seeds in parallel.
// Every run owns its own Simulation and metric instances.
type Ensemble struct {
	cfg        Config
	numRuns    int
	seedStart  int64
	newMetrics func() []metrics.Metric
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64, newMetrics func() []metrics.Metric) *Ensemble {
	if numRuns < 1 {
		numRuns = 1
	}
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			exp := New(cfgCopy)
			if errs[idx] = exp.Setup(e.newMetrics()); errs[idx] != nil {
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

type Summary struct {
	Name string
	Mean float64
	Std  float64
	Runs int
}

// Summarize reports mean and standard deviation of every final metric.
func Summarize(results []*Result) []Summary {
	values := make(map[string][]float64)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make([]Summary, 0, len(values))
	for name, vs := range values {
		s := Summary{Name: name, Runs: len(vs)}
		if len(vs) > 1 {
			s.Mean, s.Std = stat.MeanStdDev(vs, nil)
		} else {
			s.Mean = vs[0]
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
