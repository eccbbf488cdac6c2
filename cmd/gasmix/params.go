package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/gasmix/internal/config"
	"github.com/san-kum/gasmix/internal/experiment"
	"github.com/san-kum/gasmix/internal/optim"
	"github.com/spf13/cobra"
)

// flagChanged reports whether name was set on the command line. Commands
// that never registered the flag report false.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// resolveConfig layers defaults, preset, config file and explicit flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flagChanged(cmd, "seed") {
		cfg.Seed = seed
	}
	if flagChanged(cmd, "dt") {
		cfg.Dt = dt
	}
	if flagChanged(cmd, "frames") {
		cfg.Frames = frames
	}
	if flagChanged(cmd, "fps") {
		cfg.FPS = fps
	}
	if flagChanged(cmd, "sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flagChanged(cmd, "theme") {
		cfg.Theme = theme
	}
	if flagChanged(cmd, "count-a") {
		cfg.GasA.Count = countA
	}
	if flagChanged(cmd, "count-b") {
		cfg.GasB.Count = countB
	}
	if flagChanged(cmd, "temp-a") {
		cfg.GasA.Temperature = tempA
	}
	if flagChanged(cmd, "temp-b") {
		cfg.GasB.Temperature = tempB
	}
	if flagChanged(cmd, "mass-a") {
		cfg.GasA.Mass = massA
	}
	if flagChanged(cmd, "mass-b") {
		cfg.GasB.Mass = massB
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func experimentConfig(cfg *config.Config) experiment.Config {
	a, b := cfg.Populations()
	return experiment.Config{
		A:           a,
		B:           b,
		Dt:          cfg.Dt,
		Frames:      cfg.Frames,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
	}
}

// parseSweepParams turns "name=v1,v2,..." specs into grid axes.
func parseSweepParams(specs []string) ([]string, [][]float64, error) {
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("at least one --param is required (e.g. temperature_a=100,300,900)")
	}

	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid --param %q: want name=v1,v2", spec)
		}
		if seen[name] {
			return nil, nil, fmt.Errorf("parameter %s given twice", name)
		}
		seen[name] = true

		var vals []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			vals = append(vals, v)
		}

		names = append(names, name)
		ranges = append(ranges, vals)
	}

	if _, err := optim.NewGridSearch(names, ranges); err != nil {
		return nil, nil, err
	}
	return names, ranges, nil
}
