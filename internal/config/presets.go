package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"hot-cold": {
		Dt: DefaultDt, Frames: DefaultFrames, FPS: DefaultFPS, SampleEvery: DefaultSampleEvery, Theme: "fire-ice",
		GasA: GasConfig{Count: 100, Temperature: 900, Mass: 10},
		GasB: GasConfig{Count: 100, Temperature: 100, Mass: 10},
	},
	"light-heavy": {
		Dt: DefaultDt, Frames: DefaultFrames, FPS: DefaultFPS, SampleEvery: DefaultSampleEvery, Theme: "ocean",
		GasA: GasConfig{Count: 100, Temperature: 300, Mass: 1},
		GasB: GasConfig{Count: 100, Temperature: 300, Mass: 50},
	},
	"lopsided": {
		Dt: DefaultDt, Frames: DefaultFrames, FPS: DefaultFPS, SampleEvery: DefaultSampleEvery, Theme: DefaultTheme,
		GasA: GasConfig{Count: 250, Temperature: 300, Mass: 10},
		GasB: GasConfig{Count: 25, Temperature: 300, Mass: 20},
	},
	"sparse": {
		Dt: DefaultDt, Frames: 1800, FPS: DefaultFPS, SampleEvery: 5, Theme: "minimal",
		GasA: GasConfig{Count: 10, Temperature: 500, Mass: 5},
		GasB: GasConfig{Count: 10, Temperature: 500, Mass: 5},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
