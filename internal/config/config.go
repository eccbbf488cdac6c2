package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/gasmix/internal/gas"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultFrames      = 3600
	DefaultFPS         = 30
	DefaultSampleEvery = 10
	DefaultCount       = 100
	DefaultTemperature = 300.0
	DefaultMassA       = 10.0
	DefaultMassB       = 20.0
	DefaultTheme       = "cyberpunk"
)

var (
	ErrInvalidDt     = errors.New("config: dt must be positive")
	ErrInvalidFrames = errors.New("config: frames must be positive")
	ErrInvalidFPS    = errors.New("config: fps must be positive")
)

type Config struct {
	Seed        int64     `yaml:"seed"`
	Dt          float64   `yaml:"dt"`
	Frames      int       `yaml:"frames"`
	FPS         int       `yaml:"fps"`
	SampleEvery int       `yaml:"sample_every"`
	Theme       string    `yaml:"theme"`
	GasA        GasConfig `yaml:"gas_a"`
	GasB        GasConfig `yaml:"gas_b"`
}

type GasConfig struct {
	Count       int     `yaml:"count"`
	Temperature float64 `yaml:"temperature"`
	Mass        float64 `yaml:"mass"`
}

func (g GasConfig) Population() gas.PopulationConfig {
	return gas.PopulationConfig{Count: g.Count, Temperature: g.Temperature, Mass: g.Mass}
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		Frames:      DefaultFrames,
		FPS:         DefaultFPS,
		SampleEvery: DefaultSampleEvery,
		Theme:       DefaultTheme,
		GasA:        GasConfig{Count: DefaultCount, Temperature: DefaultTemperature, Mass: DefaultMassA},
		GasB:        GasConfig{Count: DefaultCount, Temperature: DefaultTemperature, Mass: DefaultMassB},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters and both gas configs.
func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidDt, c.Dt)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidFrames, c.Frames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidFPS, c.FPS)
	}
	if err := c.GasA.Population().Validate(); err != nil {
		return fmt.Errorf("gas_a: %w", err)
	}
	if err := c.GasB.Population().Validate(); err != nil {
		return fmt.Errorf("gas_b: %w", err)
	}
	return nil
}

// Populations returns the engine inputs for gas A and gas B.
func (c *Config) Populations() (gas.PopulationConfig, gas.PopulationConfig) {
	return c.GasA.Population(), c.GasB.Population()
}
