package gas

import "errors"

// Input contract violations reported by PopulationConfig.Validate.
var (
	ErrNegativeCount          = errors.New("gas: particle count must be non-negative")
	ErrNonPositiveTemperature = errors.New("gas: temperature must be positive")
	ErrNonPositiveMass        = errors.New("gas: mass must be positive")
	ErrUnknownPopulation      = errors.New("gas: unknown population")
)
