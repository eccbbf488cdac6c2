package gas

import "math/rand/v2"

// Source supplies uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed source for the given seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
