package gas

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// maxDirectionDraws bounds the resampling of a degenerate direction before
// falling back to +X.
const maxDirectionDraws = 8

type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Direction returns a unit vector built from three Uniform(-0.5, 0.5) draws.
func (s *Sampler) Direction() mgl64.Vec3 {
	for i := 0; i < maxDirectionDraws; i++ {
		v := mgl64.Vec3{
			s.src.Float64() - 0.5,
			s.src.Float64() - 0.5,
			s.src.Float64() - 0.5,
		}
		if l := v.Len(); l > 0 && !math.IsInf(l, 0) {
			return v.Mul(1 / l)
		}
	}
	return mgl64.Vec3{1, 0, 0}
}

// Speed returns VelocityScale * sqrt(T/m) * U(0.8, 1.2).
func (s *Sampler) Speed(temperature, mass float64) float64 {
	if !(temperature > 0) || math.IsInf(temperature, 0) {
		return 0
	}
	jitter := jitterMin + s.src.Float64()*jitterSpan
	return VelocityScale * math.Sqrt(temperature/FloorMass(mass)) * jitter
}

// Sample draws an initial velocity for a particle of the given temperature and
// mass.
func (s *Sampler) Sample(temperature, mass float64) mgl64.Vec3 {
	dir := s.Direction()
	return dir.Mul(s.Speed(temperature, mass))
}
