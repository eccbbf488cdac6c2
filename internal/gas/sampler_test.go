package gas

import (
	"math"
	"testing"
)

type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func TestSampler_Direction(t *testing.T) {
	s := NewSampler(NewSource(1))
	for i := 0; i < 1000; i++ {
		d := s.Direction()
		if math.Abs(d.Len()-1) > 1e-12 {
			t.Fatalf("direction %v has length %v, want 1", d, d.Len())
		}
	}
}

func TestSampler_DegenerateDirectionFallsBack(t *testing.T) {
	s := NewSampler(&fixedSource{vals: []float64{0.5}})
	d := s.Direction()
	if d[0] != 1 || d[1] != 0 || d[2] != 0 {
		t.Errorf("Direction() = %v, want +X fallback", d)
	}
}

func TestSampler_DegenerateDirectionResamples(t *testing.T) {
	// first triple is all zeros after centering, second is a clean +Y
	s := NewSampler(&fixedSource{vals: []float64{0.5, 0.5, 0.5, 0.5, 1.0, 0.5}})
	d := s.Direction()
	if math.Abs(d[1]-1) > 1e-12 || d[0] != 0 || d[2] != 0 {
		t.Errorf("Direction() = %v, want +Y", d)
	}
}

func TestSampler_Speed(t *testing.T) {
	tests := []struct {
		name        string
		jitter      float64
		temperature float64
		mass        float64
		want        float64
	}{
		{"mid jitter", 0.5, 400, 1, 0.05 * 20},
		{"low jitter", 0.0, 400, 1, 0.05 * 20 * 0.8},
		{"mass floored", 0.5, 10, 0, 0.05 * 10},
		{"zero temperature", 0.5, 0, 1, 0},
		{"negative temperature", 0.5, -5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(&fixedSource{vals: []float64{tt.jitter}})
			got := s.Speed(tt.temperature, tt.mass)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Speed(%v, %v) = %v, want %v", tt.temperature, tt.mass, got, tt.want)
			}
		})
	}
}

func TestSampler_SampleMagnitudeWithinJitterBand(t *testing.T) {
	s := NewSampler(NewSource(7))
	base := VelocityScale * math.Sqrt(300.0/10.0)
	for i := 0; i < 5000; i++ {
		v := s.Sample(300, 10)
		l := v.Len()
		if l < base*0.8-1e-12 || l > base*1.2+1e-12 {
			t.Fatalf("speed %v outside [%v, %v]", l, base*0.8, base*1.2)
		}
	}
}

func TestSampler_TemperatureScaling(t *testing.T) {
	const draws = 10000
	s := NewSampler(NewSource(42))

	mean := func(temperature float64) float64 {
		sum := 0.0
		for i := 0; i < draws; i++ {
			sum += s.Sample(temperature, 5).Len()
		}
		return sum / draws
	}

	cold, hot := mean(100), mean(400)
	if hot <= cold {
		t.Fatalf("mean speed at T=400 (%v) not above T=100 (%v)", hot, cold)
	}
	if ratio := hot / cold; math.Abs(ratio-2) > 0.05 {
		t.Errorf("speed ratio = %v, want ~2", ratio)
	}
}
