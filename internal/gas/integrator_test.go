package gas

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAdvance_FreeFlight(t *testing.T) {
	p := Particle{
		Position: mgl64.Vec3{0.25, -1.5, 3},
		Velocity: mgl64.Vec3{0.3, 0.1, -0.7},
		Radius:   0.2,
	}
	dt := 0.016
	want := mgl64.Vec3{
		0.25 + 0.3*dt,
		-1.5 + 0.1*dt,
		3 + -0.7*dt,
	}

	if hits := Advance(&p, 5, dt); hits != 0 {
		t.Errorf("hits = %d, want 0", hits)
	}
	if p.Position != want {
		t.Errorf("position = %v, want %v", p.Position, want)
	}
	if p.Velocity != (mgl64.Vec3{0.3, 0.1, -0.7}) {
		t.Errorf("velocity changed: %v", p.Velocity)
	}
}

func TestAdvance_Reflection(t *testing.T) {
	half, radius := 5.0, 0.2
	limit := half - radius

	tests := []struct {
		name    string
		pos     mgl64.Vec3
		vel     mgl64.Vec3
		axis    int
		wantPos float64
	}{
		{"+x wall", mgl64.Vec3{limit + 0.01, 0, 0}, mgl64.Vec3{0.5, 0, 0}, 0, limit},
		{"-x wall", mgl64.Vec3{-limit - 0.01, 0, 0}, mgl64.Vec3{-0.5, 0, 0}, 0, -limit},
		{"+y wall", mgl64.Vec3{0, limit, 0}, mgl64.Vec3{0, 0.5, 0}, 1, limit},
		{"-z wall", mgl64.Vec3{0, 0, -limit}, mgl64.Vec3{0, 0, -2}, 2, -limit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Position: tt.pos, Velocity: tt.vel, Radius: radius}
			before := tt.vel[tt.axis]

			hits := Advance(&p, half, 0.1)
			if hits != 1 {
				t.Errorf("hits = %d, want 1", hits)
			}
			if p.Position[tt.axis] != tt.wantPos {
				t.Errorf("position[%d] = %v, want %v", tt.axis, p.Position[tt.axis], tt.wantPos)
			}
			if p.Velocity[tt.axis] != -before {
				t.Errorf("velocity[%d] = %v, want %v", tt.axis, p.Velocity[tt.axis], -before)
			}
		})
	}
}

func TestAdvance_Corner(t *testing.T) {
	half, radius := 5.0, 0.1
	limit := half - radius
	p := Particle{
		Position: mgl64.Vec3{limit, -limit, limit},
		Velocity: mgl64.Vec3{1, -1, 1},
		Radius:   radius,
	}

	if hits := Advance(&p, half, 0.5); hits != 3 {
		t.Fatalf("hits = %d, want 3", hits)
	}
	if p.Position != (mgl64.Vec3{limit, -limit, limit}) {
		t.Errorf("position = %v, want clamped corner", p.Position)
	}
	if p.Velocity != (mgl64.Vec3{-1, 1, -1}) {
		t.Errorf("velocity = %v, want all components flipped", p.Velocity)
	}
}

func TestAdvance_TunnelingStillClamped(t *testing.T) {
	half, radius := 5.0, 0.3
	p := Particle{Velocity: mgl64.Vec3{1000, 0, 0}, Radius: radius}
	Advance(&p, half, 1)
	if want := half - radius; p.Position[0] != want {
		t.Errorf("position.x = %v, want %v", p.Position[0], want)
	}
	if p.Velocity[0] != -1000 {
		t.Errorf("velocity.x = %v, want -1000", p.Velocity[0])
	}
}

func TestAdvance_PreservesSpeed(t *testing.T) {
	src := NewSource(3)
	s := NewSampler(src)
	for i := 0; i < 200; i++ {
		p := Particle{Velocity: s.Sample(500, 1), Radius: 0.15}
		speed := p.Speed()
		for j := 0; j < 100; j++ {
			Advance(&p, 5, 0.5)
		}
		if math.Abs(p.Speed()-speed) > 1e-12 {
			t.Fatalf("speed drifted from %v to %v", speed, p.Speed())
		}
	}
}
