package gas

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Simulation owns the particle collection, the run state and the box.
type Simulation struct {
	halfSize  float64
	particles []Particle
	radii     [len(Populations)]float64
	configs   [len(Populations)]PopulationConfig
	running   bool
	elapsed   float64
	wallHits  int

	src     Source
	sampler *Sampler
	log     Logger
}

type Option func(*Simulation)

// WithHalfSize sets the half edge length of the box. Non-positive or
// non-finite values are ignored.
func WithHalfSize(h float64) Option {
	return func(s *Simulation) {
		if h > 0 && !math.IsInf(h, 0) {
			s.halfSize = h
		}
	}
}

func WithSource(src Source) Option {
	return func(s *Simulation) {
		if src != nil {
			s.src = src
		}
	}
}

func WithLogger(l Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Simulation {
	s := &Simulation{
		halfSize: DefaultHalfSize,
		log:      NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = NewSource(time.Now().UnixNano())
	}
	s.sampler = NewSampler(s.src)
	for _, p := range Populations {
		s.radii[p] = RadiusForMass(MinMass)
	}
	return s
}

// Reset discards every particle, stops the run and repopulates both gases.
func (s *Simulation) Reset(a, b PopulationConfig) {
	s.particles = s.particles[:0]
	s.running = false
	s.elapsed = 0
	s.wallHits = 0

	cfgs := [len(Populations)]PopulationConfig{a.normalized(), b.normalized()}
	for _, p := range Populations {
		s.configs[p] = cfgs[p]
		s.radii[p] = RadiusForMass(cfgs[p].Mass)
	}

	if n := cfgs[PopulationA].Count + cfgs[PopulationB].Count; cap(s.particles) < n {
		s.particles = make([]Particle, 0, n)
	}
	for _, p := range Populations {
		s.Populate(p, cfgs[p])
	}
	s.log.Infof("reset: %d×A (T=%.1f m=%.2f r=%.3f), %d×B (T=%.1f m=%.2f r=%.3f)",
		cfgs[PopulationA].Count, cfgs[PopulationA].Temperature, cfgs[PopulationA].Mass, s.radii[PopulationA],
		cfgs[PopulationB].Count, cfgs[PopulationB].Temperature, cfgs[PopulationB].Mass, s.radii[PopulationB])
}

// Populate appends cfg.Count particles of pop, spawned in pop's half of the
// box and kept clear of the partition plane by twice the largest radius.
func (s *Simulation) Populate(pop Population, cfg PopulationConfig) {
	if int(pop) >= len(Populations) {
		s.log.Warnf("populate: ignoring unknown population %v", pop)
		return
	}
	cfg = cfg.normalized()
	radius := RadiusForMass(cfg.Mass)
	s.radii[pop] = radius
	s.configs[pop] = cfg

	margin := 2 * math.Max(s.radii[PopulationA], s.radii[PopulationB])
	extent := math.Min(spawnExtent*s.halfSize, s.halfSize-radius)
	if extent < 0 {
		extent = 0
	}
	lo, hi := margin, extent
	if lo > hi {
		lo = hi
	}

	side := pop.side()
	for i := 0; i < cfg.Count; i++ {
		pos := mgl64.Vec3{
			side * uniform(s.src, lo, hi),
			uniform(s.src, -extent, extent),
			uniform(s.src, -extent, extent),
		}
		s.particles = append(s.particles, Particle{
			Position:   pos,
			Velocity:   s.sampler.Sample(cfg.Temperature, cfg.Mass),
			Radius:     radius,
			Mass:       cfg.Mass,
			Population: pop,
		})
	}
	s.log.Debugf("populate: %d particles of %s in x∈±[%.3f, %.3f]", cfg.Count, pop, lo, hi)
}

// SetRunning starts or stops time evolution. Starting is what lifts the
// partition; the engine never models it as a wall.
func (s *Simulation) SetRunning(running bool) {
	if s.running == running {
		return
	}
	s.running = running
	s.log.Debugf("running=%v at t=%.3f", running, s.elapsed)
}

func (s *Simulation) Running() bool { return s.running }

// Step advances every particle by dt*SpeedMultiplier. It does nothing while
// idle or for a non-positive or non-finite dt.
func (s *Simulation) Step(dt float64) {
	if !s.running || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	scaled := dt * SpeedMultiplier
	for i := range s.particles {
		s.wallHits += Advance(&s.particles[i], s.halfSize, scaled)
	}
	s.elapsed += scaled
}

// Particles returns a copy of the current particle collection.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Each calls fn with every particle in order until fn returns false.
func (s *Simulation) Each(fn func(Particle) bool) {
	for _, p := range s.particles {
		if !fn(p) {
			return
		}
	}
}

func (s *Simulation) Len() int { return len(s.particles) }

// Count returns the number of particles belonging to pop.
func (s *Simulation) Count(pop Population) int {
	n := 0
	for _, p := range s.particles {
		if p.Population == pop {
			n++
		}
	}
	return n
}

// Radius returns the radius currently assigned to pop.
func (s *Simulation) Radius(pop Population) float64 {
	if int(pop) >= len(Populations) {
		return 0
	}
	return s.radii[pop]
}

// Config returns the normalized config pop was last populated with.
func (s *Simulation) Config(pop Population) PopulationConfig {
	if int(pop) >= len(Populations) {
		return PopulationConfig{}
	}
	return s.configs[pop]
}

func (s *Simulation) HalfSize() float64 { return s.halfSize }

// Elapsed is the simulated time since the last Reset, in scaled units.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// WallHits counts axis reflections since the last Reset.
func (s *Simulation) WallHits() int { return s.wallHits }
