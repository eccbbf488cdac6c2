// Package gas implements the kinetic engine behind the two-gas mixing box.
//
// Two populations of particles ([PopulationA], [PopulationB]) start in opposite
// halves of a cubic box and drift freely once the partition is lifted:
//
//   - [Particle]: kinematic state of one particle
//   - [Sampler]: initial velocity from a temperature and mass
//   - [Simulation]: owns the particles and the run state; Reset/Populate/Step
//   - [Advance]: explicit Euler step with clamp-and-flip wall reflection
//
// # Example
//
//	s := gas.New(gas.WithSource(gas.NewSource(42)))
//	s.Reset(gas.PopulationConfig{Count: 50, Temperature: 300, Mass: 10},
//		gas.PopulationConfig{Count: 30, Temperature: 300, Mass: 20})
//	s.SetRunning(true)
//	for range frames {
//		s.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// Simulation instances are NOT goroutine-safe. A host that renders on a
// different goroutine must own the Simulation from a single loop and hand out
// snapshots from [Simulation.Particles].
package gas
