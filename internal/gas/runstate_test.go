package gas_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gasmix/internal/gas"
)

var _ = Describe("Simulation run state", func() {
	var (
		s    *gas.Simulation
		a, b gas.PopulationConfig
	)

	BeforeEach(func() {
		s = gas.New(gas.WithSource(gas.NewSource(21)))
		a = gas.PopulationConfig{Count: 20, Temperature: 300, Mass: 10}
		b = gas.PopulationConfig{Count: 20, Temperature: 600, Mass: 20}
		s.Reset(a, b)
	})

	It("starts idle after reset", func() {
		Expect(s.Running()).To(BeFalse())
		Expect(s.Elapsed()).To(BeZero())
	})

	It("does not move particles while idle", func() {
		before := s.Particles()
		s.Step(0.1)
		Expect(s.Particles()).To(Equal(before))
	})

	Context("when running", func() {
		BeforeEach(func() {
			s.SetRunning(true)
		})

		It("advances particles and simulated time", func() {
			before := s.Particles()
			s.Step(0.1)
			Expect(s.Particles()).NotTo(Equal(before))
			Expect(s.Elapsed()).To(BeNumerically("~", 0.1*gas.SpeedMultiplier, 1e-12))
		})

		It("treats a repeated start as a no-op", func() {
			s.Step(0.1)
			s.SetRunning(true)
			Expect(s.Running()).To(BeTrue())
			Expect(s.Elapsed()).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("stops on pause and keeps the particles where they are", func() {
			s.Step(0.1)
			s.SetRunning(false)
			frozen := s.Particles()
			s.Step(0.1)
			Expect(s.Running()).To(BeFalse())
			Expect(s.Particles()).To(Equal(frozen))
		})

		It("returns to idle on reset", func() {
			s.Step(0.1)
			s.Reset(a, b)
			Expect(s.Running()).To(BeFalse())
			Expect(s.Elapsed()).To(BeZero())
			Expect(s.Count(gas.PopulationA)).To(Equal(20))
			Expect(s.Count(gas.PopulationB)).To(Equal(20))
		})

		It("lets the populations cross the partition plane", func() {
			crossed := false
			for i := 0; i < 3000 && !crossed; i++ {
				s.Step(1.0 / 30)
				s.Each(func(p gas.Particle) bool {
					if p.Population == gas.PopulationA && p.Position.X() > 0 {
						crossed = true
						return false
					}
					return true
				})
			}
			Expect(crossed).To(BeTrue())
		})
	})
})
