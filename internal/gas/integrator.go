package gas

// Advance moves p by its velocity over dt and reflects it off any wall of a
// box with the given half size. Each axis is handled on its own: a component
// past halfSize-radius is clamped back onto the boundary and its velocity
// negated. It returns the number of axes reflected.
func Advance(p *Particle, halfSize, dt float64) int {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))

	limit := halfSize - p.Radius
	hits := 0
	for axis := 0; axis < 3; axis++ {
		x := p.Position[axis]
		if x > limit || -x > limit {
			if x < 0 {
				p.Position[axis] = -limit
			} else {
				p.Position[axis] = limit
			}
			p.Velocity[axis] = -p.Velocity[axis]
			hits++
		}
	}
	return hits
}
