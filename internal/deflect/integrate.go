package deflect

import (
	"github.com/litescript/ls-deflect/internal/astro"
)

// State is a heliocentric position (AU) and velocity (AU/day).
type State struct {
	Pos astro.Vec3
	Vel astro.Vec3
}

// Acceleration returns the two-body acceleration −μ·r/|r|³ in AU/day².
// At the origin it is zero.
func Acceleration(r astro.Vec3, mu float64) astro.Vec3 {
	d := r.Norm()
	if d == 0 {
		return astro.Vec3{}
	}
	return r.Scale(-mu / (d * d * d))
}

// Step advances s by dt days with velocity Verlet.
func Step(s State, dt, mu float64) State {
	a0 := Acceleration(s.Pos, mu)
	pos := s.Pos.Add(s.Vel.Scale(dt)).Add(a0.Scale(0.5 * dt * dt))
	a1 := Acceleration(pos, mu)
	return State{
		Pos: pos,
		Vel: s.Vel.Add(a0.Add(a1).Scale(0.5 * dt)),
	}
}

// Integrate takes steps Verlet steps from s and returns the position after
// each one.
func Integrate(s State, dt float64, steps int, mu float64) []astro.Vec3 {
	if steps <= 0 {
		return nil
	}
	out := make([]astro.Vec3, steps)
	for i := range out {
		s = Step(s, dt, mu)
		out[i] = s.Pos
	}
	return out
}
