// Package orbit propagates Keplerian orbits and samples them into paths.
//
// Angles are in degrees and distances in AU throughout. Positions are
// heliocentric, in the right-handed ecliptic frame of astro.Vec3.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-deflect/internal/astro"
)

// ErrInvalidElements is returned for elements that cannot describe an
// elliptic orbit.
var ErrInvalidElements = errors.New("invalid orbital elements")

// Elements is a set of classical Keplerian elements.
type Elements struct {
	A    float64 `json:"a_au"`     // Semi-major axis (AU, > 0)
	E    float64 `json:"e"`        // Eccentricity, [0, 1)
	I    float64 `json:"i_deg"`    // Inclination
	Node float64 `json:"node_deg"` // Longitude of ascending node (Ω)
	Peri float64 `json:"peri_deg"` // Argument of perihelion (ω)
	M0   float64 `json:"m0_deg"`   // Mean anomaly at J2000
}

// Validate rejects non-finite values, a <= 0 and e outside [0, 1).
func (el Elements) Validate() error {
	if !astro.IsFinite(el.A, el.E, el.I, el.Node, el.Peri, el.M0) {
		return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidElements, el)
	}
	if el.A <= 0 {
		return fmt.Errorf("%w: semi-major axis %g AU must be positive", ErrInvalidElements, el.A)
	}
	if el.E < 0 || el.E >= 1 {
		return fmt.Errorf("%w: eccentricity %g outside [0, 1)", ErrInvalidElements, el.E)
	}
	return nil
}

// MeanMotion returns the mean motion in degrees per day.
func (el Elements) MeanMotion() float64 {
	return astro.GaussMeanMotionDeg / math.Pow(el.A, 1.5)
}

// Period returns the orbital period in days (365.25·a^1.5).
func (el Elements) Period() float64 {
	return astro.DaysPerYear * math.Pow(el.A, 1.5)
}

// Perihelion returns the perihelion distance in AU.
func (el Elements) Perihelion() float64 {
	return el.A * (1 - el.E)
}

// Aphelion returns the aphelion distance in AU.
func (el Elements) Aphelion() float64 {
	return el.A * (1 + el.E)
}

// SecularElements holds mean elements at J2000 and their linear rates per
// Julian century, in the layout of the JPL approximate planetary ephemeris.
type SecularElements struct {
	A0, ADot         float64 // Semi-major axis (AU, AU/cy)
	E0, EDot         float64 // Eccentricity
	I0, IDot         float64 // Inclination (deg, deg/cy)
	L0, LDot         float64 // Mean longitude
	Varpi0, VarpiDot float64 // Longitude of perihelion
	Node0, NodeDot   float64 // Longitude of ascending node
}

// EarthJ2000 is the Earth-Moon barycenter, valid 1800-2050.
var EarthJ2000 = SecularElements{
	A0: 1.00000261, ADot: 0.00000562,
	E0: 0.01671123, EDot: -0.00004392,
	I0: -0.00001531, IDot: -0.01294668,
	L0: 100.46457166, LDot: 35999.37244981,
	Varpi0: 102.93768193, VarpiDot: 0.32327364,
	Node0: 0, NodeDot: 0,
}

// MeanElements are secular elements evaluated at one instant.
type MeanElements struct {
	A, E, I, L, Varpi, Node float64
}

// At extrapolates the elements to T Julian centuries past J2000.
func (s SecularElements) At(T float64) MeanElements {
	return MeanElements{
		A:     s.A0 + s.ADot*T,
		E:     s.E0 + s.EDot*T,
		I:     s.I0 + s.IDot*T,
		L:     s.L0 + s.LDot*T,
		Varpi: s.Varpi0 + s.VarpiDot*T,
		Node:  s.Node0 + s.NodeDot*T,
	}
}

// Osculating returns classical elements at T. Peri is ϖ − Ω and M0 holds the
// mean anomaly L − ϖ at T itself, normalized to (-180, 180].
func (s SecularElements) Osculating(T float64) Elements {
	m := s.At(T)
	return Elements{
		A:    m.A,
		E:    m.E,
		I:    m.I,
		Node: m.Node,
		Peri: m.Varpi - m.Node,
		M0:   astro.NormalizeAngle180(m.L - m.Varpi),
	}
}
