package orbit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/litescript/ls-deflect/internal/astro"
)

// rotZ is the active rotation by deg about the z axis.
func rotZ(deg float64) *mat.Dense {
	c, s := math.Cos(astro.DegToRad(deg)), math.Sin(astro.DegToRad(deg))
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// rotX is the active rotation by deg about the x axis.
func rotX(deg float64) *mat.Dense {
	c, s := math.Cos(astro.DegToRad(deg)), math.Sin(astro.DegToRad(deg))
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// Rotation returns the perifocal-to-ecliptic matrix Rz(Ω)·Rx(i)·Rz(ω).
func Rotation(periDeg, incDeg, nodeDeg float64) *mat.Dense {
	var ni, r mat.Dense
	ni.Mul(rotZ(nodeDeg), rotX(incDeg))
	r.Mul(&ni, rotZ(periDeg))
	return &r
}

// PerifocalToEcliptic rotates orbital-plane coordinates (x' toward
// perihelion, y' 90° ahead in the direction of motion) into the ecliptic frame.
// Earth and asteroids both go through here so their positions are comparable.
func PerifocalToEcliptic(xp, yp, periDeg, incDeg, nodeDeg float64) astro.Vec3 {
	var p mat.VecDense
	p.MulVec(Rotation(periDeg, incDeg, nodeDeg), mat.NewVecDense(3, []float64{xp, yp, 0}))
	return astro.Vec3{X: p.AtVec(0), Y: p.AtVec(1), Z: p.AtVec(2)}
}

// positionAtMeanAnomaly solves Kepler and places the body on its ellipse.
func positionAtMeanAnomaly(el Elements, meanDeg float64) astro.Vec3 {
	E := astro.DegToRad(SolveKepler(meanDeg, el.E, DefaultKeplerTolerance))
	xp := el.A * (math.Cos(E) - el.E)
	yp := el.A * math.Sqrt(1-el.E*el.E) * math.Sin(E)
	return PerifocalToEcliptic(xp, yp, el.Peri, el.I, el.Node)
}

// EarthPosition returns Earth's heliocentric position T Julian centuries
// after J2000, from the secular elements in EarthJ2000.
func EarthPosition(T float64) astro.Vec3 {
	el := EarthJ2000.Osculating(T)
	return positionAtMeanAnomaly(el, el.M0)
}

// EarthPositionAt returns Earth's position at a Julian Date.
func EarthPositionAt(jd float64) astro.Vec3 {
	return EarthPosition(astro.CenturiesSinceJ2000(jd))
}

// MeanAnomalyAt returns M0 + n·(jd − J2000), normalized to (-180, 180].
func MeanAnomalyAt(el Elements, jd float64) float64 {
	return astro.NormalizeAngle180(el.M0 + el.MeanMotion()*(jd-astro.J2000))
}

// AsteroidPosition returns the position at jd of a body with fixed elements
// referenced to J2000.
func AsteroidPosition(el Elements, jd float64) astro.Vec3 {
	return positionAtMeanAnomaly(el, MeanAnomalyAt(el, jd))
}

// Position dispatches on body. Earth ignores el.
func Position(body Body, el Elements, jd float64) astro.Vec3 {
	if body == BodyEarth {
		return EarthPositionAt(jd)
	}
	return AsteroidPosition(el, jd)
}
