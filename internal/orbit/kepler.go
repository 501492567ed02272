package orbit

import (
	"math"

	"github.com/litescript/ls-deflect/internal/astro"
)

// DefaultKeplerTolerance is the convergence threshold on ΔE in degrees.
const DefaultKeplerTolerance = 1e-6

// maxKeplerIterations bounds the Newton loop. Hitting it is not an error.
const maxKeplerIterations = 10

// degPerRad is e* in Kepler's equation written in degrees: M = E − e·(180/π)·sin E.
const degPerRad = 180 / math.Pi

// SolveKepler returns the eccentric anomaly in degrees for a mean anomaly in
// degrees. The mean anomaly is normalized to (-180, 180] first.
//
// The precondition 0 <= e < 1 is not checked. If the iteration cap is reached
// the last estimate is returned; KeplerResidual reports its error.
func SolveKepler(meanDeg, e, tolDeg float64) float64 {
	M := astro.NormalizeAngle180(meanDeg)
	eStar := e * degPerRad

	E := M + eStar*math.Sin(astro.DegToRad(M))
	for i := 0; i < maxKeplerIterations; i++ {
		eRad := astro.DegToRad(E)
		dM := M - (E - eStar*math.Sin(eRad))
		dE := dM / (1 - e*math.Cos(eRad))
		E += dE
		if math.Abs(dE) < tolDeg {
			break
		}
	}
	return E
}

// KeplerResidual returns |M − (E − e·(180/π)·sin E)| in degrees, with M
// normalized the same way SolveKepler normalizes it.
func KeplerResidual(meanDeg, e, eccDeg float64) float64 {
	M := astro.NormalizeAngle180(meanDeg)
	return math.Abs(M - (eccDeg - e*degPerRad*math.Sin(astro.DegToRad(eccDeg))))
}
