package risk

import (
	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
)

// Approach is the time-synchronous closest approach of an asteroid to Earth.
type Approach struct {
	JD          float64    `json:"jd"`
	DistanceAU  float64    `json:"distance_au"`
	DistanceKm  float64    `json:"distance_km"`
	Earth       astro.Vec3 `json:"earth_au"`
	Asteroid    astro.Vec3 `json:"asteroid_au"`
	Collision   bool       `json:"collision"`
	SampleIndex int        `json:"sample_index"`
}

// ClosestApproach samples Earth and the asteroid at the same n+1 instants
// over spanDays from startJD and returns the instant of minimum separation.
// Unlike FindIntersections it compares positions at equal times, so two
// orbits that cross with the bodies far apart do not count. Collision is set
// when the separation is below Earth's radius.
func ClosestApproach(el orbit.Elements, startJD, spanDays float64, n int) (Approach, error) {
	earth, err := orbit.SampleSpan(orbit.BodyEarth, el, startJD, spanDays, n)
	if err != nil {
		return Approach{}, err
	}
	ast, err := orbit.SampleSpan(orbit.BodyAsteroid, el, startJD, spanDays, n)
	if err != nil {
		return Approach{}, err
	}
	return closestOf(earth, ast), nil
}

// closestOf assumes both paths are sampled at the same instants.
func closestOf(earth, ast orbit.Path) Approach {
	dist := make([]float64, earth.Len())
	for i := range dist {
		dist[i] = earth.Samples[i].Pos.DistanceTo(ast.Samples[i].Pos)
	}
	i := floats.MinIdx(dist)

	return Approach{
		JD:          earth.Samples[i].JD,
		DistanceAU:  dist[i],
		DistanceKm:  astro.AUToKm(dist[i]),
		Earth:       earth.Samples[i].Pos,
		Asteroid:    ast.Samples[i].Pos,
		Collision:   dist[i] < astro.EarthRadiusAU(),
		SampleIndex: i,
	}
}

// relativeSpeedStep is the half-width in days of the finite difference used
// by RelativeSpeed.
const relativeSpeedStep = 0.5

// RelativeSpeed returns the asteroid's speed relative to Earth at jd in km/s,
// the speed it would strike with if the two met there.
func RelativeSpeed(el orbit.Elements, jd float64) float64 {
	rel := func(t float64) astro.Vec3 {
		return orbit.AsteroidPosition(el, t).Sub(orbit.EarthPositionAt(t))
	}
	v := rel(jd + relativeSpeedStep).Sub(rel(jd - relativeSpeedStep)).Scale(1 / (2 * relativeSpeedStep))
	return astro.AUPerDayToMetersPerSecond(v.Norm()) / 1000
}
