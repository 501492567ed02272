package deflect

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
)

// ErrNoApproachSpeed is returned when the spacecraft has no approach speed
// to plan a transfer with.
var ErrNoApproachSpeed = errors.New("spacecraft velocity must be positive")

// MinTravelDays bounds the transfer time from below.
const MinTravelDays = 1.0

// Intercept is a straight-line transfer from Earth to the asteroid.
type Intercept struct {
	LaunchJD   float64      `json:"launch_jd"`
	ImpactJD   float64      `json:"impact_jd"`
	TravelDays float64      `json:"travel_days"`
	DistanceAU float64      `json:"distance_au"`
	Trajectory []astro.Vec3 `json:"trajectory_au"`
}

// PlanIntercept estimates when a spacecraft launched from Earth at
// sc.LaunchJD reaches the asteroid. The travel time is the launch-time
// Earth-asteroid distance at sc.VelocityKmS, at least MinTravelDays.
// Trajectory holds n+1 points on the line from Earth at launch to the
// asteroid at impact.
func PlanIntercept(sc Spacecraft, el orbit.Elements, n int) (Intercept, error) {
	if !(sc.VelocityKmS > 0) || math.IsInf(sc.VelocityKmS, 1) {
		return Intercept{}, fmt.Errorf("%w: %g km/s", ErrNoApproachSpeed, sc.VelocityKmS)
	}
	if !astro.IsFinite(sc.LaunchJD) {
		return Intercept{}, fmt.Errorf("launch JD %g is not finite", sc.LaunchJD)
	}
	if err := el.Validate(); err != nil {
		return Intercept{}, err
	}
	if n < 1 {
		n = 1
	}

	earth := orbit.EarthPositionAt(sc.LaunchJD)
	dist := earth.DistanceTo(orbit.AsteroidPosition(el, sc.LaunchJD))
	travel := math.Max(MinTravelDays, astro.AUToKm(dist)/sc.VelocityKmS/astro.SecondsPerDay)
	impact := sc.LaunchJD + travel
	target := orbit.AsteroidPosition(el, impact)

	traj := make([]astro.Vec3, n+1)
	for i := range traj {
		traj[i] = earth.Lerp(target, float64(i)/float64(n))
	}

	return Intercept{
		LaunchJD:   sc.LaunchJD,
		ImpactJD:   impact,
		TravelDays: travel,
		DistanceAU: dist,
		Trajectory: traj,
	}, nil
}
