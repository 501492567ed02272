package deflect

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
)

func TestPlanIntercept(t *testing.T) {
	sc := Spacecraft{LaunchJD: testStartJD, MassKg: 1000, VelocityKmS: 6}
	got, err := PlanIntercept(sc, testAsteroid, 50)
	if err != nil {
		t.Fatalf("PlanIntercept() error = %v", err)
	}

	earth := orbit.EarthPositionAt(sc.LaunchJD)
	dist := earth.DistanceTo(orbit.AsteroidPosition(testAsteroid, sc.LaunchJD))
	wantTravel := astro.AUToKm(dist) / 6 / astro.SecondsPerDay

	if math.Abs(got.DistanceAU-dist) > 1e-12 {
		t.Errorf("DistanceAU = %v, want %v", got.DistanceAU, dist)
	}
	if math.Abs(got.TravelDays-math.Max(1, wantTravel)) > 1e-9 {
		t.Errorf("TravelDays = %v, want %v", got.TravelDays, wantTravel)
	}
	if got.ImpactJD != got.LaunchJD+got.TravelDays {
		t.Errorf("ImpactJD = %v, want launch + travel", got.ImpactJD)
	}
	if len(got.Trajectory) != 51 {
		t.Fatalf("len(Trajectory) = %d, want 51", len(got.Trajectory))
	}
	if got.Trajectory[0] != earth {
		t.Errorf("trajectory starts at %v, want Earth %v", got.Trajectory[0], earth)
	}
	target := orbit.AsteroidPosition(testAsteroid, got.ImpactJD)
	if got.Trajectory[50].DistanceTo(target) > 1e-12 {
		t.Errorf("trajectory ends at %v, want %v", got.Trajectory[50], target)
	}
}

func TestPlanInterceptMinimumTravel(t *testing.T) {
	sc := Spacecraft{LaunchJD: testStartJD, VelocityKmS: 1e9}
	got, err := PlanIntercept(sc, testAsteroid, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.TravelDays != MinTravelDays {
		t.Errorf("TravelDays = %v, want %v", got.TravelDays, MinTravelDays)
	}
}

func TestPlanInterceptErrors(t *testing.T) {
	if _, err := PlanIntercept(Spacecraft{LaunchJD: testStartJD}, testAsteroid, 10); !errors.Is(err, ErrNoApproachSpeed) {
		t.Errorf("zero speed: error = %v, want ErrNoApproachSpeed", err)
	}
	if _, err := PlanIntercept(Spacecraft{LaunchJD: testStartJD, VelocityKmS: 6}, orbit.Elements{A: 1, E: 1}, 10); !errors.Is(err, orbit.ErrInvalidElements) {
		t.Errorf("parabolic: error = %v, want ErrInvalidElements", err)
	}
}
