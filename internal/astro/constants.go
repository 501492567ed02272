// Package astro holds the physical constants, vector type and time
// conversions shared by the propagation, risk and deflection packages.
package astro

import "math"

// Physical constants. Every computation in the module takes its units from here.
const (
	// G is the Newtonian constant of gravitation in m³ kg⁻¹ s⁻².
	G = 6.67430e-11

	// SunMassKg is the solar mass in kilograms.
	SunMassKg = 1.98847e30

	// AUMeters is the astronomical unit in meters (IAU 2012).
	AUMeters = 1.495978707e11

	// AU is the astronomical unit in kilometers.
	AU = AUMeters / 1000

	// SecondsPerDay is the length of a day in SI seconds.
	SecondsPerDay = 86400.0

	// EarthRadiusKm is Earth's mean radius.
	EarthRadiusKm = 6371.0

	// MegatonTNTJoules is the energy of one megaton of TNT.
	MegatonTNTJoules = 4.184e15
)

// Time constants.
const (
	// J2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
	J2000 = 2451545.0

	// DaysPerCentury is the length of a Julian century in days.
	DaysPerCentury = 36525.0

	// DaysPerYear is the length of a Julian year in days.
	DaysPerYear = 365.25
)

// GaussMeanMotionDeg is the mean motion in degrees per day of a body with
// a = 1 AU around the Sun. Mean motion scales as a^-1.5.
const GaussMeanMotionDeg = 0.9856076686

// MuSun returns the Sun's gravitational parameter in AU³/day².
func MuSun() float64 {
	return G * SunMassKg * SecondsPerDay * SecondsPerDay / (AUMeters * AUMeters * AUMeters)
}

// MetersPerSecondToAUPerDay converts a speed in m/s to AU/day.
func MetersPerSecondToAUPerDay(v float64) float64 {
	return v * SecondsPerDay / AUMeters
}

// AUPerDayToMetersPerSecond converts a speed in AU/day to m/s.
func AUPerDayToMetersPerSecond(v float64) float64 {
	return v * AUMeters / SecondsPerDay
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}

// EarthRadiusAU returns Earth's mean radius in AU.
func EarthRadiusAU() float64 {
	return KmToAU(EarthRadiusKm)
}

// IsFinite reports whether all values are neither NaN nor infinite.
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
