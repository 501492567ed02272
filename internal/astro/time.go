package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// JulianDate returns the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulian converts a Julian Date back to a UTC time.
func TimeFromJulian(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// CenturiesSinceJ2000 returns Julian centuries elapsed since J2000.0.
func CenturiesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// NormalizeAngle180 maps an angle in degrees to (-180, 180].
func NormalizeAngle180(a float64) float64 {
	a = math.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// NormalizeAngle360 normalizes an angle to 0-360 degrees.
func NormalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// a tiny negative a rounds up to exactly 360
	if a >= 360 {
		a = 0
	}
	return a
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
