package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
// Positions are in AU in the heliocentric ecliptic frame unless noted.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// DistanceTo returns the Euclidean distance between two points.
func (v Vec3) DistanceTo(u Vec3) float64 {
	return v.Sub(u).Norm()
}

// Lerp interpolates linearly from v (t=0) to u (t=1).
func (v Vec3) Lerp(u Vec3, t float64) Vec3 {
	return v.Add(u.Sub(v).Scale(t))
}

// Midpoint returns the point halfway between v and u.
func (v Vec3) Midpoint(u Vec3) Vec3 {
	return v.Add(u).Scale(0.5)
}

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X float64 // Screen X coordinate (display units)
	Y float64 // Screen Y coordinate (display units)
	R float64 // Original radial distance in AU
	Z float64 // Original Z offset (for ecliptic latitude display)
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLinear keeps distances in AU.
	ScaleLinear ScaleMode = iota

	// ScaleLogR uses logarithmic scaling: r_display = log10(r_AU + 1)
	ScaleLogR

	// ScaleSqrt compresses the outer part of eccentric orbits.
	ScaleSqrt
)

// String returns the short mode name shown in the HUD.
func (m ScaleMode) String() string {
	switch m {
	case ScaleLinear:
		return "Linear"
	case ScaleLogR:
		return "Log"
	case ScaleSqrt:
		return "Sqrt"
	default:
		return "?"
	}
}

// ProjectionConfig configures the top-down ecliptic projection.
type ProjectionConfig struct {
	Scale float64   // Base scale factor
	Mode  ScaleMode // Scaling mode
}

// DefaultProjectionConfig returns a configuration suited to near-Earth orbits.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		Scale: 1.0,
		Mode:  ScaleLinear,
	}
}

// ProjectEclipticTopDown projects a 3D ecliptic vector to 2D screen coordinates.
// The projection is a top-down view with X pointing right (toward vernal equinox)
// and Y pointing up. Z is perpendicular to the ecliptic plane and dropped.
func ProjectEclipticTopDown(v Vec3, cfg ProjectionConfig) ProjectedPoint {
	rAU := math.Sqrt(v.X*v.X + v.Y*v.Y)
	rDisplay := scaleRadius(rAU, cfg.Mode)
	angle := math.Atan2(v.Y, v.X)

	return ProjectedPoint{
		X: rDisplay * math.Cos(angle) * cfg.Scale,
		Y: rDisplay * math.Sin(angle) * cfg.Scale,
		R: v.Norm(),
		Z: v.Z,
	}
}

func scaleRadius(rAU float64, mode ScaleMode) float64 {
	switch mode {
	case ScaleLogR:
		return math.Log10(rAU + 1)
	case ScaleSqrt:
		return math.Sqrt(rAU)
	default:
		return rAU
	}
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return RadToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	return NormalizeAngle360(RadToDeg(math.Atan2(v.Y, v.X)))
}
