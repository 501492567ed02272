// Package deflect models a kinetic impactor: an impulsive momentum transfer
// to an asteroid followed by two-body re-integration of its path.
package deflect

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-deflect/internal/astro"
)

var (
	// ErrMassUndefined is returned when the asteroid mass is zero, negative
	// or cannot be derived.
	ErrMassUndefined = errors.New("asteroid mass undefined")

	// ErrInvalidSpacecraft is returned for negative or non-finite impactor
	// parameters.
	ErrInvalidSpacecraft = errors.New("invalid spacecraft")
)

// Spacecraft describes the impactor.
type Spacecraft struct {
	LaunchJD    float64 `json:"launch_jd"`
	MassKg      float64 `json:"mass_kg"`
	VelocityKmS float64 `json:"velocity_km_s"` // Approach speed relative to the asteroid
	Beta        float64 `json:"beta"`          // Momentum enhancement; 0 means 1
}

// Validate rejects non-finite values and negative mass, speed or beta.
// A zero mass or speed is valid and transfers no momentum.
func (s Spacecraft) Validate() error {
	if !astro.IsFinite(s.LaunchJD, s.MassKg, s.VelocityKmS, s.Beta) {
		return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidSpacecraft, s)
	}
	if s.MassKg < 0 || s.VelocityKmS < 0 || s.Beta < 0 {
		return fmt.Errorf("%w: mass %g kg, velocity %g km/s, beta %g", ErrInvalidSpacecraft, s.MassKg, s.VelocityKmS, s.Beta)
	}
	return nil
}

// EffectiveBeta returns Beta, or 1 when it is unset.
func (s Spacecraft) EffectiveBeta() float64 {
	if s.Beta == 0 {
		return 1
	}
	return s.Beta
}

// Momentum returns the impactor's linear momentum in kg·m/s.
func (s Spacecraft) Momentum() float64 {
	return s.MassKg * s.VelocityKmS * 1000
}

// Body holds the physical parameters of the asteroid. MassKg wins when set;
// otherwise mass is derived from RadiusKm and DensityGcm3.
type Body struct {
	MassKg      float64 `json:"mass_kg,omitempty"`
	RadiusKm    float64 `json:"radius_km,omitempty"`
	DensityGcm3 float64 `json:"density_g_cm3,omitempty"`
}

// Mass returns the asteroid mass in kg.
func (b Body) Mass() (float64, error) {
	if !astro.IsFinite(b.MassKg, b.RadiusKm, b.DensityGcm3) {
		return 0, fmt.Errorf("%w: non-finite parameters", ErrMassUndefined)
	}
	if b.MassKg > 0 {
		return b.MassKg, nil
	}
	if b.MassKg < 0 {
		return 0, fmt.Errorf("%w: mass %g kg", ErrMassUndefined, b.MassKg)
	}
	if b.RadiusKm <= 0 || b.DensityGcm3 <= 0 {
		return 0, fmt.Errorf("%w: no mass and radius %g km, density %g g/cm³", ErrMassUndefined, b.RadiusKm, b.DensityGcm3)
	}

	r := b.RadiusKm * 1000      // m
	rho := b.DensityGcm3 * 1000 // kg/m³
	return 4.0 / 3.0 * math.Pi * r * r * r * rho, nil
}

// DeltaV returns the speed change in m/s imparted to an asteroid of massKg:
// β·m_sc·v_sc / m_ast.
func DeltaV(sc Spacecraft, massKg float64) (float64, error) {
	if !(massKg > 0) || math.IsInf(massKg, 1) {
		return 0, fmt.Errorf("%w: mass %g kg", ErrMassUndefined, massKg)
	}
	return sc.EffectiveBeta() * sc.Momentum() / massKg, nil
}
