package risk

import "github.com/litescript/ls-deflect/internal/astro"

// Energy is the kinetic energy an impactor would deliver.
type Energy struct {
	Joules   float64 `json:"joules"`
	Megatons float64 `json:"megatons_tnt"`
}

// ImpactEnergy returns ½·m·v² for a body of massKg arriving at speedKmS.
func ImpactEnergy(massKg, speedKmS float64) Energy {
	v := speedKmS * 1000
	j := 0.5 * massKg * v * v
	return Energy{Joules: j, Megatons: j / astro.MegatonTNTJoules}
}
