package deflect

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
)

var (
	// ErrImpactIndex is returned when the impact lies outside the path.
	ErrImpactIndex = errors.New("impact outside path")

	// ErrDegenerateTangent is returned when the path does not move around
	// the impact sample, so the impulse has no direction.
	ErrDegenerateTangent = errors.New("zero velocity at impact")

	// ErrPathTooShort is returned for paths without at least two samples.
	ErrPathTooShort = errors.New("path too short")
)

// Mode selects how the post-impact path is built.
type Mode int

const (
	// ModeCorrected integrates the perturbed and the unperturbed state side
	// by side and adds their difference to the Keplerian samples. The
	// integrator's own truncation error cancels, leaving only the effect of
	// the impulse.
	ModeCorrected Mode = iota

	// ModeDirect reports the integrated perturbed positions as they are.
	ModeDirect
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCorrected:
		return "corrected"
	case ModeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode parses a mode name. The empty string is ModeCorrected.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "corrected":
		return ModeCorrected, nil
	case "direct":
		return ModeDirect, nil
	default:
		return 0, fmt.Errorf("unknown deflection mode %q", s)
	}
}

// Params configures one deflection.
type Params struct {
	Spacecraft Spacecraft
	Asteroid   Body

	// ImpactJD, when set, places the impact at the sample nearest the
	// asteroid's position at that time. Otherwise ImpactIndex is used.
	ImpactJD    *float64
	ImpactIndex int

	Mode Mode
}

// Result is the outcome of Simulate. Original is not modified.
type Result struct {
	Original        orbit.Path `json:"original"`
	Deflected       orbit.Path `json:"deflected"`
	ImpactIndex     int        `json:"impact_index"`
	ImpactJD        float64    `json:"impact_jd"`
	DeltaVMS        float64    `json:"delta_v_m_s"`
	DeltaV          astro.Vec3 `json:"delta_v_au_day"`
	Mode            Mode       `json:"mode"`
	MaxDivergenceAU float64    `json:"max_divergence_au"`
}

// Divergence returns the per-sample distance between the two paths.
func (r *Result) Divergence() []float64 {
	return Divergence(r.Original, r.Deflected)
}

// Simulate applies the impulse described by p to the asteroid on path and
// re-integrates the samples after the impact under solar gravity, stepping
// at the path's own time spacing. el must be the elements path was sampled
// from; it is used to locate Params.ImpactJD.
//
// The deflected path has the same length and times as path and is identical
// to it up to and including the impact index. A zero Δv returns an exact
// copy.
func Simulate(path orbit.Path, el orbit.Elements, p Params) (*Result, error) {
	if path.Len() < 2 {
		return nil, fmt.Errorf("%w: %d samples", ErrPathTooShort, path.Len())
	}
	if err := p.Spacecraft.Validate(); err != nil {
		return nil, err
	}
	mass, err := p.Asteroid.Mass()
	if err != nil {
		return nil, err
	}
	idx, err := impactIndex(path, el, p)
	if err != nil {
		return nil, err
	}
	vel, err := Velocity(path, idx)
	if err != nil {
		return nil, err
	}
	tangent := vel.Normalized()
	if tangent == (astro.Vec3{}) {
		return nil, fmt.Errorf("%w: sample %d", ErrDegenerateTangent, idx)
	}
	dvMS, err := DeltaV(p.Spacecraft, mass)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Original:    path,
		Deflected:   path.Clone(),
		ImpactIndex: idx,
		ImpactJD:    path.Samples[idx].JD,
		DeltaVMS:    dvMS,
		Mode:        p.Mode,
	}
	if dvMS == 0 {
		return res, nil
	}

	dv := tangent.Scale(astro.MetersPerSecondToAUPerDay(dvMS))
	res.DeltaV = dv

	dt := step(path)
	mu := astro.MuSun()
	remaining := path.Len() - 1 - idx
	impact := path.Samples[idx].Pos
	kicked := Integrate(State{Pos: impact, Vel: vel.Add(dv)}, dt, remaining, mu)

	switch p.Mode {
	case ModeDirect:
		for i, pos := range kicked {
			res.Deflected.Samples[idx+1+i].Pos = pos
		}
	default:
		free := Integrate(State{Pos: impact, Vel: vel}, dt, remaining, mu)
		for i := range kicked {
			j := idx + 1 + i
			res.Deflected.Samples[j].Pos = path.Samples[j].Pos.Add(kicked[i].Sub(free[i]))
		}
	}

	res.MaxDivergenceAU = floats.Max(res.Divergence())
	return res, nil
}

// step returns the integration step: path.Step, or the mean sample spacing
// for paths built without one.
func step(path orbit.Path) float64 {
	if path.Step > 0 {
		return path.Step
	}
	return path.Span() / float64(path.Len()-1)
}

func impactIndex(path orbit.Path, el orbit.Elements, p Params) (int, error) {
	if p.ImpactJD == nil {
		if p.ImpactIndex < 0 || p.ImpactIndex >= path.Len() {
			return 0, fmt.Errorf("%w: index %d of %d", ErrImpactIndex, p.ImpactIndex, path.Len())
		}
		return p.ImpactIndex, nil
	}

	jd := *p.ImpactJD
	first, last := path.Samples[0].JD, path.Samples[path.Len()-1].JD
	if !astro.IsFinite(jd) || jd < first || jd > last {
		return 0, fmt.Errorf("%w: JD %.3f not in [%.3f, %.3f]", ErrImpactIndex, jd, first, last)
	}
	if err := el.Validate(); err != nil {
		return 0, err
	}
	return NearestIndex(path, orbit.AsteroidPosition(el, jd)), nil
}

// NearestIndex returns the index of the sample closest to pos.
func NearestIndex(path orbit.Path, pos astro.Vec3) int {
	dist := make([]float64, path.Len())
	for i, s := range path.Samples {
		dist[i] = s.Pos.DistanceTo(pos)
	}
	return floats.MinIdx(dist)
}

// Velocity estimates the path velocity at sample i in AU/day by central
// difference of its neighbours, one-sided at either end.
func Velocity(path orbit.Path, i int) (astro.Vec3, error) {
	n := path.Len()
	if n < 2 {
		return astro.Vec3{}, fmt.Errorf("%w: %d samples", ErrPathTooShort, n)
	}
	if i < 0 || i >= n {
		return astro.Vec3{}, fmt.Errorf("%w: index %d of %d", ErrImpactIndex, i, n)
	}

	lo, hi := max(i-1, 0), min(i+1, n-1)
	dt := path.Samples[hi].JD - path.Samples[lo].JD
	if dt <= 0 {
		return astro.Vec3{}, fmt.Errorf("%w: samples %d and %d share a time", ErrDegenerateTangent, lo, hi)
	}
	return path.Samples[hi].Pos.Sub(path.Samples[lo].Pos).Scale(1 / dt), nil
}

// Divergence returns |a_i − b_i| for each common index.
func Divergence(a, b orbit.Path) []float64 {
	n := min(a.Len(), b.Len())
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.Samples[i].Pos.DistanceTo(b.Samples[i].Pos)
	}
	return out
}
