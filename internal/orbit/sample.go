package orbit

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-deflect/internal/astro"
)

// ErrSampleCount is returned for a non-positive sample count or span.
var ErrSampleCount = errors.New("invalid sampling")

// DefaultSamples is the number of segments a period is divided into.
const DefaultSamples = 360

// EarthPeriodDays is the span sampled for Earth.
const EarthPeriodDays = astro.DaysPerYear

// Body selects which propagator a path uses.
type Body int

const (
	BodyEarth Body = iota
	BodyAsteroid
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case BodyEarth:
		return "earth"
	case BodyAsteroid:
		return "asteroid"
	default:
		return "unknown"
	}
}

// MarshalText encodes the body by name.
func (b Body) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Sample is one point of a path.
type Sample struct {
	JD  float64    `json:"jd"`
	Pos astro.Vec3 `json:"pos_au"`
}

// Path is an ordered sequence of samples at uniform time spacing.
type Path struct {
	Body    Body     `json:"body"`
	Start   float64  `json:"start_jd"`
	Step    float64  `json:"step_days"`
	Samples []Sample `json:"samples"`
}

// Len returns the number of samples.
func (p Path) Len() int {
	return len(p.Samples)
}

// Span returns the time covered, in days.
func (p Path) Span() float64 {
	if len(p.Samples) < 2 {
		return 0
	}
	return p.Samples[len(p.Samples)-1].JD - p.Samples[0].JD
}

// Positions returns the sample positions in order.
func (p Path) Positions() []astro.Vec3 {
	out := make([]astro.Vec3, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Pos
	}
	return out
}

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	c := p
	c.Samples = append([]Sample(nil), p.Samples...)
	return c
}

// DefaultSpan returns one orbital period of body in days.
func DefaultSpan(body Body, el Elements) float64 {
	if body == BodyEarth {
		return EarthPeriodDays
	}
	return el.Period()
}

// SamplePath samples one full period of body starting at startJD into n
// segments (n+1 samples).
func SamplePath(body Body, el Elements, startJD float64, n int) (Path, error) {
	if body != BodyEarth {
		if err := el.Validate(); err != nil {
			return Path{}, err
		}
	}
	return SampleSpan(body, el, startJD, DefaultSpan(body, el), n)
}

// SampleSpan samples spanDays starting at startJD into n segments. The step
// span/n is also the step the deflection integrator uses.
func SampleSpan(body Body, el Elements, startJD, spanDays float64, n int) (Path, error) {
	if n < 1 {
		return Path{}, fmt.Errorf("%w: %d segments", ErrSampleCount, n)
	}
	if !astro.IsFinite(startJD, spanDays) || spanDays <= 0 {
		return Path{}, fmt.Errorf("%w: span %g days from JD %g", ErrSampleCount, spanDays, startJD)
	}
	if body != BodyEarth {
		if err := el.Validate(); err != nil {
			return Path{}, err
		}
	}

	path := Path{
		Body:    body,
		Start:   startJD,
		Step:    spanDays / float64(n),
		Samples: make([]Sample, n+1),
	}
	for i := 0; i <= n; i++ {
		jd := startJD + spanDays*float64(i)/float64(n)
		path.Samples[i] = Sample{JD: jd, Pos: Position(body, el, jd)}
	}
	return path, nil
}
