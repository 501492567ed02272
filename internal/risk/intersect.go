// Package risk measures how close two orbit paths come to each other.
package risk

import (
	"math"
	"sort"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
)

// DefaultThresholdAU is the proximity below which two path segments count
// as an intersection.
const DefaultThresholdAU = 0.1

// PointSegmentDistance returns the distance from p to the segment [a, b].
func PointSegmentDistance(p, a, b astro.Vec3) float64 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / den
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(a.Add(ab.Scale(t)))
}

// SegmentDistance approximates the distance between segments [a0, a1] and
// [b0, b1] by projecting each endpoint onto the other segment. Crossing
// interiors are not detected; at orbit sampling densities an endpoint always
// lies close to the crossing.
func SegmentDistance(a0, a1, b0, b1 astro.Vec3) float64 {
	return math.Min(
		math.Min(PointSegmentDistance(a0, b0, b1), PointSegmentDistance(a1, b0, b1)),
		math.Min(PointSegmentDistance(b0, a0, a1), PointSegmentDistance(b1, a0, a1)),
	)
}

// FindIntersections returns the points where paths a and b pass within
// thresholdAU of each other.
//
// Every segment pair closer than the threshold yields a candidate at the
// average of the two segment midpoints. That point lies between the paths
// and is in general on neither of them, so it differs from the midpoint of
// either segment. Candidates are ordered by X, Y, Z
// and reduced greedily: one within thresholdAU/2 of an already kept point
// is dropped. The result does not depend on argument order.
func FindIntersections(a, b []astro.Vec3, thresholdAU float64) []astro.Vec3 {
	if len(a) < 2 || len(b) < 2 || !(thresholdAU > 0) {
		return nil
	}

	var candidates []astro.Vec3
	for i := 0; i+1 < len(a); i++ {
		midA := a[i].Midpoint(a[i+1])
		for j := 0; j+1 < len(b); j++ {
			if SegmentDistance(a[i], a[i+1], b[j], b[j+1]) < thresholdAU {
				candidates = append(candidates, midA.Midpoint(b[j].Midpoint(b[j+1])))
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		p, q := candidates[i], candidates[j]
		if p.X != q.X {
			return p.X < q.X
		}
		if p.Y != q.Y {
			return p.Y < q.Y
		}
		return p.Z < q.Z
	})

	minSep := thresholdAU / 2
	var kept []astro.Vec3
	for _, c := range candidates {
		dup := false
		for _, k := range kept {
			if c.DistanceTo(k) < minSep {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}

// Detect runs FindIntersections on the positions of two sampled paths.
func Detect(a, b orbit.Path, thresholdAU float64) []astro.Vec3 {
	return FindIntersections(a.Positions(), b.Positions(), thresholdAU)
}

// MinPathDistance returns the smallest segment distance between a and b,
// a MOID-like figure for the sampled geometry. It is +Inf when either path
// has fewer than two points.
func MinPathDistance(a, b []astro.Vec3) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if d := SegmentDistance(a[i], a[i+1], b[j], b[j+1]); d < best {
				best = d
			}
		}
	}
	return best
}
