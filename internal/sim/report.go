package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/risk"
)

// Report is the result of one Runner.Run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Scenario    Scenario  `json:"scenario"`

	Earth         orbit.Path   `json:"earth_path"`
	Asteroid      orbit.Path   `json:"asteroid_path"`
	Intersections []astro.Vec3 `json:"intersections"`
	MinDistanceAU float64      `json:"min_path_distance_au"`

	Approach       risk.Approach `json:"closest_approach"`
	ImpactSpeedKmS float64       `json:"impact_speed_km_s"`
	Energy         *risk.Energy  `json:"impact_energy,omitempty"`

	Intercept              *deflect.Intercept `json:"intercept,omitempty"`
	Deflection             *deflect.Result    `json:"deflection,omitempty"`
	DeflectedIntersections []astro.Vec3       `json:"deflected_intersections,omitempty"`
	DeflectedMinDistanceAU float64            `json:"deflected_min_path_distance_au,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Mitigated reports whether the deflection removed every intersection.
func (r *Report) Mitigated() bool {
	return r.Deflection != nil && len(r.Intersections) > 0 && len(r.DeflectedIntersections) == 0
}

// EclipticPoint is a heliocentric position in ecliptic coordinates.
type EclipticPoint struct {
	LonDeg float64 `json:"lon_deg"`
	LatDeg float64 `json:"lat_deg"`
	RAU    float64 `json:"r_au"`
}

func eclipticPoint(v astro.Vec3) EclipticPoint {
	return EclipticPoint{
		LonDeg: astro.EclipticLongitude(v),
		LatDeg: astro.EclipticLatitude(v),
		RAU:    v.Norm(),
	}
}

// String formats p as longitude, latitude and distance.
func (p EclipticPoint) String() string {
	return fmt.Sprintf("λ %.2f° β %+.2f° r %.3f AU", p.LonDeg, p.LatDeg, p.RAU)
}

// ImpactPoint returns where the spacecraft strikes the asteroid, or false
// without a deflection.
func (r *Report) ImpactPoint() (EclipticPoint, bool) {
	d := r.Deflection
	if d == nil || d.ImpactIndex < 0 || d.ImpactIndex >= d.Original.Len() {
		return EclipticPoint{}, false
	}
	return eclipticPoint(d.Original.Samples[d.ImpactIndex].Pos), true
}

// Crossings returns the intersection points in ecliptic coordinates.
func (r *Report) Crossings() []EclipticPoint {
	if len(r.Intersections) == 0 {
		return nil
	}
	pts := make([]EclipticPoint, len(r.Intersections))
	for i, v := range r.Intersections {
		pts[i] = eclipticPoint(v)
	}
	return pts
}

// Summary is the path-free view of a report used by the text output and
// the compact JSON form.
type Summary struct {
	StartJD       float64         `json:"start_jd"`
	StartTime     time.Time       `json:"start_time"`
	Intersections int             `json:"intersections"`
	Crossings     []EclipticPoint `json:"crossings,omitempty"`
	MinDistanceAU float64         `json:"min_path_distance_au"`

	ApproachJD     float64 `json:"closest_approach_jd"`
	ApproachKm     float64 `json:"closest_approach_km"`
	Collision      bool    `json:"collision"`
	ImpactSpeedKmS float64 `json:"impact_speed_km_s"`
	EnergyMt       float64 `json:"impact_energy_mt,omitempty"`

	Deflected              bool           `json:"deflected"`
	ImpactJD               float64        `json:"impact_jd,omitempty"`
	ImpactPoint            *EclipticPoint `json:"impact_point,omitempty"`
	DeltaVMS               float64        `json:"delta_v_m_s,omitempty"`
	MaxDivergenceAU        float64        `json:"max_divergence_au,omitempty"`
	DeflectedIntersections int            `json:"deflected_intersections"`
	Mitigated              bool           `json:"mitigated"`
}

// Summarize extracts the summary of r.
func (r *Report) Summarize() Summary {
	s := Summary{
		StartJD:        r.Scenario.StartJD,
		StartTime:      astro.TimeFromJulian(r.Scenario.StartJD),
		Intersections:  len(r.Intersections),
		Crossings:      r.Crossings(),
		MinDistanceAU:  r.MinDistanceAU,
		ApproachJD:     r.Approach.JD,
		ApproachKm:     r.Approach.DistanceKm,
		Collision:      r.Approach.Collision,
		ImpactSpeedKmS: r.ImpactSpeedKmS,
		Mitigated:      r.Mitigated(),
	}
	if r.Energy != nil {
		s.EnergyMt = r.Energy.Megatons
	}
	if d := r.Deflection; d != nil {
		s.Deflected = true
		s.ImpactJD = d.ImpactJD
		if p, ok := r.ImpactPoint(); ok {
			s.ImpactPoint = &p
		}
		s.DeltaVMS = d.DeltaVMS
		s.MaxDivergenceAU = d.MaxDivergenceAU
		s.DeflectedIntersections = len(r.DeflectedIntersections)
	}
	return s
}

// WriteJSON writes the full report, paths included, as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteSummaryJSON writes only the summary as indented JSON.
func (r *Report) WriteSummaryJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Summarize())
}

// maxTableCrossings caps the crossing rows in the summary table.
const maxTableCrossings = 5

// WriteSummaryTable writes a human-readable summary.
func (r *Report) WriteSummaryTable(w io.Writer) {
	s := r.Summarize()
	el := r.Scenario.Elements

	title := "Asteroid"
	if r.Scenario.Name != "" {
		title = r.Scenario.Name
	}
	fmt.Fprintf(w, "%s @ %s (JD %.3f)\n", title, s.StartTime.Format(time.RFC3339), s.StartJD)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "a=%.4f AU  e=%.4f  i=%.2f°  Ω=%.2f°  ω=%.2f°  M0=%.2f°\n",
		el.A, el.E, el.I, el.Node, el.Peri, el.M0)
	fmt.Fprintf(w, "Period %.1f days, q=%.3f AU, Q=%.3f AU\n", el.Period(), el.Perihelion(), el.Aphelion())
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-26s %d (threshold %.3f AU)\n", "Intersections", s.Intersections, r.Scenario.ThresholdAU)
	for i, p := range s.Crossings {
		if i == maxTableCrossings {
			fmt.Fprintf(w, "  … %d more\n", len(s.Crossings)-i)
			break
		}
		fmt.Fprintf(w, "%-26s %s\n", fmt.Sprintf("  crossing %d", i+1), p)
	}
	fmt.Fprintf(w, "%-26s %.4f AU\n", "Min path distance", s.MinDistanceAU)
	fmt.Fprintf(w, "%-26s %s at %s\n", "Closest approach", FormatDistanceKm(s.ApproachKm),
		astro.TimeFromJulian(s.ApproachJD).Format("2006-01-02"))
	fmt.Fprintf(w, "%-26s %.2f km/s\n", "Relative speed", s.ImpactSpeedKmS)
	if r.Energy != nil {
		fmt.Fprintf(w, "%-26s %.3g J (%s)\n", "Impact energy", r.Energy.Joules, FormatMegatons(s.EnergyMt))
	}
	if s.Collision {
		fmt.Fprintf(w, "%-26s %s\n", "Collision", "YES")
	}

	if !s.Deflected {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
	d := r.Deflection
	if ic := r.Intercept; ic != nil {
		fmt.Fprintf(w, "%-26s %.1f days (%.3f AU)\n", "Transfer", ic.TravelDays, ic.DistanceAU)
	}
	fmt.Fprintf(w, "%-26s sample %d, %s\n", "Impact", d.ImpactIndex, astro.TimeFromJulian(d.ImpactJD).Format("2006-01-02"))
	if s.ImpactPoint != nil {
		fmt.Fprintf(w, "%-26s %s\n", "Impact point", s.ImpactPoint)
	}
	fmt.Fprintf(w, "%-26s %.4g m/s (%s)\n", "Δv", d.DeltaVMS, d.Mode)
	fmt.Fprintf(w, "%-26s %.4g AU (%s)\n", "Max divergence", d.MaxDivergenceAU, FormatDistanceKm(astro.AUToKm(d.MaxDivergenceAU)))
	fmt.Fprintf(w, "%-26s %d, min distance %.4f AU\n", "Intersections after", s.DeflectedIntersections, r.DeflectedMinDistanceAU)
	if s.Mitigated {
		fmt.Fprintln(w, "\nMitigated: no intersections remain")
	}
}

// FormatDistanceKm formats a distance in km with a unit suited to its size.
func FormatDistanceKm(km float64) string {
	switch {
	case km >= 0.01*astro.AU:
		return fmt.Sprintf("%.3f AU", km/astro.AU)
	case km >= 1e6:
		return fmt.Sprintf("%.2fM km", km/1e6)
	case km >= 1000:
		return fmt.Sprintf("%.0f km", km)
	default:
		return fmt.Sprintf("%.1f km", km)
	}
}

// FormatMegatons formats an energy in megatons of TNT.
func FormatMegatons(mt float64) string {
	switch {
	case mt >= 1000:
		return fmt.Sprintf("%.3g Gt", mt/1000)
	case mt >= 1:
		return fmt.Sprintf("%.3g Mt", mt)
	default:
		return fmt.Sprintf("%.3g kt", mt*1000)
	}
}
