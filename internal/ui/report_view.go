package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/sim"
)

// ReportModel renders the numeric results of a run.
type ReportModel struct {
	width  int
	height int
	report *sim.Report
}

// NewReportModel creates a new report view model.
func NewReportModel() ReportModel {
	return ReportModel{}
}

// SetSize updates the viewport size.
func (m ReportModel) SetSize(width, height int) ReportModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the rendered report.
func (m ReportModel) UpdateData(rep *sim.Report) ReportModel {
	m.report = rep
	return m
}

// View renders the report view.
func (m ReportModel) View() string {
	if m.report == nil {
		return "No simulation yet"
	}

	rep := m.report
	s := rep.Summarize()
	el := rep.Scenario.Elements

	sections := []string{
		m.renderSection("Asteroid", [][2]string{
			{"Semi-major axis", fmt.Sprintf("%.4f AU", el.A)},
			{"Eccentricity", fmt.Sprintf("%.4f", el.E)},
			{"Inclination", fmt.Sprintf("%.2f°", el.I)},
			{"Period", fmt.Sprintf("%.1f days", el.Period())},
			{"Perihelion", fmt.Sprintf("%.3f AU", el.Perihelion())},
			{"Aphelion", fmt.Sprintf("%.3f AU", el.Aphelion())},
		}),
		m.renderSection("Risk", m.riskRows(s)),
	}
	if s.Deflected {
		sections = append(sections, m.renderSection("Deflection", m.deflectionRows(s)))
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	if width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, sections...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ReportModel) riskRows(s sim.Summary) [][2]string {
	rows := [][2]string{
		{"Start", astro.TimeFromJulian(s.StartJD).Format("2006-01-02")},
		{"Intersections", fmt.Sprintf("%d", s.Intersections)},
	}
	if len(s.Crossings) > 0 {
		rows = append(rows, [2]string{"First crossing", lonLat(s.Crossings[0])})
	}
	rows = append(rows,
		[2]string{"Min path distance", fmt.Sprintf("%.4f AU", s.MinDistanceAU)},
		[2]string{"Closest approach", sim.FormatDistanceKm(s.ApproachKm)},
		[2]string{"Approach date", astro.TimeFromJulian(s.ApproachJD).Format("2006-01-02")},
		[2]string{"Relative speed", fmt.Sprintf("%.2f km/s", s.ImpactSpeedKmS)},
	)
	if m.report.Energy != nil {
		rows = append(rows, [2]string{"Impact energy", sim.FormatMegatons(s.EnergyMt)})
	}
	if s.Collision {
		rows = append(rows, [2]string{"Collision", "YES"})
	}
	return rows
}

// lonLat formats the ecliptic longitude and latitude of p.
func lonLat(p sim.EclipticPoint) string {
	return fmt.Sprintf("λ %.1f° β %+.1f°", p.LonDeg, p.LatDeg)
}

func (m ReportModel) deflectionRows(s sim.Summary) [][2]string {
	rep := m.report
	var rows [][2]string
	if mit := rep.Scenario.Mitigation; mit != nil {
		rows = append(rows,
			[2]string{"Spacecraft mass", fmt.Sprintf("%.0f kg", mit.Spacecraft.MassKg)},
			[2]string{"Impact speed", fmt.Sprintf("%.1f km/s", mit.Spacecraft.VelocityKmS)},
			[2]string{"Beta", fmt.Sprintf("%.2f", mit.Spacecraft.EffectiveBeta())},
		)
	}
	if ic := rep.Intercept; ic != nil {
		rows = append(rows, [2]string{"Transfer", fmt.Sprintf("%.1f days", ic.TravelDays)})
	}
	rows = append(rows, [2]string{"Impact", fmt.Sprintf("#%d %s", rep.Deflection.ImpactIndex, astro.TimeFromJulian(s.ImpactJD).Format("2006-01-02"))})
	if s.ImpactPoint != nil {
		rows = append(rows, [2]string{"Impact point", lonLat(*s.ImpactPoint)})
	}
	rows = append(rows,
		[2]string{"Δv", fmt.Sprintf("%.4g m/s", s.DeltaVMS)},
		[2]string{"Method", rep.Deflection.Mode.String()},
		[2]string{"Max divergence", sim.FormatDistanceKm(astro.AUToKm(s.MaxDivergenceAU))},
		[2]string{"Intersections after", fmt.Sprintf("%d", s.DeflectedIntersections)},
	)
	status := "NOT MITIGATED"
	if s.Mitigated {
		status = "MITIGATED"
	}
	return append(rows, [2]string{"Status", status})
}

func (m ReportModel) renderSection(title string, rows [][2]string) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(20)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("60")).
		Padding(0, 1).
		MarginRight(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
	}
	return boxStyle.Render(b.String())
}
