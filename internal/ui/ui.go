// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/sim"
	"github.com/litescript/ls-deflect/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrbit ViewMode = iota
	ViewReport
)

// Parameter steps for the interactive controls.
const (
	velocityStepKmS = 1.0
	massStepKg      = 100.0
	indexStep       = 10
	minVelocityKmS  = 1.0
	minMassKg       = 100.0
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// ReportMsg carries the result of a simulation run.
	ReportMsg struct {
		Report *sim.Report
		Err    error
		gen    int
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// ctx bounds every simulation run started by the model.
	ctx      context.Context
	runner   *sim.Runner
	scenario sim.Scenario

	// Mitigation parameters are kept while mitigation is toggled off.
	mitigation sim.Mitigation
	mitigate   bool

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Results; gen discards runs superseded by a later parameter change
	report    *sim.Report
	err       error
	computing bool
	gen       int

	orbit      OrbitModel
	reportView ReportModel
}

// New creates a new root UI model for sc. Runs are cancelled with ctx; a
// nil ctx means context.Background().
func New(ctx context.Context, runner *sim.Runner, sc sim.Scenario) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:        ctx,
		runner:     runner,
		scenario:   sc,
		mitigation: DefaultMitigation(sc),
		viewMode:   ViewOrbit,
		computing:  true,
		orbit:      NewOrbitModel(),
		reportView: NewReportModel(),
	}
	if sc.Mitigation != nil {
		m.mitigation = *sc.Mitigation
		m.mitigate = true
	}
	return m
}

// DefaultMitigation is a 1000 kg impactor at 10 km/s launched at the
// scenario start with a planned intercept.
func DefaultMitigation(sc sim.Scenario) sim.Mitigation {
	return sim.Mitigation{
		Spacecraft: deflect.Spacecraft{
			LaunchJD:    sc.StartJD,
			MassKg:      1000,
			VelocityKmS: 10,
			Beta:        1,
		},
		PlanIntercept: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(animTickCmd(), m.runCmd())
}

// Scenario returns the scenario with the current interactive parameters.
func (m Model) Scenario() sim.Scenario {
	sc := m.scenario
	sc.Mitigation = nil
	if m.mitigate {
		mit := m.mitigation
		sc.Mitigation = &mit
	}
	return sc
}

// Report returns the most recent completed report.
func (m Model) Report() *sim.Report {
	return m.report
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "o":
			m.viewMode = ViewOrbit
		case "2", "r":
			m.viewMode = ViewReport
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "d":
			m.mitigate = !m.mitigate
			cmds = append(cmds, m.recompute())
		case "c":
			if m.mitigation.Mode == deflect.ModeCorrected {
				m.mitigation.Mode = deflect.ModeDirect
			} else {
				m.mitigation.Mode = deflect.ModeCorrected
			}
			cmds = append(cmds, m.recomputeIfMitigating())
		case "v":
			m.mitigation.Spacecraft.VelocityKmS += velocityStepKmS
			cmds = append(cmds, m.recomputeIfMitigating())
		case "V":
			m.mitigation.Spacecraft.VelocityKmS = max(m.mitigation.Spacecraft.VelocityKmS-velocityStepKmS, minVelocityKmS)
			cmds = append(cmds, m.recomputeIfMitigating())
		case "m":
			m.mitigation.Spacecraft.MassKg += massStepKg
			cmds = append(cmds, m.recomputeIfMitigating())
		case "M":
			m.mitigation.Spacecraft.MassKg = max(m.mitigation.Spacecraft.MassKg-massStepKg, minMassKg)
			cmds = append(cmds, m.recomputeIfMitigating())
		case "]":
			m.shiftImpact(indexStep)
			cmds = append(cmds, m.recomputeIfMitigating())
		case "[":
			m.shiftImpact(-indexStep)
			cmds = append(cmds, m.recomputeIfMitigating())
		case "i":
			m.mitigation.PlanIntercept = !m.mitigation.PlanIntercept
			cmds = append(cmds, m.recomputeIfMitigating())

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~9 lines, footer ~2 lines
		contentHeight := msg.Height - 12
		m.orbit = m.orbit.SetSize(msg.Width, contentHeight)
		m.reportView = m.reportView.SetSize(msg.Width, contentHeight)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case ReportMsg:
		if msg.gen != m.gen {
			break
		}
		m.computing = false
		m.err = msg.Err
		if msg.Err == nil {
			m.report = msg.Report
			m.orbit = m.orbit.UpdateData(msg.Report)
			m.reportView = m.reportView.UpdateData(msg.Report)
			m.statusMsg = fmt.Sprintf("computed in %s", msg.Report.Elapsed.Round(time.Millisecond))
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// shiftImpact moves the impact sample and switches off intercept planning.
func (m *Model) shiftImpact(delta int) {
	idx := m.mitigation.ImpactIndex
	if m.mitigation.PlanIntercept && m.report != nil && m.report.Deflection != nil {
		idx = m.report.Deflection.ImpactIndex
	}
	m.mitigation.PlanIntercept = false
	m.mitigation.ImpactIndex = min(max(idx+delta, 0), m.scenario.Samples)
}

func (m *Model) recomputeIfMitigating() tea.Cmd {
	if !m.mitigate {
		return nil
	}
	return m.recompute()
}

// recompute starts a new run and invalidates any run in flight.
func (m *Model) recompute() tea.Cmd {
	m.gen++
	m.computing = true
	return m.runCmd()
}

func (m Model) runCmd() tea.Cmd {
	ctx, runner, sc, gen := m.ctx, m.runner, m.Scenario(), m.gen
	return func() tea.Msg {
		rep, err := runner.Run(ctx, sc)
		return ReportMsg{Report: rep, Err: err, gen: gen}
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrbit:
		m.orbit, cmd = m.orbit.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrbit:
		content = m.orbit.View()
	case ViewReport:
		content = m.reportView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ██████╗ ███████╗███████╗██╗     ███████╗ ██████╗████████╗`,
		`  ██║     ██╔════╝      ██╔══██╗██╔════╝██╔════╝██║     ██╔════╝██╔════╝╚══██╔══╝`,
		`  ██║     ███████╗█████╗██║  ██║█████╗  █████╗  ██║     █████╗  ██║        ██║   `,
		`  ██║     ╚════██║╚════╝██║  ██║██╔══╝  ██╔══╝  ██║     ██╔══╝  ██║        ██║   `,
		`  ███████╗███████║      ██████╔╝███████╗██║     ███████╗███████╗╚██████╗   ██║   `,
		`  ╚══════╝╚══════╝      ╚═════╝ ╚══════╝╚═╝     ╚══════╝╚══════╝ ╚═════╝   ╚═╝   `,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Asteroid Risk · Kinetic Impactor Deflection | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Orange at the left fading to red, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Amber (#F59E0B) -> Orange (#F97316) -> Red (#E84A27)
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 245 + t*(249-245)
		g = 158 + t*(115-158)
		b = 11 + t*(22-11)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 249 + t*(232-249)
		g = 115 + t*(74-115)
		b = 22 + t*(39-22)
	}

	brightness := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int {
		return min(max(int(v*brightness), 0), 255)
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orbit", "[2] Report"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.computing:
		status = accentStyle.Render(spinner) + dimStyle.Render(" computing…")
	case m.err != nil:
		status = errorStyle.Render("ERROR: " + m.err.Error())
	default:
		status = dimStyle.Render(m.statusMsg)
	}

	params := "mitigation off"
	if m.mitigate {
		sc := m.mitigation.Spacecraft
		impact := "auto"
		if !m.mitigation.PlanIntercept {
			impact = fmt.Sprintf("#%d", m.mitigation.ImpactIndex)
		}
		params = fmt.Sprintf("%.0f kg @ %.1f km/s · impact %s · %s", sc.MassKg, sc.VelocityKmS, impact, m.mitigation.Mode)
	}

	var help string
	switch m.viewMode {
	case ViewOrbit:
		help = "+/-: zoom | arrows: pan | z: scale | p: deflected | l: labels"
	default:
		help = "tab: switch view"
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + valueStyle.Render(params) + "\n" +
		"  " + dimStyle.Render("d: mitigate | v/V: speed | m/M: mass | [/]: impact | i: auto impact | c: method | "+help)
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
