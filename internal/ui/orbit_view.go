package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/sim"
)

// Glyphs drawn on the orbit canvas.
const (
	glyphEarthPath    = '·'
	glyphAsteroidPath = '•'
	glyphDeflected    = '∘'
	glyphIntersection = '✕'
	glyphImpact       = '✦'
	glyphSun          = '☉'
	glyphEarth        = '⊕'
	glyphAsteroid     = '◆'
)

// OrbitModel renders a top-down ecliptic view of the Earth and asteroid paths.
type OrbitModel struct {
	width  int
	height int
	report *sim.Report

	zoomLevel     int     // Index into zoomLevels
	panX          float64 // Pan offset in display units
	panY          float64
	scaleMode     astro.ScaleMode
	showDeflected bool
	showLabels    bool
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoomLevel = 3

// NewOrbitModel creates a new orbit view model.
func NewOrbitModel() OrbitModel {
	return OrbitModel{
		zoomLevel:     defaultZoomLevel,
		scaleMode:     astro.ScaleLinear,
		showDeflected: true,
		showLabels:    true,
	}
}

// scale returns the current zoom scale.
func (m OrbitModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrbitModel) SetSize(width, height int) OrbitModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the rendered report.
func (m OrbitModel) UpdateData(rep *sim.Report) OrbitModel {
	m.report = rep
	return m
}

// Update handles input messages.
func (m OrbitModel) Update(msg tea.Msg) (OrbitModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			m.panY -= 0.1 / m.scale()
		case "down":
			m.panY += 0.1 / m.scale()
		case "left":
			m.panX -= 0.1 / m.scale()
		case "right":
			m.panX += 0.1 / m.scale()

		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
			}
		case "0":
			m.zoomLevel = defaultZoomLevel
			m.panX, m.panY = 0, 0

		case "z":
			m.scaleMode = (m.scaleMode + 1) % 3
		case "p":
			m.showDeflected = !m.showDeflected
		case "l":
			m.showLabels = !m.showLabels
		}
	}
	return m, nil
}

// View renders the orbit view.
func (m OrbitModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orbit view"
	}
	if m.report == nil {
		return "No simulation yet"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// canvas is a character grid with the projection used to fill it.
type canvas struct {
	grid         [][]rune
	originX      int
	originY      int
	displayScale float64
	cfg          astro.ProjectionConfig
}

func (c *canvas) project(v astro.Vec3) (int, int, bool) {
	p := astro.ProjectEclipticTopDown(v, c.cfg)
	sx := c.originX + int(math.Round(p.X*c.displayScale))
	sy := c.originY - int(math.Round(p.Y*c.displayScale*0.5)) // Aspect ratio correction
	if sy < 0 || sy >= len(c.grid) || sx < 0 || sx >= len(c.grid[sy]) {
		return 0, 0, false
	}
	return sx, sy, true
}

// plot sets a cell, overwriting only cells whose glyph ranks lower.
func (c *canvas) plot(v astro.Vec3, glyph rune) {
	x, y, ok := c.project(v)
	if !ok {
		return
	}
	if rank(glyph) >= rank(c.grid[y][x]) {
		c.grid[y][x] = glyph
	}
}

func (c *canvas) path(p orbit.Path, glyph rune) {
	for i := 1; i < len(p.Samples); i++ {
		a, b := p.Samples[i-1].Pos, p.Samples[i].Pos
		x0, y0, ok0 := c.project(a)
		x1, y1, ok1 := c.project(b)
		if !ok0 && !ok1 {
			continue
		}
		// Interpolate so adjacent samples join up on screen
		steps := max(abs(x1-x0), abs(y1-y0), 1)
		for s := 0; s <= steps; s++ {
			c.plot(a.Lerp(b, float64(s)/float64(steps)), glyph)
		}
	}
}

func (c *canvas) label(v astro.Vec3, text string) {
	x, y, ok := c.project(v)
	if !ok {
		return
	}
	row := c.grid[y]
	for i, r := range []rune(text) {
		lx := x + 2 + i
		if lx >= len(row) {
			break
		}
		if row[lx] == ' ' || row[lx] == glyphEarthPath {
			row[lx] = r
		}
	}
}

// rank orders glyphs so markers stay visible above path traces.
func rank(r rune) int {
	switch r {
	case ' ':
		return 0
	case glyphEarthPath:
		return 1
	case glyphAsteroidPath:
		return 2
	case glyphDeflected:
		return 3
	case glyphIntersection:
		return 4
	case glyphImpact:
		return 5
	case glyphEarth, glyphAsteroid:
		return 6
	case glyphSun:
		return 7
	default:
		return 1
	}
}

// extent returns the largest heliocentric radius in the report's paths.
func extent(rep *sim.Report) float64 {
	r := 1.0
	grow := func(p orbit.Path) {
		for _, s := range p.Samples {
			r = math.Max(r, math.Hypot(s.Pos.X, s.Pos.Y))
		}
	}
	grow(rep.Earth)
	grow(rep.Asteroid)
	if rep.Deflection != nil {
		grow(rep.Deflection.Deflected)
	}
	return r
}

// buildCanvas renders the paths to a string canvas.
func (m OrbitModel) buildCanvas() string {
	// Reserve space for HUD (3 lines)
	canvasH := max(m.height-5, 5)
	canvasW := m.width

	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", canvasW))
	}

	cfg := astro.ProjectionConfig{
		Scale: m.scale(),
		Mode:  m.scaleMode,
	}
	screenCenterX := canvasW / 2
	screenCenterY := canvasH / 2

	// Fit the widest orbit in the canvas at 1.0x zoom
	fit := astro.ProjectEclipticTopDown(astro.Vec3{X: extent(m.report)}, astro.ProjectionConfig{Scale: 1, Mode: m.scaleMode}).X
	maxDisplayR := float64(min(screenCenterX, screenCenterY*2)) * 0.9
	displayScale := maxDisplayR / fit

	c := &canvas{
		grid:         grid,
		originX:      screenCenterX + int(m.panX*displayScale),
		originY:      screenCenterY - int(m.panY*displayScale*0.5),
		displayScale: displayScale,
		cfg:          cfg,
	}

	rep := m.report
	c.path(rep.Earth, glyphEarthPath)
	c.path(rep.Asteroid, glyphAsteroidPath)
	if d := rep.Deflection; d != nil && m.showDeflected {
		c.path(d.Deflected, glyphDeflected)
		for _, p := range rep.DeflectedIntersections {
			c.plot(p, glyphIntersection)
		}
		if d.ImpactIndex < len(d.Original.Samples) {
			c.plot(d.Original.Samples[d.ImpactIndex].Pos, glyphImpact)
		}
	} else {
		for _, p := range rep.Intersections {
			c.plot(p, glyphIntersection)
		}
	}

	if len(rep.Earth.Samples) > 0 {
		c.plot(rep.Earth.Samples[0].Pos, glyphEarth)
	}
	if len(rep.Asteroid.Samples) > 0 {
		c.plot(rep.Asteroid.Samples[0].Pos, glyphAsteroid)
	}
	c.plot(astro.Vec3{}, glyphSun)

	if m.showLabels {
		if len(rep.Earth.Samples) > 0 {
			c.label(rep.Earth.Samples[0].Pos, "Earth")
		}
		if len(rep.Asteroid.Samples) > 0 {
			name := rep.Scenario.Name
			if name == "" {
				name = "Asteroid"
			}
			c.label(rep.Asteroid.Samples[0].Pos, name)
		}
	}

	return m.renderGrid(grid)
}

func (m OrbitModel) renderGrid(grid [][]rune) string {
	styles := map[rune]lipgloss.Style{
		glyphEarthPath:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		glyphAsteroidPath: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		glyphDeflected:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		glyphIntersection: lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true),
		glyphImpact:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		glyphSun:          lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		glyphEarth:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		glyphAsteroid:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	}
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	var b strings.Builder
	for _, row := range grid {
		for _, ch := range row {
			if ch == ' ' {
				b.WriteRune(ch)
				continue
			}
			style, ok := styles[ch]
			if !ok {
				style = labelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m OrbitModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	rep := m.report
	s := rep.Summarize()

	name := rep.Scenario.Name
	if name == "" {
		name = "Asteroid"
	}
	b.WriteString(headerStyle.Render("◆ " + name))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Crossings: "))
	count := fmt.Sprintf("%d", s.Intersections)
	if s.Intersections > 0 {
		b.WriteString(alertStyle.Render(count))
	} else {
		b.WriteString(valueStyle.Render(count))
	}
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Min distance: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.4f AU", s.MinDistanceAU)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Closest: "))
	b.WriteString(valueStyle.Render(sim.FormatDistanceKm(s.ApproachKm)))
	b.WriteString("\n")

	if s.Deflected {
		b.WriteString(labelStyle.Render("Δv: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3g m/s", s.DeltaVMS)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Divergence: "))
		b.WriteString(valueStyle.Render(sim.FormatDistanceKm(astro.AUToKm(s.MaxDivergenceAU))))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("After: "))
		after := fmt.Sprintf("%d crossings", s.DeflectedIntersections)
		if s.Mitigated {
			b.WriteString(okStyle.Render(after))
		} else {
			b.WriteString(alertStyle.Render(after))
		}
		b.WriteString("  ")
	}

	deflected := "off"
	if m.showDeflected {
		deflected = "on"
	}
	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.scaleMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Deflected path:"))
	b.WriteString(valueStyle.Render(deflected))

	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
