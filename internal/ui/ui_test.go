package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/sim"
)

const testStartJD = 2460600.5

var crossingAsteroid = orbit.Elements{A: 1.2, E: 0.3, I: 2, Node: 30, Peri: 60}

func testScenario() sim.Scenario {
	sc := sim.DefaultScenario(crossingAsteroid, testStartJD)
	sc.Name = "Test Rock"
	sc.Samples = 180
	sc.Body = deflect.Body{MassKg: 1e6}
	return sc
}

func mitigatedScenario() sim.Scenario {
	sc := testScenario()
	sc.Mitigation = &sim.Mitigation{
		Spacecraft:  deflect.Spacecraft{LaunchJD: testStartJD, MassKg: 1000, VelocityKmS: 10},
		ImpactIndex: 30,
	}
	return sc
}

func runReport(t *testing.T, sc sim.Scenario) *sim.Report {
	t.Helper()
	rep, err := sim.NewRunner(nil, nil).Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return rep
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(m Model, key string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(key))
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())

	if m.viewMode != ViewOrbit {
		t.Errorf("viewMode = %d, want ViewOrbit", m.viewMode)
	}
	if m.mitigate {
		t.Error("mitigation enabled without a scenario mitigation")
	}
	if !m.computing {
		t.Error("expected computing before the first report")
	}
	if m.Scenario().Mitigation != nil {
		t.Error("Scenario() carries a mitigation while disabled")
	}
	if m.View() != "Initializing..." {
		t.Errorf("View() before size = %q", m.View())
	}

	m = New(context.Background(), sim.NewRunner(nil, nil), mitigatedScenario())
	if !m.mitigate || m.mitigation.ImpactIndex != 30 {
		t.Errorf("mitigation = %+v (enabled %v), want scenario mitigation", m.mitigation, m.mitigate)
	}
}

func TestViewSwitching(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())

	tests := []struct {
		key  string
		want ViewMode
	}{
		{"2", ViewReport},
		{"1", ViewOrbit},
		{"r", ViewReport},
		{"o", ViewOrbit},
		{"tab", ViewReport},
		{"tab", ViewOrbit},
	}
	for _, tt := range tests {
		m, _ = press(m, tt.key)
		if m.viewMode != tt.want {
			t.Errorf("after %q viewMode = %d, want %d", tt.key, m.viewMode, tt.want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())
	for _, key := range []string{"q", "ctrl+c"} {
		_, cmd := press(m, key)
		if cmd == nil {
			t.Fatalf("%q returned no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q did not quit", key)
		}
	}
}

func TestToggleMitigation(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())

	m, cmd := press(m, "d")
	if !m.mitigate {
		t.Fatal("d did not enable mitigation")
	}
	if cmd == nil {
		t.Error("toggling mitigation did not recompute")
	}
	if m.gen != 1 {
		t.Errorf("gen = %d, want 1", m.gen)
	}

	mit := m.Scenario().Mitigation
	if mit == nil {
		t.Fatal("Scenario() has no mitigation")
	}
	if mit.Spacecraft.MassKg != 1000 || mit.Spacecraft.VelocityKmS != 10 || !mit.PlanIntercept {
		t.Errorf("default mitigation = %+v", mit)
	}
	if mit.Spacecraft.LaunchJD != testStartJD {
		t.Errorf("LaunchJD = %v, want %v", mit.Spacecraft.LaunchJD, testStartJD)
	}

	m, _ = press(m, "d")
	if m.mitigate || m.Scenario().Mitigation != nil {
		t.Error("second d did not disable mitigation")
	}
}

func TestParameterKeys(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), mitigatedScenario())

	tests := []struct {
		key   string
		check func(sim.Mitigation) bool
		desc  string
	}{
		{"v", func(x sim.Mitigation) bool { return x.Spacecraft.VelocityKmS == 11 }, "velocity 11"},
		{"V", func(x sim.Mitigation) bool { return x.Spacecraft.VelocityKmS == 10 }, "velocity 10"},
		{"m", func(x sim.Mitigation) bool { return x.Spacecraft.MassKg == 1100 }, "mass 1100"},
		{"M", func(x sim.Mitigation) bool { return x.Spacecraft.MassKg == 1000 }, "mass 1000"},
		{"]", func(x sim.Mitigation) bool { return x.ImpactIndex == 40 }, "impact 40"},
		{"[", func(x sim.Mitigation) bool { return x.ImpactIndex == 30 }, "impact 30"},
		{"c", func(x sim.Mitigation) bool { return x.Mode == deflect.ModeDirect }, "direct mode"},
		{"c", func(x sim.Mitigation) bool { return x.Mode == deflect.ModeCorrected }, "corrected mode"},
		{"i", func(x sim.Mitigation) bool { return x.PlanIntercept }, "planned intercept"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			var cmd tea.Cmd
			m, cmd = press(m, tt.key)
			if !tt.check(m.mitigation) {
				t.Errorf("after %q mitigation = %+v, want %s", tt.key, m.mitigation, tt.desc)
			}
			if cmd == nil {
				t.Errorf("%q did not recompute", tt.key)
			}
		})
	}
}

func TestParameterLimits(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), mitigatedScenario())

	for i := 0; i < 20; i++ {
		m, _ = press(m, "V")
		m, _ = press(m, "M")
		m, _ = press(m, "[")
	}
	if m.mitigation.Spacecraft.VelocityKmS != minVelocityKmS {
		t.Errorf("velocity = %v, want floor %v", m.mitigation.Spacecraft.VelocityKmS, minVelocityKmS)
	}
	if m.mitigation.Spacecraft.MassKg != minMassKg {
		t.Errorf("mass = %v, want floor %v", m.mitigation.Spacecraft.MassKg, minMassKg)
	}
	if m.mitigation.ImpactIndex != 0 {
		t.Errorf("impact index = %d, want 0", m.mitigation.ImpactIndex)
	}

	for i := 0; i < 30; i++ {
		m, _ = press(m, "]")
	}
	if m.mitigation.ImpactIndex != 180 {
		t.Errorf("impact index = %d, want last sample 180", m.mitigation.ImpactIndex)
	}
}

func TestParameterKeysWithoutMitigation(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())

	m, cmd := press(m, "v")
	if cmd != nil {
		t.Error("parameter change recomputed while mitigation is off")
	}
	if m.mitigation.Spacecraft.VelocityKmS != 11 {
		t.Errorf("velocity = %v, want 11", m.mitigation.Spacecraft.VelocityKmS)
	}
	if m.gen != 0 {
		t.Errorf("gen = %d, want 0", m.gen)
	}
}

func TestImpactKeysLeaveIntercept(t *testing.T) {
	sc := mitigatedScenario()
	sc.Mitigation.PlanIntercept = true
	m := New(context.Background(), sim.NewRunner(nil, nil), sc)

	msg := m.runCmd()().(ReportMsg)
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.report == nil || m.report.Deflection == nil {
		t.Fatalf("no deflection after report, err = %v", m.err)
	}
	planned := m.report.Deflection.ImpactIndex

	m, _ = press(m, "]")
	if m.mitigation.PlanIntercept {
		t.Error("] kept intercept planning on")
	}
	if want := min(planned+indexStep, sc.Samples); m.mitigation.ImpactIndex != want {
		t.Errorf("impact index = %d, want %d", m.mitigation.ImpactIndex, want)
	}
}

func TestReportMsg(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = next.(Model)

	msg, ok := m.runCmd()().(ReportMsg)
	if !ok {
		t.Fatal("runCmd did not return a ReportMsg")
	}
	if msg.Err != nil {
		t.Fatalf("run error = %v", msg.Err)
	}

	next, _ = m.Update(msg)
	m = next.(Model)
	if m.computing {
		t.Error("still computing after report")
	}
	if m.Report() != msg.Report {
		t.Error("Report() not updated")
	}
	if m.orbit.report != msg.Report || m.reportView.report != msg.Report {
		t.Error("sub-models not updated")
	}

	view := m.View()
	for _, want := range []string{"[1] Orbit", "[2] Report", "Test Rock", "computed in"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestRunCmdCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, sim.NewRunner(nil, nil), testScenario())
	cancel()

	msg := m.runCmd()().(ReportMsg)
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("runCmd() error = %v, want context.Canceled", msg.Err)
	}
	if msg.Report != nil {
		t.Error("canceled run returned a report")
	}
}

func TestNewNilContext(t *testing.T) {
	m := New(nil, sim.NewRunner(nil, nil), testScenario())
	msg := m.runCmd()().(ReportMsg)
	if msg.Err != nil {
		t.Errorf("runCmd() error = %v", msg.Err)
	}
}

func TestStaleReportDiscarded(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())
	stale := m.runCmd()().(ReportMsg)

	m, _ = press(m, "d")
	next, _ := m.Update(stale)
	m = next.(Model)

	if m.report != nil {
		t.Error("stale report was applied")
	}
	if !m.computing {
		t.Error("stale report cleared computing")
	}
}

func TestReportError(t *testing.T) {
	m := New(context.Background(), sim.NewRunner(nil, nil), testScenario())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = next.(Model)

	boom := errors.New("boom")
	next, _ = m.Update(ReportMsg{Err: boom})
	m = next.(Model)

	if !errors.Is(m.err, boom) {
		t.Errorf("err = %v, want boom", m.err)
	}
	if !strings.Contains(m.View(), "ERROR: boom") {
		t.Error("View() does not show the error")
	}
}

func TestGradientColor(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 0, "#F59E0B"},
		{40, 0, "#F97316"},
	}
	for _, tt := range tests {
		if got := gradientColor(tt.col, tt.row, 80, 6); got != tt.want {
			t.Errorf("gradientColor(%d, %d) = %s, want %s", tt.col, tt.row, got, tt.want)
		}
	}
}
