package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/orbit"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	want := orbit.Elements{A: 1.458, E: 0.2228, I: 10.83, Node: 304.27, Peri: 178.93, M0: 310.55}
	if got := c.Asteroid.Elements(); got != want {
		t.Errorf("Elements() = %+v, want %+v", got, want)
	}
	if c.Simulation.Samples != 360 || c.Simulation.ThresholdAU != 0.1 {
		t.Errorf("sampling = %d / %v, want 360 / 0.1", c.Simulation.Samples, c.Simulation.ThresholdAU)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *c != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", c)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
asteroid:
  name: Crossing
  a_au: 1.2
  e: 0.3
  i_deg: 2
  node_deg: 30
  peri_deg: 60
  m0_deg: 0
  mass_kg: 0
  radius_km: 0.25
  density_g_cm3: 2
spacecraft:
  enabled: true
  velocity_kms: 10
  impact_index: 45
  mode: direct
simulation:
  start_jd: 2460600.5
  samples: 180
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Asteroid.Name != "Crossing" || c.Asteroid.A != 1.2 || c.Asteroid.E != 0.3 {
		t.Errorf("asteroid = %+v", c.Asteroid)
	}
	if c.Simulation.Samples != 180 {
		t.Errorf("Samples = %d, want 180", c.Simulation.Samples)
	}
	// Unset keys keep their defaults.
	if c.Spacecraft.MassKg != 1000 || c.Simulation.ThresholdAU != 0.1 {
		t.Errorf("defaults lost: mass %v, threshold %v", c.Spacecraft.MassKg, c.Simulation.ThresholdAU)
	}

	sc, err := c.Scenario(time.Now())
	if err != nil {
		t.Fatalf("Scenario() error = %v", err)
	}
	if sc.StartJD != 2460600.5 {
		t.Errorf("StartJD = %v, want 2460600.5", sc.StartJD)
	}
	m := sc.Mitigation
	if m == nil {
		t.Fatal("Mitigation = nil")
	}
	if m.PlanIntercept || m.ImpactIndex != 45 || m.Mode != deflect.ModeDirect {
		t.Errorf("mitigation = %+v", m)
	}
	if mass, err := sc.Body.Mass(); err != nil || mass <= 0 {
		t.Errorf("Body.Mass() = %v, %v", mass, err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "scenario.toml", `
[simulation]
threshold_au = 0.05
approach_days = 730

[spacecraft]
beta = 3.6
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Simulation.ThresholdAU != 0.05 || c.Simulation.ApproachDays != 730 {
		t.Errorf("simulation = %+v", c.Simulation)
	}
	if c.Spacecraft.Beta != 3.6 {
		t.Errorf("Beta = %v, want 3.6", c.Spacecraft.Beta)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LSDEFLECT_SPACECRAFT_VELOCITY_KMS", "12.5")
	t.Setenv("LSDEFLECT_SPACECRAFT_ENABLED", "true")
	t.Setenv("LSDEFLECT_SIMULATION_SAMPLES", "90")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Spacecraft.VelocityKmS != 12.5 {
		t.Errorf("VelocityKmS = %v, want 12.5", c.Spacecraft.VelocityKmS)
	}
	if !c.Spacecraft.Enabled {
		t.Error("Enabled = false, want true")
	}
	if c.Simulation.Samples != 90 {
		t.Errorf("Samples = %d, want 90", c.Simulation.Samples)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"hyperbolic orbit", "bad.yaml", "asteroid:\n  e: 1.5\n", ErrInvalidConfig},
		{"zero samples", "bad.yaml", "simulation:\n  samples: 0\n", ErrInvalidConfig},
		{"unknown mode", "bad.yaml", "spacecraft:\n  mode: rk4\n", ErrInvalidConfig},
		{"negative speed", "bad.yaml", "spacecraft:\n  enabled: true\n  velocity_kms: -3\n", ErrInvalidConfig},
		{"mitigation without mass", "bad.yaml", "asteroid:\n  mass_kg: 0\nspacecraft:\n  enabled: true\n", deflect.ErrMassUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestScenarioStartsNow(t *testing.T) {
	c := Default()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	sc, err := c.Scenario(now)
	if err != nil {
		t.Fatalf("Scenario() error = %v", err)
	}
	if want := astro.JulianDate(now); sc.StartJD != want {
		t.Errorf("StartJD = %v, want %v", sc.StartJD, want)
	}
	if sc.Mitigation != nil {
		t.Error("Mitigation set while spacecraft disabled")
	}

	c.Spacecraft.Enabled = true
	c.Spacecraft.LaunchOffsetDays = 30
	sc, err = c.Scenario(now)
	if err != nil {
		t.Fatalf("Scenario() error = %v", err)
	}
	if !sc.Mitigation.PlanIntercept {
		t.Error("PlanIntercept = false for impact_index -1")
	}
	if got := sc.Mitigation.Spacecraft.LaunchJD - sc.StartJD; math.Abs(got-30) > 1e-6 {
		t.Errorf("launch offset = %v, want 30", got)
	}
}
