package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/ls-deflect/internal/config"
	"github.com/litescript/ls-deflect/internal/sim"
)

const testStartJD = "2460600.5"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func summary(t *testing.T, args ...string) sim.Summary {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("execute(%v) error = %v", args, err)
	}
	var s sim.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	return s
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "ls-deflect v") {
		t.Errorf("version output = %q", out)
	}
}

func TestRiskJSON(t *testing.T) {
	s := summary(t, "risk", "--json", "--start-jd", testStartJD)

	if s.StartJD != 2460600.5 {
		t.Errorf("StartJD = %v, want 2460600.5", s.StartJD)
	}
	if s.Intersections != 0 {
		t.Errorf("Intersections = %d, want 0 at 0.1 AU", s.Intersections)
	}
	if s.MinDistanceAU < 0.14 || s.MinDistanceAU > 0.16 {
		t.Errorf("MinDistanceAU = %v, want about 0.149", s.MinDistanceAU)
	}
	if s.Deflected {
		t.Error("risk ran a deflection")
	}
	if s.EnergyMt <= 0 {
		t.Errorf("EnergyMt = %v, want > 0 for the default mass", s.EnergyMt)
	}
}

func TestRiskThresholdFlag(t *testing.T) {
	s := summary(t, "risk", "--json", "--start-jd", testStartJD, "--threshold", "0.2")
	if s.Intersections == 0 {
		t.Error("expected intersections at 0.2 AU")
	}
}

func TestRiskTable(t *testing.T) {
	for _, args := range [][]string{
		{"risk", "--start-jd", testStartJD},
		{"--start-jd", testStartJD}, // root falls back to the summary off a terminal
	} {
		out, err := execute(t, args...)
		if err != nil {
			t.Fatalf("execute(%v) error = %v", args, err)
		}
		for _, want := range []string{"Default @", "Intersections", "Min path distance", "Closest approach"} {
			if !strings.Contains(out, want) {
				t.Errorf("execute(%v) output missing %q", args, want)
			}
		}
	}
}

func TestDeflect(t *testing.T) {
	s := summary(t, "deflect", "--json", "--start-jd", testStartJD, "--velocity", "6")

	if !s.Deflected {
		t.Fatal("deflect did not run a deflection")
	}
	if s.DeltaVMS <= 0 {
		t.Errorf("DeltaVMS = %v, want > 0", s.DeltaVMS)
	}
	if s.MaxDivergenceAU <= 0 {
		t.Errorf("MaxDivergenceAU = %v, want > 0", s.MaxDivergenceAU)
	}
	if s.ImpactJD <= s.StartJD {
		t.Errorf("ImpactJD = %v, want after start %v", s.ImpactJD, s.StartJD)
	}
}

func TestDeflectFlags(t *testing.T) {
	slow := summary(t, "deflect", "--json", "--start-jd", testStartJD, "--impact-index", "90", "--velocity", "5")
	fast := summary(t, "deflect", "--json", "--start-jd", testStartJD, "--impact-index", "90", "--velocity", "10", "--mass", "2000")

	if ratio := fast.DeltaVMS / slow.DeltaVMS; ratio < 3.999 || ratio > 4.001 {
		t.Errorf("Δv ratio = %v, want 4", ratio)
	}
	if fast.ImpactJD != slow.ImpactJD {
		t.Errorf("impact JD differs: %v vs %v", fast.ImpactJD, slow.ImpactJD)
	}
}

func TestInvalidMode(t *testing.T) {
	_, err := execute(t, "deflect", "--start-jd", testStartJD, "--mode", "sideways")
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if _, err := execute(t, "export", "--start-jd", testStartJD, "--samples", "90", "-o", path); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	for _, key := range []string{"earth_path", "asteroid_path", "closest_approach", "scenario"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
}

func TestExportStdout(t *testing.T) {
	out, err := execute(t, "export", "--start-jd", testStartJD, "--samples", "30")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Error("stdout export is not valid JSON")
	}
}

func TestConfigFileAndOutputs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rock.yaml")
	metricsPath := filepath.Join(dir, "metrics.prom")
	logPath := filepath.Join(dir, "run.log")

	cfg := `asteroid:
  name: Rock
  a_au: 1.2
  e: 0.3
  i_deg: 2
  node_deg: 30
  peri_deg: 60
  m0_deg: 0
simulation:
  start_jd: 2460600.5
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "risk", "--config", cfgPath, "--metrics-file", metricsPath, "--log-file", logPath)
	if err != nil {
		t.Fatalf("risk error = %v", err)
	}
	if !strings.Contains(out, "Rock @") {
		t.Errorf("table does not use the configured name:\n%s", out)
	}

	metrics, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(metrics), `lsdeflect_runs_total{result="ok"} 1`) {
		t.Errorf("metrics file missing run counter:\n%s", metrics)
	}

	logs, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(logs), "Simulating Rock") {
		t.Errorf("log file missing run line:\n%s", logs)
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "risk", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for a missing config file")
	}
}
