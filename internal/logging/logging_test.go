package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn)
	log.SetOutput(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("output missing messages:\n%s", out)
	}
}

func TestNamedSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelInfo)
	sim := root.Named("sim")
	orbit := sim.Named("orbit")

	// Output and level changes on the root apply to derived loggers.
	root.SetOutput(&buf)
	root.SetLevel(LevelDebug)

	sim.Debug("runs %d", 360)
	orbit.Info("sampled")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] sim: runs 360") {
		t.Errorf("missing sim line:\n%s", out)
	}
	if !strings.Contains(out, "[INFO] sim.orbit: sampled") {
		t.Errorf("missing nested name:\n%s", out)
	}
	if !orbit.Enabled(LevelDebug) {
		t.Error("Enabled(LevelDebug) = false after root SetLevel")
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	if log.Enabled(LevelError) {
		t.Error("Discard logger reports LevelError enabled")
	}
	log.Named("x").Error("dropped")
}
