// Package config loads scenario settings from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/risk"
	"github.com/litescript/ls-deflect/internal/sim"
)

// EnvPrefix prefixes environment overrides, e.g. LSDEFLECT_SPACECRAFT_VELOCITY_KMS.
const EnvPrefix = "LSDEFLECT"

// ErrInvalidConfig is returned by Load and Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full set of settings.
type Config struct {
	Asteroid   Asteroid   `mapstructure:"asteroid"`
	Spacecraft Spacecraft `mapstructure:"spacecraft"`
	Simulation Simulation `mapstructure:"simulation"`
	Log        Log        `mapstructure:"log"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// Asteroid holds orbital elements and physical parameters.
type Asteroid struct {
	Name        string  `mapstructure:"name"`
	A           float64 `mapstructure:"a_au"`
	E           float64 `mapstructure:"e"`
	I           float64 `mapstructure:"i_deg"`
	Node        float64 `mapstructure:"node_deg"`
	Peri        float64 `mapstructure:"peri_deg"`
	M0          float64 `mapstructure:"m0_deg"`
	MassKg      float64 `mapstructure:"mass_kg"`
	RadiusKm    float64 `mapstructure:"radius_km"`
	DensityGcm3 float64 `mapstructure:"density_g_cm3"`
}

// Elements returns the orbital elements.
func (a Asteroid) Elements() orbit.Elements {
	return orbit.Elements{A: a.A, E: a.E, I: a.I, Node: a.Node, Peri: a.Peri, M0: a.M0}
}

// Body returns the physical parameters.
func (a Asteroid) Body() deflect.Body {
	return deflect.Body{MassKg: a.MassKg, RadiusKm: a.RadiusKm, DensityGcm3: a.DensityGcm3}
}

// Spacecraft configures the kinetic impactor. A negative ImpactIndex plans
// the impact from the launch date instead.
type Spacecraft struct {
	Enabled          bool    `mapstructure:"enabled"`
	MassKg           float64 `mapstructure:"mass_kg"`
	VelocityKmS      float64 `mapstructure:"velocity_kms"`
	Beta             float64 `mapstructure:"beta"`
	LaunchOffsetDays float64 `mapstructure:"launch_offset_days"`
	ImpactIndex      int     `mapstructure:"impact_index"`
	Mode             string  `mapstructure:"mode"`
}

// Simulation configures sampling and detection. StartJD 0 means now.
type Simulation struct {
	StartJD      float64 `mapstructure:"start_jd"`
	Samples      int     `mapstructure:"samples"`
	ThresholdAU  float64 `mapstructure:"threshold_au"`
	ApproachDays float64 `mapstructure:"approach_days"`
}

// Log configures logging.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Metrics configures the Prometheus textfile output. Empty File disables it.
type Metrics struct {
	File string `mapstructure:"file"`
}

// Default returns the built-in scenario: a 1.458 AU Apollo-type orbit, a
// 1000 kg impactor at 6 km/s, 360 samples and a 0.1 AU threshold.
func Default() *Config {
	return &Config{
		Asteroid: Asteroid{
			Name:   "Default",
			A:      1.458,
			E:      0.2228,
			I:      10.83,
			Node:   304.27,
			Peri:   178.93,
			M0:     310.55,
			MassKg: 6.1e9,
		},
		Spacecraft: Spacecraft{
			MassKg:      1000,
			VelocityKmS: 6,
			ImpactIndex: -1,
			Mode:        deflect.ModeCorrected.String(),
		},
		Simulation: Simulation{
			Samples:      orbit.DefaultSamples,
			ThresholdAU:  risk.DefaultThresholdAU,
			ApproachDays: astro.DaysPerYear,
		},
		Log: Log{Level: "info"},
	}
}

// defaults maps every key to its default so viper can bind environment
// variables for it.
func defaults(c *Config) map[string]interface{} {
	return map[string]interface{}{
		"asteroid.name":                 c.Asteroid.Name,
		"asteroid.a_au":                 c.Asteroid.A,
		"asteroid.e":                    c.Asteroid.E,
		"asteroid.i_deg":                c.Asteroid.I,
		"asteroid.node_deg":             c.Asteroid.Node,
		"asteroid.peri_deg":             c.Asteroid.Peri,
		"asteroid.m0_deg":               c.Asteroid.M0,
		"asteroid.mass_kg":              c.Asteroid.MassKg,
		"asteroid.radius_km":            c.Asteroid.RadiusKm,
		"asteroid.density_g_cm3":        c.Asteroid.DensityGcm3,
		"spacecraft.enabled":            c.Spacecraft.Enabled,
		"spacecraft.mass_kg":            c.Spacecraft.MassKg,
		"spacecraft.velocity_kms":       c.Spacecraft.VelocityKmS,
		"spacecraft.beta":               c.Spacecraft.Beta,
		"spacecraft.launch_offset_days": c.Spacecraft.LaunchOffsetDays,
		"spacecraft.impact_index":       c.Spacecraft.ImpactIndex,
		"spacecraft.mode":               c.Spacecraft.Mode,
		"simulation.start_jd":           c.Simulation.StartJD,
		"simulation.samples":            c.Simulation.Samples,
		"simulation.threshold_au":       c.Simulation.ThresholdAU,
		"simulation.approach_days":      c.Simulation.ApproachDays,
		"log.level":                     c.Log.Level,
		"log.file":                      c.Log.File,
		"metrics.file":                  c.Metrics.File,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults(Default()) {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (YAML, TOML or JSON by extension) over
// the defaults, applies environment overrides and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the config describes a runnable scenario.
func (c *Config) Validate() error {
	if _, err := deflect.ParseMode(c.Spacecraft.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Simulation.StartJD < 0 {
		return fmt.Errorf("%w: start_jd %g", ErrInvalidConfig, c.Simulation.StartJD)
	}
	sc, err := c.scenario(astro.J2000)
	if err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Scenario builds the simulation request. now supplies the start time when
// simulation.start_jd is unset.
func (c *Config) Scenario(now time.Time) (sim.Scenario, error) {
	start := c.Simulation.StartJD
	if start == 0 {
		start = astro.JulianDate(now)
	}
	return c.scenario(start)
}

func (c *Config) scenario(startJD float64) (sim.Scenario, error) {
	sc := sim.Scenario{
		Name:         c.Asteroid.Name,
		StartJD:      startJD,
		Samples:      c.Simulation.Samples,
		ThresholdAU:  c.Simulation.ThresholdAU,
		ApproachDays: c.Simulation.ApproachDays,
		Elements:     c.Asteroid.Elements(),
		Body:         c.Asteroid.Body(),
	}
	if !c.Spacecraft.Enabled {
		return sc, nil
	}

	mode, err := deflect.ParseMode(c.Spacecraft.Mode)
	if err != nil {
		return sim.Scenario{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	sc.Mitigation = &sim.Mitigation{
		Spacecraft: deflect.Spacecraft{
			LaunchJD:    startJD + c.Spacecraft.LaunchOffsetDays,
			MassKg:      c.Spacecraft.MassKg,
			VelocityKmS: c.Spacecraft.VelocityKmS,
			Beta:        c.Spacecraft.Beta,
		},
		PlanIntercept: c.Spacecraft.ImpactIndex < 0,
		ImpactIndex:   max(c.Spacecraft.ImpactIndex, 0),
		Mode:          mode,
	}
	return sc, nil
}
