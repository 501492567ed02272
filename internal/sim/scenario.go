// Package sim runs a complete risk and deflection scenario: it samples
// Earth and asteroid paths, looks for intersections and the closest
// approach, and optionally simulates a kinetic impactor.
package sim

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-deflect/internal/astro"
	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/risk"
)

// ErrInvalidScenario is returned by Scenario.Validate.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is one simulation request.
type Scenario struct {
	Name         string         `json:"name,omitempty"`
	StartJD      float64        `json:"start_jd"`
	Samples      int            `json:"samples"`
	ThresholdAU  float64        `json:"threshold_au"`
	ApproachDays float64        `json:"approach_days"`
	Elements     orbit.Elements `json:"elements"`
	Body         deflect.Body   `json:"body"`
	Mitigation   *Mitigation    `json:"mitigation,omitempty"`
}

// Mitigation describes the impactor mission. With PlanIntercept set, the
// impact time comes from deflect.PlanIntercept and ImpactIndex is ignored.
type Mitigation struct {
	Spacecraft    deflect.Spacecraft `json:"spacecraft"`
	PlanIntercept bool               `json:"plan_intercept"`
	ImpactIndex   int                `json:"impact_index"`
	Mode          deflect.Mode       `json:"mode"`
}

// DefaultScenario returns a scenario for el starting at startJD with the
// default sampling and threshold and no mitigation.
func DefaultScenario(el orbit.Elements, startJD float64) Scenario {
	return Scenario{
		StartJD:      startJD,
		Samples:      orbit.DefaultSamples,
		ThresholdAU:  risk.DefaultThresholdAU,
		ApproachDays: astro.DaysPerYear,
		Elements:     el,
	}
}

// Validate checks the scenario before any computation.
func (s Scenario) Validate() error {
	if err := s.Elements.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if !astro.IsFinite(s.StartJD, s.ThresholdAU, s.ApproachDays) {
		return fmt.Errorf("%w: non-finite start, threshold or approach window", ErrInvalidScenario)
	}
	if s.Samples < 1 {
		return fmt.Errorf("%w: samples %d must be at least 1", ErrInvalidScenario, s.Samples)
	}
	if s.ThresholdAU <= 0 {
		return fmt.Errorf("%w: threshold %g AU must be positive", ErrInvalidScenario, s.ThresholdAU)
	}
	if s.ApproachDays <= 0 {
		return fmt.Errorf("%w: approach window %g days must be positive", ErrInvalidScenario, s.ApproachDays)
	}
	if s.Mitigation != nil {
		if err := s.Mitigation.Spacecraft.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		if _, err := s.Body.Mass(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
	}
	return nil
}
