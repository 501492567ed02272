package sim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-deflect/internal/deflect"
	"github.com/litescript/ls-deflect/internal/logging"
	"github.com/litescript/ls-deflect/internal/orbit"
	"github.com/litescript/ls-deflect/internal/risk"
)

// interceptPoints is the number of segments in a planned trajectory.
const interceptPoints = 64

// Runner executes scenarios. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	log     *logging.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewRunner creates a runner. Either argument may be nil.
func NewRunner(log *logging.Logger, metrics *Metrics) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		log:     log.Named("sim"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Run computes the report for sc. The two paths are sampled concurrently;
// ctx is checked between stages.
func (r *Runner) Run(ctx context.Context, sc Scenario) (rep *Report, err error) {
	start := r.now()
	defer func() { r.metrics.observeRun(rep, err) }()

	if err = sc.Validate(); err != nil {
		return nil, err
	}

	rep = &Report{
		GeneratedAt: start.UTC(),
		Scenario:    sc,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer r.metrics.observeStage("earth_path", time.Now())
		if err := gctx.Err(); err != nil {
			return err
		}
		p, err := orbit.SamplePath(orbit.BodyEarth, sc.Elements, sc.StartJD, sc.Samples)
		if err != nil {
			return fmt.Errorf("sample earth: %w", err)
		}
		rep.Earth = p
		return nil
	})
	g.Go(func() error {
		defer r.metrics.observeStage("asteroid_path", time.Now())
		if err := gctx.Err(); err != nil {
			return err
		}
		p, err := orbit.SamplePath(orbit.BodyAsteroid, sc.Elements, sc.StartJD, sc.Samples)
		if err != nil {
			return fmt.Errorf("sample asteroid: %w", err)
		}
		rep.Asteroid = p
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	r.log.Debug("sampled %d+%d points from JD %.3f", rep.Earth.Len(), rep.Asteroid.Len(), sc.StartJD)

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	t := time.Now()
	rep.Intersections = risk.Detect(rep.Earth, rep.Asteroid, sc.ThresholdAU)
	rep.MinDistanceAU = risk.MinPathDistance(rep.Earth.Positions(), rep.Asteroid.Positions())
	r.metrics.observeStage("intersections", t)
	r.log.Info("%d intersections below %.3f AU, min path distance %.4f AU", len(rep.Intersections), sc.ThresholdAU, rep.MinDistanceAU)

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	t = time.Now()
	rep.Approach, err = risk.ClosestApproach(sc.Elements, sc.StartJD, sc.ApproachDays, int(sc.ApproachDays)+1)
	if err != nil {
		return nil, fmt.Errorf("closest approach: %w", err)
	}
	rep.ImpactSpeedKmS = risk.RelativeSpeed(sc.Elements, rep.Approach.JD)
	if mass, merr := sc.Body.Mass(); merr == nil {
		e := risk.ImpactEnergy(mass, rep.ImpactSpeedKmS)
		rep.Energy = &e
	}
	r.metrics.observeStage("approach", t)
	if rep.Approach.Collision {
		r.log.Warn("collision at JD %.3f: %.0f km from Earth's center", rep.Approach.JD, rep.Approach.DistanceKm)
	}

	if sc.Mitigation == nil {
		rep.Elapsed = time.Since(start)
		return rep, nil
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	t = time.Now()
	if err = r.deflect(sc, rep); err != nil {
		return nil, err
	}
	r.metrics.observeStage("deflection", t)

	rep.Elapsed = time.Since(start)
	return rep, nil
}

func (r *Runner) deflect(sc Scenario, rep *Report) error {
	m := sc.Mitigation
	p := deflect.Params{
		Spacecraft:  m.Spacecraft,
		Asteroid:    sc.Body,
		ImpactIndex: m.ImpactIndex,
		Mode:        m.Mode,
	}

	if m.PlanIntercept {
		ic, err := deflect.PlanIntercept(m.Spacecraft, sc.Elements, interceptPoints)
		if err != nil {
			return fmt.Errorf("plan intercept: %w", err)
		}
		rep.Intercept = &ic
		p.ImpactJD = &ic.ImpactJD
		r.log.Debug("intercept after %.1f days at JD %.3f", ic.TravelDays, ic.ImpactJD)
	}

	res, err := deflect.Simulate(rep.Asteroid, sc.Elements, p)
	if err != nil {
		return fmt.Errorf("deflect: %w", err)
	}
	rep.Deflection = res
	rep.DeflectedIntersections = risk.Detect(rep.Earth, res.Deflected, sc.ThresholdAU)
	rep.DeflectedMinDistanceAU = risk.MinPathDistance(rep.Earth.Positions(), res.Deflected.Positions())

	r.log.Info("Δv %.4g m/s at sample %d (%s), max divergence %.3g AU, %d intersections after deflection",
		res.DeltaVMS, res.ImpactIndex, res.Mode, res.MaxDivergenceAU, len(rep.DeflectedIntersections))
	return nil
}
