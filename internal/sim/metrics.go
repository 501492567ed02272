package sim

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run statistics on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Runs           *prometheus.CounterVec
	StageDurations *prometheus.HistogramVec
	Intersections  *prometheus.GaugeVec
	MinDistance    prometheus.Gauge
	DeltaV         prometheus.Gauge
	Divergence     prometheus.Gauge
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lsdeflect_runs_total",
			Help: "Simulation runs, labeled by result.",
		}, []string{"result"}),
		StageDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lsdeflect_stage_duration_seconds",
			Help:    "Time spent per simulation stage.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"stage"}),
		Intersections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lsdeflect_intersections",
			Help: "Intersection points found in the last run.",
		}, []string{"path"}),
		MinDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lsdeflect_min_path_distance_au",
			Help: "Minimum distance between the Earth and asteroid paths in the last run.",
		}),
		DeltaV: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lsdeflect_delta_v_meters_per_second",
			Help: "Velocity change imparted in the last run.",
		}),
		Divergence: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lsdeflect_max_divergence_au",
			Help: "Largest separation between the original and deflected path in the last run.",
		}),
	}
	reg.MustRegister(m.Runs, m.StageDurations, m.Intersections, m.MinDistance, m.DeltaV, m.Divergence)
	return m
}

// WriteFile writes the current values in the Prometheus text format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return errors.New("metrics disabled")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDurations.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeRun(rep *Report, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Runs.WithLabelValues("error").Inc()
		return
	}
	m.Runs.WithLabelValues("ok").Inc()
	m.Intersections.WithLabelValues("original").Set(float64(len(rep.Intersections)))
	m.MinDistance.Set(rep.MinDistanceAU)
	if rep.Deflection != nil {
		m.Intersections.WithLabelValues("deflected").Set(float64(len(rep.DeflectedIntersections)))
		m.DeltaV.Set(rep.Deflection.DeltaVMS)
		m.Divergence.Set(rep.Deflection.MaxDivergenceAU)
	}
}
