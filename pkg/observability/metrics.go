package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of a recipe run
type Metrics struct {
	registry *prometheus.Registry

	// Lifecycle metrics
	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	StepsSkipped *prometheus.CounterVec

	// Resolution metrics
	ResolutionsTotal     *prometheus.CounterVec
	VersionResolutions   *prometheus.CounterVec
	RequirementsResolved prometheus.Gauge
	DescriptorsGenerated prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,

		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_lifecycle_steps_total",
				Help: "Total number of lifecycle steps executed",
			},
			[]string{"recipe", "state", "status"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipe_lifecycle_step_duration_seconds",
				Help:    "Lifecycle step duration in seconds",
				Buckets: []float64{.01, .1, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"recipe", "state"},
		),
		StepsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_lifecycle_steps_skipped_total",
				Help: "Total number of optional lifecycle steps that were not requested",
			},
			[]string{"recipe", "state"},
		),

		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_resolutions_total",
				Help: "Total number of resolution passes",
			},
			[]string{"recipe", "role", "status"},
		),
		VersionResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_version_resolutions_total",
				Help: "Total number of version resolutions by method",
			},
			[]string{"recipe", "method"},
		),
		RequirementsResolved: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "recipe_requirements_resolved",
				Help: "Number of requirements in the last resolution pass",
			},
		),
		DescriptorsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "recipe_descriptors_generated_total",
				Help: "Total number of descriptor files written",
			},
		),
	}

	registry.MustRegister(
		m.StepsTotal,
		m.StepDuration,
		m.StepsSkipped,
		m.ResolutionsTotal,
		m.VersionResolutions,
		m.RequirementsResolved,
		m.DescriptorsGenerated,
	)

	return m
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStep records one lifecycle step
func (m *Metrics) ObserveStep(recipe, state string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StepsTotal.WithLabelValues(recipe, state, status).Inc()
	m.StepDuration.WithLabelValues(recipe, state).Observe(duration.Seconds())
}

// SkipStep records an optional step that was not requested
func (m *Metrics) SkipStep(recipe, state string) {
	if m == nil {
		return
	}
	m.StepsSkipped.WithLabelValues(recipe, state).Inc()
}

// ObserveResolution records a resolution pass outcome
func (m *Metrics) ObserveResolution(recipe, role, method string, requirements int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ResolutionsTotal.WithLabelValues(recipe, role, "failure").Inc()
		return
	}
	m.ResolutionsTotal.WithLabelValues(recipe, role, "success").Inc()
	m.VersionResolutions.WithLabelValues(recipe, method).Inc()
	m.RequirementsResolved.Set(float64(requirements))
}

// AddDescriptors records written descriptor files
func (m *Metrics) AddDescriptors(n int) {
	if m == nil {
		return
	}
	m.DescriptorsGenerated.Add(float64(n))
}

// WriteTextfile dumps the registry in the node-exporter textfile format so
// CI jobs can collect it after the process exits.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
