package service

import (
	"net/http"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	mazesGenerated prometheus.Counter
	stepsTaken     prometheus.Counter
	framesWritten  prometheus.Counter
	renderDuration prometheus.Histogram
	jobs           *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mazesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wilson_mazes_generated_total",
			Help: "Mazes generated to completion",
		}),
		stepsTaken: factory.NewCounter(prometheus.CounterOpts{
			Name: "wilson_steps_total",
			Help: "Engine steps taken",
		}),
		framesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wilson_frames_written_total",
			Help: "Frames written to sinks",
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wilson_render_duration_seconds",
			Help:    "Wall time of a full render",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		}),
		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wilson_jobs_total",
			Help: "Render jobs by status reached",
		}, []string{"status"}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MazeGenerated records a maze generated with steps engine steps. It is nil-safe.
func (m *Metrics) MazeGenerated(steps int) {
	if m == nil {
		return
	}
	m.mazesGenerated.Inc()
	m.stepsTaken.Add(float64(steps))
}

func (m *Metrics) frameWritten() {
	if m == nil {
		return
	}
	m.framesWritten.Inc()
}

func (m *Metrics) observeRender(seconds float64) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) jobStatus(s job.Status) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(string(s)).Inc()
}
