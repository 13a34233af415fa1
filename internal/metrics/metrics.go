// Package metrics exposes provisioning and network state as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/orchestration"
)

const namespace = "cliquenet"

// Collector holds the metrics of one process. It implements
// provisioning.MetricsRecorder.
type Collector struct {
	registry *prometheus.Registry

	operationsTotal *prometheus.CounterVec
	stepsTotal      *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	networkRunning  *prometheus.GaugeVec
	containers      *prometheus.GaugeVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "controller",
				Name:      "operations_total",
				Help:      "Total number of administration operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "saga",
				Name:      "steps_total",
				Help:      "Total number of provisioning steps by outcome",
			},
			[]string{"step", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "saga",
				Name:      "step_duration_seconds",
				Help:      "Duration of provisioning steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"step"},
		),
		networkRunning: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "network",
				Name:      "running",
				Help:      "Whether any container of the network is running (1) or not (0)",
			},
			[]string{"network"},
		),
		containers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "network",
				Name:      "containers",
				Help:      "Number of containers of the network by state",
			},
			[]string{"network", "state"},
		),
	}

	c.registry.MustRegister(
		c.operationsTotal,
		c.stepsTotal,
		c.stepDuration,
		c.networkRunning,
		c.containers,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveStep records a finished provisioning step.
func (c *Collector) ObserveStep(step, outcome string, duration time.Duration) {
	c.stepsTotal.WithLabelValues(step, outcome).Inc()
	c.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// ObserveOperation records a finished administration operation.
func (c *Collector) ObserveOperation(operation, outcome string) {
	c.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStatus replaces the gauges of one network with status.
func (c *Collector) RecordStatus(status orchestration.NetworkStatus) {
	c.containers.DeletePartialMatch(prometheus.Labels{"network": status.NetworkID})

	counts := make(map[docker.ContainerState]int)
	for _, ct := range status.Containers {
		counts[ct.State]++
	}
	for state, n := range counts {
		c.containers.WithLabelValues(status.NetworkID, string(state)).Set(float64(n))
	}

	if status.Running {
		c.networkRunning.WithLabelValues(status.NetworkID).Set(1)
	} else {
		c.networkRunning.WithLabelValues(status.NetworkID).Set(0)
	}
}

// ForgetNetwork drops every gauge of a deleted network.
func (c *Collector) ForgetNetwork(id string) {
	c.networkRunning.DeleteLabelValues(id)
	c.containers.DeletePartialMatch(prometheus.Labels{"network": id})
}
