// Package prometheus exposes the dashboard's operational metrics: HTTP
// traffic, task lifecycle counts, and remote task durations.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Remote tasks run for minutes, so the duration buckets reach much further
// than typical HTTP buckets.
var (
	httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	taskDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
)

// Metrics holds every collector the dashboard registers.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TasksSubmittedTotal *prometheus.CounterVec
	TasksCompletedTotal *prometheus.CounterVec
	TasksFailedTotal    *prometheus.CounterVec
	TaskPollsTotal      *prometheus.CounterVec
	TaskDuration        *prometheus.HistogramVec
	LiveTasks           *prometheus.GaugeVec
}

// NewMetrics builds and registers the dashboard metric set under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "healthai"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "path"}),
		TasksSubmittedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Remote tasks submitted",
		}, []string{"workflow"}),
		TasksCompletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Remote tasks completed",
		}, []string{"workflow"}),
		TasksFailedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_failed_total",
			Help:      "Remote tasks failed",
		}, []string{"workflow"}),
		TaskPollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_polls_total",
			Help:      "Status polls issued against the platform",
		}, []string{"workflow", "outcome"}),
		TaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Remote task duration from submission to completion",
			Buckets:   taskDurationBuckets,
		}, []string{"workflow"}),
		LiveTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_tasks",
			Help:      "Workflows with a live (submitted or polling) task",
		}, []string{"workflow"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TasksSubmittedTotal,
		m.TasksCompletedTotal,
		m.TasksFailedTotal,
		m.TaskPollsTotal,
		m.TaskDuration,
		m.LiveTasks,
	)
	return m
}

// Handler serves the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTaskCompleted records a completed task and its duration.
func (m *Metrics) ObserveTaskCompleted(workflow string, elapsed time.Duration) {
	m.TasksCompletedTotal.WithLabelValues(workflow).Inc()
	m.TaskDuration.WithLabelValues(workflow).Observe(elapsed.Seconds())
	m.LiveTasks.WithLabelValues(workflow).Set(0)
}

// ObserveTaskSubmitted records a submission and marks the workflow live.
func (m *Metrics) ObserveTaskSubmitted(workflow string) {
	m.TasksSubmittedTotal.WithLabelValues(workflow).Inc()
	m.LiveTasks.WithLabelValues(workflow).Set(1)
}

// ObserveTaskFailed records a terminal failure.
func (m *Metrics) ObserveTaskFailed(workflow string) {
	m.TasksFailedTotal.WithLabelValues(workflow).Inc()
	m.LiveTasks.WithLabelValues(workflow).Set(0)
}

//Personal.AI order the ending
