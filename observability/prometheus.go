// Package observability exports pipeline metrics to Prometheus.
package observability

import (
	"time"

	"github.com/hupe1980/meshq"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements meshq.MetricsCollector on a private
// registry, so several pipelines in one process do not collide.
type PrometheusCollector struct {
	registry *prometheus.Registry

	stageLatency *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	runLatency   prometheus.Histogram
	vertices     prometheus.Counter
	batches      prometheus.Counter
	batchMeshes  *prometheus.CounterVec
	bytesWritten prometheus.Counter
}

var _ meshq.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates a collector and registers its metrics.
func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meshq_stage_duration_seconds",
			Help:    "Latency of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meshq_runs_total",
			Help: "Meshes processed",
		}, []string{"status"}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "meshq_run_duration_seconds",
			Help:    "Latency of one mesh run",
			Buckets: prometheus.DefBuckets,
		}),
		vertices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meshq_vertices_total",
			Help: "Vertices of successfully processed meshes",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meshq_batches_total",
			Help: "Batch runs completed",
		}),
		batchMeshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meshq_batch_meshes_total",
			Help: "Meshes seen by batch runs",
		}, []string{"status"}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meshq_output_bytes_total",
			Help: "Bytes written to the output store",
		}),
	}

	c.registry.MustRegister(
		c.stageLatency,
		c.runs,
		c.runLatency,
		c.vertices,
		c.batches,
		c.batchMeshes,
		c.bytesWritten,
	)
	return c
}

// Registry returns the registry the metrics live in, e.g. for promhttp.
func (c *PrometheusCollector) Registry() *prometheus.Registry { return c.registry }

// WriteToTextfile writes the current metrics in the node exporter textfile
// format.
func (c *PrometheusCollector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordStage implements meshq.MetricsCollector.
func (c *PrometheusCollector) RecordStage(stage meshq.Stage, d time.Duration, err error) {
	c.stageLatency.WithLabelValues(stage.String(), status(err)).Observe(d.Seconds())
}

// RecordRun implements meshq.MetricsCollector.
func (c *PrometheusCollector) RecordRun(vertices int, d time.Duration, err error) {
	c.runs.WithLabelValues(status(err)).Inc()
	c.runLatency.Observe(d.Seconds())
	if err == nil {
		c.vertices.Add(float64(vertices))
	}
}

// RecordBatch implements meshq.MetricsCollector.
func (c *PrometheusCollector) RecordBatch(total, failed int, _ time.Duration) {
	c.batches.Inc()
	c.batchMeshes.WithLabelValues("success").Add(float64(total - failed))
	c.batchMeshes.WithLabelValues("error").Add(float64(failed))
}

// RecordBytesWritten implements meshq.MetricsCollector.
func (c *PrometheusCollector) RecordBytesWritten(n int) {
	c.bytesWritten.Add(float64(n))
}
