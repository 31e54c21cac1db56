package meshq

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting pipeline metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordStage is called after each stage of a mesh run.
	RecordStage(stage Stage, duration time.Duration, err error)

	// RecordRun is called after each mesh, successful or not.
	// vertices is the mesh size (0 if loading failed).
	RecordRun(vertices int, duration time.Duration, err error)

	// RecordBatch is called once per batch with the number of meshes
	// attempted and the number that failed.
	RecordBatch(total, failed int, duration time.Duration)

	// RecordBytesWritten is called for every output blob written.
	RecordBytesWritten(n int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(Stage, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)     {}
func (NoopMetricsCollector) RecordBytesWritten(int)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	RunCount      atomic.Int64
	RunErrors     atomic.Int64
	RunTotalNanos atomic.Int64
	VerticesTotal atomic.Int64
	BatchCount    atomic.Int64
	BatchMeshes   atomic.Int64
	BatchFailed   atomic.Int64
	BytesWritten  atomic.Int64

	stageCount  [len(stageNames)]atomic.Int64
	stageErrors [len(stageNames)]atomic.Int64
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage Stage, _ time.Duration, err error) {
	if stage < 0 || int(stage) >= len(b.stageCount) {
		return
	}
	b.stageCount[stage].Add(1)
	if err != nil {
		b.stageErrors[stage].Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(vertices int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.VerticesTotal.Add(int64(vertices))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(total, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchMeshes.Add(int64(total))
	b.BatchFailed.Add(int64(failed))
}

// RecordBytesWritten implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBytesWritten(n int) {
	b.BytesWritten.Add(int64(n))
}

// StageCount returns how often stage ran and how often it failed.
func (b *BasicMetricsCollector) StageCount(stage Stage) (runs, errors int64) {
	if stage < 0 || int(stage) >= len(b.stageCount) {
		return 0, 0
	}
	return b.stageCount[stage].Load(), b.stageErrors[stage].Load()
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		RunCount:     b.RunCount.Load(),
		RunErrors:    b.RunErrors.Load(),
		Vertices:     b.VerticesTotal.Load(),
		BatchCount:   b.BatchCount.Load(),
		BatchMeshes:  b.BatchMeshes.Load(),
		BatchFailed:  b.BatchFailed.Load(),
		BytesWritten: b.BytesWritten.Load(),
	}
	if s.RunCount > 0 {
		s.RunAvgNanos = b.RunTotalNanos.Load() / s.RunCount
	}
	return s
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	RunCount     int64
	RunErrors    int64
	RunAvgNanos  int64
	Vertices     int64
	BatchCount   int64
	BatchMeshes  int64
	BatchFailed  int64
	BytesWritten int64
}
