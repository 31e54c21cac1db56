package meshq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc MetricsCollector = &BasicMetricsCollector{}
	basic := mc.(*BasicMetricsCollector)

	mc.RecordStage(StageLoad, time.Millisecond, nil)
	mc.RecordStage(StageLoad, time.Millisecond, errors.New("missing"))
	mc.RecordStage(StageExport, time.Millisecond, nil)
	mc.RecordStage(Stage(-1), time.Millisecond, nil)
	mc.RecordStage(Stage(99), time.Millisecond, nil)

	mc.RecordRun(8, 2*time.Millisecond, nil)
	mc.RecordRun(0, 4*time.Millisecond, errors.New("failed"))
	mc.RecordBatch(2, 1, 10*time.Millisecond)
	mc.RecordBytesWritten(100)
	mc.RecordBytesWritten(50)

	runs, errs := basic.StageCount(StageLoad)
	assert.Equal(t, int64(2), runs)
	assert.Equal(t, int64(1), errs)
	runs, errs = basic.StageCount(StageExport)
	assert.Equal(t, int64(1), runs)
	assert.Zero(t, errs)
	runs, _ = basic.StageCount(Stage(99))
	assert.Zero(t, runs)

	stats := basic.GetStats()
	assert.Equal(t, BasicMetricsStats{
		RunCount:     2,
		RunErrors:    1,
		RunAvgNanos:  int64(3 * time.Millisecond),
		Vertices:     8,
		BatchCount:   1,
		BatchMeshes:  2,
		BatchFailed:  1,
		BytesWritten: 150,
	}, stats)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.RunAvgNanos)
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		mc.RecordStage(StageLoad, time.Second, nil)
		mc.RecordRun(1, time.Second, nil)
		mc.RecordBatch(1, 0, time.Second)
		mc.RecordBytesWritten(1)
	})
}
