package meshq

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	ml := l.WithMesh("cube.obj").WithBins(1024)
	ml.LogStage(ctx, StageQuantize, time.Millisecond, nil)
	ml.LogStage(ctx, StageLoad, time.Millisecond, errors.New("missing"))
	ml.LogRun(ctx, 8, 7, time.Millisecond, nil)
	ml.LogRun(ctx, 0, 0, time.Millisecond, errors.New("missing"))
	l.LogBatch(ctx, 3, 1, time.Second)
	l.LogBatch(ctx, 3, 0, time.Second)
	l.WithStage(StageEvaluate).LogVariant(ctx, "rot_30", 1e-7, 5e-8, 12)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 7)

	assert.Equal(t, "stage completed", lines[0]["msg"])
	assert.Equal(t, "quantize", lines[0]["stage"])
	assert.Equal(t, "cube.obj", lines[0]["mesh"])
	assert.Equal(t, float64(1024), lines[0]["bins"])

	assert.Equal(t, "stage failed", lines[1]["msg"])
	assert.Equal(t, "missing", lines[1]["error"])

	assert.Equal(t, "mesh completed", lines[2]["msg"])
	assert.Equal(t, "INFO", lines[2]["level"])
	assert.Equal(t, float64(7), lines[2]["outputs"])

	assert.Equal(t, "mesh failed", lines[3]["msg"])
	assert.Equal(t, "ERROR", lines[3]["level"])

	assert.Equal(t, "WARN", lines[4]["level"])
	assert.Equal(t, float64(2), lines[4]["success"])
	assert.Equal(t, "batch completed", lines[5]["msg"])

	assert.Equal(t, "variant evaluated", lines[6]["msg"])
	assert.Equal(t, "evaluate", lines[6]["stage"])
	assert.Equal(t, float64(12), lines[6]["clipped"])
}

func TestLogger_DebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogStage(context.Background(), StageLoad, time.Millisecond, nil)
	assert.Zero(t, buf.Len())
}

func TestNoopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopLogger().WithMesh("x").LogRun(context.Background(), 1, 1, time.Second, nil)
	})
}
