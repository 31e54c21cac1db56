package meshq

import (
	"context"
	"time"

	"github.com/hupe1980/meshq/metric"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/quantization"
	"github.com/hupe1980/meshq/report"
	"github.com/hupe1980/meshq/vertex"
)

// Reconstruction is one normalize → quantize → dequantize → denormalize
// round trip of a vertex set plus its error against the original.
type Reconstruction struct {
	Strategy normalize.Strategy
	Bins     int
	Params   normalize.Params
	// Normalized is the vertex set in the strategy's canonical space.
	Normalized vertex.Set
	// Codes are the uniform integer codes. For the unit-sphere strategy they
	// encode the [0,1]-remapped coordinates.
	Codes quantization.Codes
	// Vertices is the reconstruction in the original coordinate space.
	Vertices vertex.Set
	MSE      metric.PerAxis
	MAE      metric.PerAxis
	MaxAbs   float64
}

// Errors returns the per-axis errors in report form.
func (r *Reconstruction) Errors() *report.StrategyErrors {
	return &report.StrategyErrors{MSE: r.MSE, MAE: r.MAE}
}

// Reconstruct runs the uniform round trip of s under strategy at bins
// levels per axis. s is not modified and the result keeps its order.
func Reconstruct(s vertex.Set, strategy normalize.Strategy, bins int) (*Reconstruction, error) {
	return reconstruct(nil, s, strategy, bins)
}

func reconstruct(t *tracker, s vertex.Set, strategy normalize.Strategy, bins int) (*Reconstruction, error) {
	r := &Reconstruction{Strategy: strategy, Bins: bins}

	if err := t.step(StageNormalize, func() (err error) {
		r.Normalized, r.Params, err = normalize.Normalize(s, strategy)
		return err
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageQuantize, func() error {
		u, err := quantization.NewUniform(bins)
		if err != nil {
			return err
		}
		in := r.Normalized
		if strategy == normalize.UnitSphere {
			in = quantization.ToUnit(in)
		}
		r.Codes = u.Quantize(in)
		return nil
	}); err != nil {
		return nil, err
	}

	var deq vertex.Set
	if err := t.step(StageDequantize, func() (err error) {
		deq, err = r.Codes.Dequantize()
		if err == nil && strategy == normalize.UnitSphere {
			deq = quantization.FromUnit(deq)
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageDenormalize, func() (err error) {
		r.Vertices, err = r.Params.Denormalize(deq)
		return err
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageEvaluate, func() (err error) {
		if r.MSE, err = metric.MSEPerAxis(s, r.Vertices); err != nil {
			return err
		}
		if r.MAE, err = metric.MAEPerAxis(s, r.Vertices); err != nil {
			return err
		}
		r.MaxAbs, err = metric.MaxAbs(s, r.Vertices)
		return err
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// tracker times, logs and records the stages of one mesh. A nil tracker
// only classifies errors.
type tracker struct {
	ctx     context.Context
	mesh    string
	logger  *Logger
	metrics MetricsCollector
}

func (t *tracker) step(stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()

	if t == nil {
		return stageError("", stage, err)
	}

	elapsed := time.Since(start)
	t.logger.LogStage(t.ctx, stage, elapsed, err)
	t.metrics.RecordStage(stage, elapsed, err)
	return stageError(t.mesh, stage, err)
}
