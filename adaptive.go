package meshq

import (
	"context"
	"time"

	"github.com/hupe1980/meshq/mesh"
	"github.com/hupe1980/meshq/metric"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/quantization"
	"github.com/hupe1980/meshq/report"
	"github.com/hupe1980/meshq/vertex"
)

// VariantResult compares uniform and adaptive quantization of one
// rigidly moved copy of a mesh.
type VariantResult struct {
	Variant string
	// Transformed is the moved mesh; both errors are measured against it.
	Transformed vertex.Set
	// Uniform is the reconstruction from the shared round(v*base)/base lattice.
	Uniform vertex.Set
	// Adaptive is the reconstruction from the per-vertex lattices.
	Adaptive vertex.Set
	// Quantized holds the normalized-space adaptive output with its bin map
	// and density field.
	Quantized   quantization.AdaptiveResult
	UniformMSE  float64
	AdaptiveMSE float64
}

// Row returns the variant's line of the adaptive summary.
func (v *VariantResult) Row() report.AdaptiveRow {
	row := report.AdaptiveRow{
		Variant:     v.Variant,
		UniformMSE:  v.UniformMSE,
		AdaptiveMSE: v.AdaptiveMSE,
		ClippedLow:  v.Quantized.Bins.ClippedLow.GetCardinality(),
		ClippedHigh: v.Quantized.Bins.ClippedHigh.GetCardinality(),
	}
	counts := v.Quantized.Bins.Counts
	if len(counts) == 0 {
		return row
	}
	row.MinBins, row.MaxBins = counts[0], counts[0]
	var sum float64
	for _, c := range counts {
		row.MinBins = min(row.MinBins, c)
		row.MaxBins = max(row.MaxBins, c)
		sum += float64(c)
	}
	row.MeanBins = sum / float64(len(counts))
	return row
}

// AdaptiveComparison is the outcome of CompareAdaptive.
type AdaptiveComparison struct {
	Path     string
	Mesh     string
	Variants []*VariantResult
	Outputs  []string
}

// Rows returns the adaptive summary lines in variant order.
func (c *AdaptiveComparison) Rows() []report.AdaptiveRow {
	rows := make([]report.AdaptiveRow, len(c.Variants))
	for i, v := range c.Variants {
		rows[i] = v.Row()
	}
	return rows
}

// CompareAdaptive moves the mesh by every configured rigid motion, unit-sphere
// normalizes each copy and quantizes it both on the uniform float lattice and
// adaptively. Density is estimated on each normalized copy separately.
// The adaptive meshes, the chart data and the summary table are written
// together or not at all.
func (p *Pipeline) CompareAdaptive(ctx context.Context, name string) (*AdaptiveComparison, error) {
	start := time.Now()
	t := p.tracker(ctx, name)

	cmp, err := p.compareAdaptive(t, name)

	vertices, outputs := 0, 0
	if cmp != nil && len(cmp.Variants) > 0 {
		vertices, outputs = len(cmp.Variants[0].Transformed), len(cmp.Outputs)
	}
	elapsed := time.Since(start)
	p.metrics.RecordRun(vertices, elapsed, err)
	t.logger.LogRun(ctx, vertices, outputs, elapsed, err)

	if err != nil {
		return nil, err
	}
	return cmp, nil
}

func (p *Pipeline) compareAdaptive(t *tracker, name string) (*AdaptiveComparison, error) {
	m, err := p.load(t, name)
	if err != nil {
		return nil, err
	}

	aq := quantization.Adaptive{
		BaseBins: p.cfg.BaseBins,
		MinBins:  p.cfg.MinBins,
		MaxBins:  p.cfg.MaxBins,
		K:        p.cfg.KNeighbors,
		Query:    p.neighbors,
	}

	cmp := &AdaptiveComparison{Path: name, Mesh: m.Name}
	for _, tr := range p.variants {
		v, err := p.variant(t, m.Vertices, tr, aq)
		if err != nil {
			return nil, err
		}
		t.logger.LogVariant(t.ctx, v.Variant, v.UniformMSE, v.AdaptiveMSE, v.Quantized.Bins.Clipped())
		cmp.Variants = append(cmp.Variants, v)
	}

	key := mesh.Key(name)
	estimate := int64(len(cmp.Variants))*(meshBytes(m)+rowBytes) + chartBytes
	if err := t.step(StageExport, func() error {
		staged, err := p.stageAndCommit(t.ctx, estimate, func(staged *outputs) error {
			for _, v := range cmp.Variants {
				if err := staged.addMesh(AdaptiveMeshName(key, v.Variant), m.WithVertices(v.Adaptive)); err != nil {
					return err
				}
			}
			rows := cmp.Rows()
			chart, err := report.AdaptiveChart(rows).JSON(p.codec)
			if err != nil {
				return err
			}
			staged.add(AdaptiveChartName(key), chart)
			table, err := report.AdaptiveCSV(rows)
			if err != nil {
				return err
			}
			staged.add(AdaptiveSummaryName(key), table)
			return nil
		})
		cmp.Outputs = staged.names()
		return err
	}); err != nil {
		return nil, err
	}
	return cmp, nil
}

func (p *Pipeline) variant(t *tracker, raw vertex.Set, tr vertex.Transform, aq quantization.Adaptive) (*VariantResult, error) {
	v := &VariantResult{Variant: tr.Name}

	if err := t.step(StageTransform, func() error {
		v.Transformed = tr.ApplySet(raw)
		return nil
	}); err != nil {
		return nil, err
	}

	var (
		normed  vertex.Set
		params  normalize.Params
		uniform vertex.Set
	)
	if err := t.step(StageNormalize, func() error {
		normed, params = normalize.NormalizeUnitSphere(v.Transformed)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageQuantize, func() (err error) {
		if uniform, err = quantization.Lattice(normed, p.cfg.BaseBins); err != nil {
			return err
		}
		v.Quantized, err = aq.Quantize(normed)
		return err
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageDenormalize, func() (err error) {
		if v.Uniform, err = params.Denormalize(uniform); err != nil {
			return err
		}
		v.Adaptive, err = params.Denormalize(v.Quantized.Vertices)
		return err
	}); err != nil {
		return nil, err
	}

	if err := t.step(StageEvaluate, func() (err error) {
		if v.UniformMSE, err = metric.MSE(v.Transformed, v.Uniform); err != nil {
			return err
		}
		v.AdaptiveMSE, err = metric.MSE(v.Transformed, v.Adaptive)
		return err
	}); err != nil {
		return nil, err
	}

	return v, nil
}
