package meshq

import (
	"context"
	"fmt"
	"path"

	"github.com/hupe1980/meshq/mesh"
	"github.com/hupe1980/meshq/normalize"
)

// ErrorSummaryName is the name of the batch error table.
const ErrorSummaryName = "error_summary.csv"

// Output names are built from a mesh key (see mesh.Key), so two inputs in
// different directories never write to the same name.

// NormalizedName is the output name of a normalized mesh.
func NormalizedName(key string, s normalize.Strategy) string {
	return path.Join("normalized", key+"_"+s.Short()+"_norm.obj")
}

// QuantizedName is the output name of a reconstructed mesh.
func QuantizedName(key string, s normalize.Strategy) string {
	return path.Join("quantized", key+"_"+s.Short()+"_quant.obj")
}

// CodesName is the output name of an exported code stream.
func CodesName(key string, s normalize.Strategy) string {
	return path.Join("codes", key+"_"+s.Short()+"_codes.bin")
}

// ChartName is the output name of a mesh's per-axis MSE chart data.
func ChartName(key string) string {
	return path.Join("plots", key+"_mse.json")
}

// AdaptiveMeshName is the output name of an adaptively quantized variant.
func AdaptiveMeshName(key, variant string) string {
	return path.Join("adaptive", key, variant+"_adaptive.obj")
}

// AdaptiveChartName is the output name of the adaptive comparison chart data.
func AdaptiveChartName(key string) string {
	return path.Join("adaptive", key, "adaptive_vs_uniform.json")
}

// AdaptiveSummaryName is the output name of the adaptive comparison table.
func AdaptiveSummaryName(key string) string {
	return path.Join("adaptive", key, "adaptive_summary.csv")
}

type output struct {
	name string
	data []byte
}

// outputs are encoded in memory before anything is written.
type outputs []output

func (o *outputs) add(name string, data []byte) {
	*o = append(*o, output{name: name, data: data})
}

func (o *outputs) addMesh(name string, m mesh.Mesh) error {
	data, err := mesh.Encode(name, m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	o.add(name, data)
	return nil
}

func (o outputs) names() []string {
	names := make([]string, len(o))
	for i, out := range o {
		names[i] = out.name
	}
	return names
}

func (o outputs) size() int64 {
	var n int64
	for _, out := range o {
		n += int64(len(out.data))
	}
	return n
}

// Upper-bound sizes of one encoded OBJ line and of the fixed-size outputs.
const (
	vertexLineBytes = 80
	faceLineBytes   = 40
	chartBytes      = 4 << 10
	rowBytes        = 256
)

// meshBytes estimates the encoded size of m with its vertices replaced.
func meshBytes(m mesh.Mesh) int64 {
	return int64(len(m.Vertices))*vertexLineBytes + int64(len(m.Faces))*faceLineBytes
}

// codesBytes bounds an uncompressed code stream of n vertices.
func codesBytes(n int) int64 {
	return int64(n)*3*4 + 64
}

// stageAndCommit reserves estimate bytes of staging memory, lets stage encode
// the outputs and commits them. The reservation is held until the outputs
// are written, so the memory limit covers encoding as well as writing.
func (p *Pipeline) stageAndCommit(ctx context.Context, estimate int64, stage func(*outputs) error) (outputs, error) {
	if err := p.resources.AcquireMemory(ctx, estimate); err != nil {
		return nil, err
	}
	defer p.resources.ReleaseMemory(estimate)

	var staged outputs
	if err := stage(&staged); err != nil {
		return nil, err
	}
	if size := staged.size(); size > estimate {
		p.logger.DebugContext(ctx, "staged outputs exceed estimate", "estimate", estimate, "size", size)
	}
	if err := p.commit(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// commit writes every staged output. If a write fails, the outputs written
// so far are deleted before the error is returned.
func (p *Pipeline) commit(ctx context.Context, staged outputs) error {
	written := make([]string, 0, len(staged))
	for _, out := range staged {
		if err := p.out.Put(ctx, out.name, out.data); err != nil {
			p.rollback(ctx, written)
			return fmt.Errorf("%s: %w", out.name, err)
		}
		written = append(written, out.name)
		p.metrics.RecordBytesWritten(len(out.data))
	}
	return nil
}

func (p *Pipeline) rollback(ctx context.Context, written []string) {
	ctx = context.WithoutCancel(ctx)
	for _, name := range written {
		if err := p.out.Delete(ctx, name); err != nil {
			p.logger.WarnContext(ctx, "rollback failed", "output", name, "error", err)
		}
	}
}
