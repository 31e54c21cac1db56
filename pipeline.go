package meshq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/meshq/blobstore"
	"github.com/hupe1980/meshq/codec"
	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/mesh"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/report"
	"github.com/hupe1980/meshq/resource"
	"github.com/hupe1980/meshq/runlog"
	"github.com/hupe1980/meshq/vertex"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the normalize/quantize/evaluate experiments over meshes.
// A Pipeline is safe for concurrent use; runs on different meshes share no
// mutable state.
type Pipeline struct {
	cfg       Config
	logger    *Logger
	metrics   MetricsCollector
	in        blobstore.BlobStore
	out       blobstore.BlobStore
	resources *resource.Controller
	variants  []vertex.Transform
	codec     codec.Codec
	neighbors density.NeighborQuery
	runLog    runlog.Log
}

// New validates cfg and creates a Pipeline.
func New(cfg Config, optFns ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		codec:            codec.Default,
		variants:         vertex.DefaultVariants(),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if o.input == nil {
		o.input = blobstore.NewLocalStore(cfg.InputDir)
	}
	if o.output == nil {
		if cfg.OutputDir == "" {
			return nil, fmt.Errorf("%w: output_dir is required without an output store", ErrInvalidConfig)
		}
		o.output = blobstore.NewLocalStore(cfg.OutputDir)
	}
	if o.resources == nil {
		o.resources = resource.NewController(resource.Config{MaxWorkers: int64(max(cfg.Workers, 1))})
	}

	return &Pipeline{
		cfg:       cfg,
		logger:    o.logger,
		metrics:   o.metricsCollector,
		in:        o.input,
		out:       resource.Throttle(o.output, o.resources),
		resources: o.resources,
		variants:  o.variants,
		codec:     o.codec,
		neighbors: o.neighbors,
		runLog:    o.runLog,
	}, nil
}

// Config returns the validated configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Inputs resolves Config.InputPaths to mesh names. Entries with a mesh
// extension are taken as is; anything else is a directory prefix expanded to
// the .obj and .ply files below it. Order is preserved and duplicates dropped.
func (p *Pipeline) Inputs(ctx context.Context) ([]string, error) {
	paths := p.cfg.InputPaths
	if len(paths) == 0 {
		paths = []string{""}
	}

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, in := range paths {
		if _, err := mesh.FormatOf(in); err == nil {
			add(in)
			continue
		}

		prefix := strings.TrimSuffix(in, "/")
		if prefix != "" {
			prefix += "/"
		}
		listed, err := p.in.List(ctx, prefix)
		if err != nil {
			return nil, stageError(in, StageLoad, err)
		}
		found := 0
		for _, name := range listed {
			if _, err := mesh.FormatOf(name); err == nil {
				add(name)
				found++
			}
		}
		if found == 0 {
			return nil, stageError(in, StageLoad, fmt.Errorf("no .obj or .ply files below %q", in))
		}
	}
	return names, nil
}

func (p *Pipeline) tracker(ctx context.Context, name string) *tracker {
	return &tracker{
		ctx:     ctx,
		mesh:    name,
		logger:  p.logger.WithMesh(name),
		metrics: p.metrics,
	}
}

func (p *Pipeline) load(t *tracker, name string) (mesh.Mesh, error) {
	var m mesh.Mesh
	err := t.step(StageLoad, func() (err error) {
		if m, err = mesh.Load(t.ctx, p.in, name); err != nil {
			return err
		}
		if !m.Vertices.IsFinite() {
			return errors.New("mesh has non-finite vertex coordinates")
		}
		return nil
	})
	return m, err
}

// Inspection summarizes one mesh.
type Inspection struct {
	Path     string       `json:"path"`
	Mesh     string       `json:"mesh"`
	Vertices int          `json:"vertices"`
	Faces    int          `json:"faces"`
	Stats    vertex.Stats `json:"stats"`
}

// Inspect loads a mesh and returns its vertex statistics.
func (p *Pipeline) Inspect(ctx context.Context, name string) (*Inspection, error) {
	m, err := p.load(p.tracker(ctx, name), name)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Path:     name,
		Mesh:     m.Name,
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
		Stats:    vertex.Summarize(m.Vertices),
	}, nil
}

// Result is the outcome of one mesh run.
type Result struct {
	Path            string
	Mesh            string
	Vertices        int
	Faces           int
	Reconstructions []*Reconstruction
	// Outputs are the names written to the output store.
	Outputs []string
}

// Reconstruction returns the round trip of strategy s, if it ran.
func (r *Result) Reconstruction(s normalize.Strategy) (*Reconstruction, bool) {
	for _, rec := range r.Reconstructions {
		if rec.Strategy == s {
			return rec, true
		}
	}
	return nil, false
}

// ErrorRow returns the mesh's line of the error summary.
func (r *Result) ErrorRow() report.ErrorRow {
	row := report.ErrorRow{File: mesh.RelPath(r.Path)}
	if rec, ok := r.Reconstruction(normalize.MinMax); ok {
		row.MinMax = rec.Errors()
	}
	if rec, ok := r.Reconstruction(normalize.UnitSphere); ok {
		row.UnitSphere = rec.Errors()
	}
	return row
}

// Run processes one mesh: every configured strategy is reconstructed and
// evaluated, then all outputs of the mesh are written. Outputs are written
// only after every stage succeeded, and a failed write removes the outputs
// already written, so a mesh leaves either all of its files or none.
func (p *Pipeline) Run(ctx context.Context, name string) (*Result, error) {
	start := time.Now()
	t := p.tracker(ctx, name)

	res, err := p.run(t, name)

	elapsed := time.Since(start)
	vertices, outputs := 0, 0
	if res != nil {
		vertices, outputs = res.Vertices, len(res.Outputs)
	}
	p.metrics.RecordRun(vertices, elapsed, err)
	t.logger.LogRun(ctx, vertices, outputs, elapsed, err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) run(t *tracker, name string) (*Result, error) {
	m, err := p.load(t, name)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Path:     name,
		Mesh:     m.Name,
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
	}
	for _, s := range p.cfg.Strategies {
		rec, err := reconstruct(t, m.Vertices, s, p.cfg.Bins)
		if err != nil {
			return nil, err
		}
		res.Reconstructions = append(res.Reconstructions, rec)
	}

	perStrategy := 2 * meshBytes(m)
	if p.cfg.ExportCodes {
		perStrategy += codesBytes(len(m.Vertices))
	}
	estimate := int64(len(res.Reconstructions))*perStrategy + chartBytes

	if err := t.step(StageExport, func() error {
		staged, err := p.stageAndCommit(t.ctx, estimate, func(staged *outputs) error {
			return p.stageMeshOutputs(staged, m, res)
		})
		res.Outputs = staged.names()
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) stageMeshOutputs(staged *outputs, m mesh.Mesh, res *Result) error {
	key := mesh.Key(res.Path)
	for _, rec := range res.Reconstructions {
		short := rec.Strategy.Short()
		if err := staged.addMesh(NormalizedName(key, rec.Strategy), m.WithVertices(rec.Normalized)); err != nil {
			return err
		}
		if err := staged.addMesh(QuantizedName(key, rec.Strategy), m.WithVertices(rec.Vertices)); err != nil {
			return err
		}
		if p.cfg.ExportCodes {
			data, err := rec.Codes.Encode(p.cfg.Compression)
			if err != nil {
				return fmt.Errorf("encode %s codes: %w", short, err)
			}
			staged.add(CodesName(key, rec.Strategy), data)
		}
	}

	row := res.ErrorRow()
	chart, err := report.MSEChart(row.File, row.MinMax, row.UnitSphere).JSON(p.codec)
	if err != nil {
		return err
	}
	staged.add(ChartName(key), chart)
	return nil
}

// BatchResult is the outcome of RunBatch.
type BatchResult struct {
	// Results holds the successful meshes in input order.
	Results []*Result
	// Failures holds the failed meshes in input order.
	Failures []Failure
	// Report is the name of the written error summary.
	Report string
	// Run is the number assigned by the run log, or 0 without one.
	Run uint64
}

// Failure records why a mesh of a batch failed.
type Failure struct {
	Path string
	Err  error
}

// RunBatch runs every input mesh and writes the error summary. A failing
// mesh is logged and reported in Failures; the batch continues. Meshes run
// concurrently up to the resource controller's worker limit and results keep
// input order. An input whose output key (mesh.Key) was already taken by an
// earlier input fails with ErrWrite without running. The returned error is
// non-nil only if the inputs cannot be
// resolved, ctx is canceled, or the summary cannot be written or logged.
func (p *Pipeline) RunBatch(ctx context.Context) (*BatchResult, error) {
	start := time.Now()

	inputs, err := p.Inputs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	// a/part.obj and a/part.ply share output names; the later one fails.
	owners := make(map[string]string, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range inputs {
		key := mesh.Key(name)
		if owner, ok := owners[key]; ok {
			errs[i] = stageError(name, StageExport, fmt.Errorf("%w: outputs of %s collide with %s", ErrWrite, name, owner))
			p.logger.WarnContext(ctx, "mesh skipped", "mesh", name, "error", errs[i])
			continue
		}
		owners[key] = name

		if err := p.resources.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer p.resources.ReleaseWorker()
			results[i], errs[i] = p.Run(gctx, name)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	br := &BatchResult{}
	rows := make([]report.ErrorRow, 0, len(inputs))
	for i, name := range inputs {
		if errs[i] != nil {
			br.Failures = append(br.Failures, Failure{Path: name, Err: errs[i]})
			continue
		}
		br.Results = append(br.Results, results[i])
		rows = append(rows, results[i].ErrorRow())
	}

	elapsed := time.Since(start)
	p.metrics.RecordBatch(len(inputs), len(br.Failures), elapsed)
	p.logger.LogBatch(ctx, len(inputs), len(br.Failures), elapsed)

	if err := p.writeSummary(ctx, rows); err != nil {
		return br, err
	}
	br.Report = ErrorSummaryName

	if p.runLog != nil {
		run, err := p.runLog.Append(ctx, runlog.Entry{
			Report:   br.Report,
			Meshes:   len(inputs),
			Failed:   len(br.Failures),
			Elapsed:  time.Since(start),
			Finished: time.Now(),
		})
		if err != nil {
			return br, stageError("", StageReport, err)
		}
		br.Run = run
		p.logger.InfoContext(ctx, "run logged", "run", run)
	}
	return br, nil
}

func (p *Pipeline) writeSummary(ctx context.Context, rows []report.ErrorRow) error {
	t := &tracker{ctx: ctx, logger: p.logger, metrics: p.metrics}
	return t.step(StageReport, func() error {
		data, err := report.ErrorCSV(rows)
		if err != nil {
			return err
		}
		_, err = p.stageAndCommit(ctx, int64(len(data)), func(staged *outputs) error {
			staged.add(ErrorSummaryName, data)
			return nil
		})
		return err
	})
}
