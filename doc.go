// Package meshq measures how much 3D mesh geometry is lost when vertex
// coordinates are normalized and quantized to fixed-point codes.
//
// Every mesh runs through a linear pipeline:
//
//	load → normalize → quantize → dequantize → denormalize → evaluate → export
//
// Two normalizations are supported: per-axis min-max into [0,1] and
// unit-sphere (centroid shift plus uniform scale). Quantization is uniform
// with floor(x*(bins-1)) codes. A second, density-adaptive quantizer gives
// every vertex its own resolution from the mean distance to its k nearest
// neighbors and is compared against a uniform lattice under rigid motions.
//
// # Quick Start
//
//	cfg := meshq.DefaultConfig()
//	cfg.InputDir = "meshes"
//	cfg.OutputDir = "outputs"
//
//	p, err := meshq.New(cfg, meshq.WithLogger(meshq.NewTextLogger(slog.LevelInfo)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch, err := p.RunBatch(ctx)
//	for _, f := range batch.Failures {
//	    log.Printf("%s: %v", f.Path, f.Err)
//	}
//
// # Outputs
//
// Per mesh <key> and strategy <s> (mm or us), where <key> is the mesh's
// path in the input store without its extension (meshes/bunny.ply gives
// meshes/bunny):
//
//	normalized/<key>_<s>_norm.obj
//	quantized/<key>_<s>_quant.obj
//	codes/<key>_<s>_codes.bin      (ExportCodes only)
//	plots/<key>_mse.json
//
// Per batch: error_summary.csv. Per adaptive comparison:
// adaptive/<key>/<variant>_adaptive.obj, adaptive_vs_uniform.json and
// adaptive_summary.csv.
//
// With WithRunLog, every completed batch is appended to a run log (in memory
// or a DynamoDB table, see package runlog) and BatchResult.Run carries its
// sequence number.
//
// # Errors
//
// Every failure is a *StageError naming the mesh and the stage, wrapping one
// of ErrLoad, ErrInvalidConfig, ErrShapeMismatch, ErrInsufficientPoints or
// ErrWrite. A failing mesh never stops a batch.
package meshq
