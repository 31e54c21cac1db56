package meshq_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/meshq"
	"github.com/hupe1980/meshq/blobstore"
	"github.com/hupe1980/meshq/mesh"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/testutil"
)

// ExampleReconstruct round-trips a vertex set through min-max normalization
// and a 2-level quantizer.
func ExampleReconstruct() {
	cube := testutil.CubeMesh()

	rec, err := meshq.Reconstruct(cube.Vertices, normalize.MinMax, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(rec.Codes.Values[0], rec.Codes.Values[6])
	fmt.Printf("mse=%g max=%g\n", rec.MSE.Mean(), rec.MaxAbs)
	// Output:
	// [0 0 0] [1 1 1]
	// mse=0 max=0
}

// ExamplePipeline_Run processes one mesh held in memory.
func ExamplePipeline_Run() {
	ctx := context.Background()
	in := blobstore.NewMemoryStore()
	if err := mesh.Export(ctx, in, "cube.obj", testutil.CubeMesh()); err != nil {
		log.Fatal(err)
	}

	p, err := meshq.New(meshq.DefaultConfig(),
		meshq.WithInputStore(in),
		meshq.WithOutputStore(blobstore.NewMemoryStore()),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := p.Run(ctx, "cube.obj")
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range res.Outputs {
		fmt.Println(name)
	}
	// Output:
	// normalized/cube_mm_norm.obj
	// quantized/cube_mm_quant.obj
	// normalized/cube_us_norm.obj
	// quantized/cube_us_quant.obj
	// plots/cube_mse.json
}

// ExamplePipeline_RunBatch shows that a failing mesh does not stop a batch.
func ExamplePipeline_RunBatch() {
	ctx := context.Background()
	in := blobstore.NewMemoryStore()
	if err := mesh.Export(ctx, in, "cube.obj", testutil.CubeMesh()); err != nil {
		log.Fatal(err)
	}
	if err := in.Put(ctx, "points.obj", []byte("v 0 0 0\n")); err != nil {
		log.Fatal(err)
	}

	p, err := meshq.New(meshq.DefaultConfig(),
		meshq.WithInputStore(in),
		meshq.WithOutputStore(blobstore.NewMemoryStore()),
	)
	if err != nil {
		log.Fatal(err)
	}

	br, err := p.RunBatch(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(br.Results), "ok,", len(br.Failures), "failed")
	fmt.Println(br.Failures[0].Err)
	// Output:
	// 1 ok, 1 failed
	// meshq: points.obj: load: meshq: load failed: mesh: points.obj: mesh: no faces
}
