// Command meshq normalizes, quantizes and evaluates 3D meshes.
//
// Usage:
//
//	meshq [flags] inspect|run|adaptive [mesh ...]
//
// Meshes are names below -in; without arguments the configured input paths
// are used. -in and -out accept a directory, s3://bucket/prefix or
// minio://host:port/bucket/prefix.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/meshq"
	"github.com/hupe1980/meshq/blobstore"
	"github.com/hupe1980/meshq/codec"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/observability"
	"github.com/hupe1980/meshq/quantization"
	"github.com/hupe1980/meshq/resource"
)

var (
	configPath  = flag.String("config", "", "YAML config file")
	inputFlag   = flag.String("in", "", "input store (overrides input_dir)")
	outputFlag  = flag.String("out", "", "output store (overrides output_dir)")
	bins        = flag.Int("bins", 0, "uniform bins per axis")
	workers     = flag.Int("workers", 0, "meshes processed concurrently")
	strategy    = flag.String("strategy", "", "run a single strategy: minmax or unitsphere")
	exportCodes = flag.Bool("codes", false, "export packed integer codes")
	compression = flag.String("compression", "", "code stream compression: none, lz4 or zstd")
	ioLimit     = flag.Int64("io-limit", 0, "output bytes per second, 0 for unlimited")
	memLimit    = flag.Int64("mem-limit", 0, "bytes of staged output across workers, 0 for unlimited")
	logLevel    = flag.String("log-level", "info", "debug, info, warn or error")
	jsonLogs    = flag.Bool("json", false, "log as JSON")
	metricsFile = flag.String("metrics-file", "", "write Prometheus metrics to this textfile on exit")
	runLogTable = flag.String("run-log-table", "", "DynamoDB table numbering batch runs")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] inspect|run|adaptive [mesh ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "meshq:", err)
		if errors.Is(err, meshq.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, meshes []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(meshes) > 0 {
		cfg.InputPaths = meshes
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("%w: log level: %w", meshq.ErrInvalidConfig, err)
	}
	logger := meshq.NewTextLogger(level)
	if *jsonLogs {
		logger = meshq.NewJSONLogger(level)
	}

	collector := observability.NewPrometheusCollector()
	opts := []meshq.Option{
		meshq.WithLogger(logger),
		meshq.WithMetricsCollector(collector),
		meshq.WithResourceController(resource.NewController(resource.Config{
			MaxWorkers:         int64(max(cfg.Workers, 1)),
			MemoryLimitBytes:   *memLimit,
			IOLimitBytesPerSec: *ioLimit,
		})),
	}

	if *inputFlag != "" {
		store, err := dial(ctx, *inputFlag)
		if err != nil {
			return err
		}
		opts = append(opts, meshq.WithInputStore(store))
	}
	if *outputFlag != "" {
		store, err := dial(ctx, *outputFlag)
		if err != nil {
			return err
		}
		opts = append(opts, meshq.WithOutputStore(store))
	}

	if *runLogTable != "" {
		baseURI := *outputFlag
		if baseURI == "" {
			baseURI = cfg.OutputDir
		}
		log, err := openRunLog(ctx, *runLogTable, baseURI)
		if err != nil {
			return err
		}
		opts = append(opts, meshq.WithRunLog(log))
	}

	p, err := meshq.New(cfg, opts...)
	if err != nil {
		return err
	}

	switch command {
	case "inspect":
		err = inspect(ctx, p, os.Stdout)
	case "run":
		err = batch(ctx, p, logger)
	case "adaptive":
		err = adaptive(ctx, p, logger)
	default:
		return fmt.Errorf("%w: unknown command %q", meshq.ErrInvalidConfig, command)
	}

	if *metricsFile != "" {
		if werr := collector.WriteToTextfile(*metricsFile); werr != nil {
			logger.Warn("write metrics", "path", *metricsFile, "error", werr)
		}
	}
	return err
}

// loadConfig reads -config, if any, and applies the flags set on the
// command line on top.
func loadConfig() (meshq.Config, error) {
	cfg := meshq.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", meshq.ErrInvalidConfig, err)
		}
		defer f.Close()
		if cfg, err = meshq.LoadConfig(f); err != nil {
			return cfg, err
		}
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			if loc, perr := parseLocation(*inputFlag); perr == nil && loc.scheme == "file" {
				cfg.InputDir = loc.path
			}
		case "out":
			if loc, perr := parseLocation(*outputFlag); perr == nil && loc.scheme == "file" {
				cfg.OutputDir = loc.path
			}
		case "bins":
			cfg.Bins = *bins
		case "workers":
			cfg.Workers = *workers
		case "codes":
			cfg.ExportCodes = *exportCodes
		case "strategy":
			s, serr := normalize.ParseStrategy(*strategy)
			if serr != nil {
				err = errors.Join(err, serr)
				return
			}
			cfg.Strategies = []normalize.Strategy{s}
		case "compression":
			c, cerr := quantization.ParseCompression(*compression)
			if cerr != nil {
				err = errors.Join(err, cerr)
				return
			}
			cfg.Compression = c
		}
	})
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", meshq.ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

func dial(ctx context.Context, raw string) (blobstore.BlobStore, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", meshq.ErrInvalidConfig, err)
	}
	return openStore(ctx, loc)
}

func inspect(ctx context.Context, p *meshq.Pipeline, w io.Writer) error {
	names, err := p.Inputs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		ins, err := p.Inspect(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		data, err := codec.Pretty(codec.Default, ins)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

func batch(ctx context.Context, p *meshq.Pipeline, logger *meshq.Logger) error {
	br, err := p.RunBatch(ctx)
	if err != nil {
		return err
	}
	for _, f := range br.Failures {
		logger.Error("mesh skipped", "mesh", f.Path, "error", f.Err)
	}
	logger.Info("error summary written", "report", br.Report, "meshes", len(br.Results), "run", br.Run)
	return nil
}

func adaptive(ctx context.Context, p *meshq.Pipeline, logger *meshq.Logger) error {
	names, err := p.Inputs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		cmp, err := p.CompareAdaptive(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, row := range cmp.Rows() {
			logger.Info("adaptive vs uniform",
				"mesh", cmp.Mesh,
				"variant", row.Variant,
				"uniform_mse", row.UniformMSE,
				"adaptive_mse", row.AdaptiveMSE,
				"mean_bins", row.MeanBins,
			)
		}
	}
	return errors.Join(errs...)
}
