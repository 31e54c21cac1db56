package meshq

import (
	"github.com/hupe1980/meshq/blobstore"
	"github.com/hupe1980/meshq/codec"
	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/resource"
	"github.com/hupe1980/meshq/runlog"
	"github.com/hupe1980/meshq/vertex"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	input            blobstore.BlobStore
	output           blobstore.BlobStore
	resources        *resource.Controller
	variants         []vertex.Transform
	codec            codec.Codec
	neighbors        density.NeighborQuery
	runLog           runlog.Log
}

// Option configures a Pipeline.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example:
//
//	p, _ := meshq.New(cfg, meshq.WithLogger(meshq.NewJSONLogger(slog.LevelDebug)))
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &meshq.BasicMetricsCollector{}
//	p, _ := meshq.New(cfg, meshq.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithInputStore reads meshes from s instead of the local InputDir.
func WithInputStore(s blobstore.BlobStore) Option {
	return func(o *options) {
		o.input = s
	}
}

// WithOutputStore writes every output to s instead of the local OutputDir.
func WithOutputStore(s blobstore.BlobStore) Option {
	return func(o *options) {
		o.output = s
	}
}

// WithResourceController bounds worker slots, staged memory and write
// throughput. Without it, a controller with Config.Workers slots is used.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithVariants replaces the rigid motions of CompareAdaptive.
func WithVariants(variants ...vertex.Transform) Option {
	return func(o *options) {
		o.variants = variants
	}
}

// WithCodec configures the codec of JSON outputs.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithNeighborQuery replaces the spatial index of the density estimate.
func WithNeighborQuery(q density.NeighborQuery) Option {
	return func(o *options) {
		o.neighbors = q
	}
}

// WithRunLog numbers every completed batch in l. BatchResult.Run carries the
// assigned number.
func WithRunLog(l runlog.Log) Option {
	return func(o *options) {
		o.runLog = l
	}
}
