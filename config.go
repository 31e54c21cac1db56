package meshq

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/quantization"
	"gopkg.in/yaml.v3"
)

// Config describes one pipeline run. It is usually loaded from YAML:
//
//	input_dir: meshes
//	input_paths: [bunny.obj, scans/]
//	output_dir: outputs
//	strategies: [minmax, unitsphere]
//	bins: 1024
//	k_neighbors: 8
//	min_bins: 256
//	max_bins: 2048
//	base_bins: 1024
//	workers: 4
//	export_codes: true
//	compression: zstd
type Config struct {
	// InputDir is the root that InputPaths are resolved against.
	InputDir string `yaml:"input_dir"`
	// InputPaths are mesh names or directory prefixes below InputDir.
	// Empty means every .obj and .ply file below InputDir.
	InputPaths []string `yaml:"input_paths"`
	// OutputDir is the root of every file the pipeline writes.
	OutputDir string `yaml:"output_dir"`
	// Strategies are the normalizations evaluated per mesh.
	Strategies []normalize.Strategy `yaml:"strategies"`
	// Bins is the uniform quantizer resolution per axis.
	Bins int `yaml:"bins"`
	// KNeighbors is the neighbor count of the density estimate.
	KNeighbors int `yaml:"k_neighbors"`
	// MinBins and MaxBins clip the adaptive per-vertex bin count.
	MinBins int `yaml:"min_bins"`
	MaxBins int `yaml:"max_bins"`
	// BaseBins is the adaptive bin count at average density and the
	// resolution of the uniform lattice it is compared against.
	BaseBins int `yaml:"base_bins"`
	// Workers is the number of meshes processed concurrently.
	Workers int `yaml:"workers"`
	// ExportCodes writes the packed integer codes of every strategy.
	ExportCodes bool `yaml:"export_codes"`
	// Compression is the block compressor of exported code streams.
	Compression quantization.Compression `yaml:"compression"`
}

// DefaultConfig returns the settings of the reference experiments:
// both strategies, 1024 bins, k=8 and adaptive bins in [256, 2048].
func DefaultConfig() Config {
	return Config{
		InputDir:    "meshes",
		OutputDir:   "outputs",
		Strategies:  []normalize.Strategy{normalize.MinMax, normalize.UnitSphere},
		Bins:        1024,
		KNeighbors:  density.DefaultK,
		MinBins:     quantization.DefaultMinBins,
		MaxBins:     quantization.DefaultMaxBins,
		BaseBins:    quantization.DefaultBaseBins,
		Workers:     1,
		Compression: quantization.CompressionZSTD,
	}
}

// LoadConfig decodes YAML from r on top of DefaultConfig and validates it.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and reports all unusable ones, joined, as
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error

	if err := quantization.ValidateBins(c.Bins); err != nil {
		errs = append(errs, err)
	}
	if c.KNeighbors < 1 {
		errs = append(errs, fmt.Errorf("k_neighbors must be positive, got %d", c.KNeighbors))
	}
	if c.MinBins < 2 {
		errs = append(errs, fmt.Errorf("min_bins must be at least 2, got %d", c.MinBins))
	}
	if c.MinBins > c.MaxBins {
		errs = append(errs, fmt.Errorf("min_bins %d exceeds max_bins %d", c.MinBins, c.MaxBins))
	}
	if c.MaxBins > quantization.MaxBins {
		errs = append(errs, fmt.Errorf("max_bins %d exceeds %d", c.MaxBins, quantization.MaxBins))
	}
	if c.BaseBins < 1 {
		errs = append(errs, fmt.Errorf("base_bins must be positive, got %d", c.BaseBins))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if len(c.Strategies) == 0 {
		errs = append(errs, errors.New("at least one strategy is required"))
	}
	seen := make(map[normalize.Strategy]bool, len(c.Strategies))
	for _, s := range c.Strategies {
		if _, err := normalize.ParseStrategy(s.String()); err != nil {
			errs = append(errs, err)
		} else if seen[s] {
			errs = append(errs, fmt.Errorf("strategy %s listed twice", s))
		}
		seen[s] = true
	}
	if _, err := quantization.ParseCompression(c.Compression.String()); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
