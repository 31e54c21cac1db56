package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/hupe1980/meshq/codec"
	"github.com/hupe1980/meshq/metric"
	"github.com/hupe1980/meshq/vertex"
)

// ErrorHeader is the header row of the error summary.
var ErrorHeader = []string{
	"file",
	"mse_mm_x", "mse_mm_y", "mse_mm_z",
	"mse_us_x", "mse_us_y", "mse_us_z",
	"mae_mm_x", "mae_mm_y", "mae_mm_z",
	"mae_us_x", "mae_us_y", "mae_us_z",
}

// AdaptiveHeader is the header row of the adaptive comparison summary.
var AdaptiveHeader = []string{
	"variant", "uniform_mse", "adaptive_mse",
	"mean_bins", "min_bins", "max_bins",
	"clipped_low", "clipped_high",
}

// StrategyErrors are the per-axis errors of one normalization strategy.
type StrategyErrors struct {
	MSE metric.PerAxis
	MAE metric.PerAxis
}

// ErrorRow holds the per-axis errors of one mesh. A strategy that was not
// evaluated is nil and renders as empty cells.
type ErrorRow struct {
	File       string
	MinMax     *StrategyErrors
	UnitSphere *StrategyErrors
}

func (r ErrorRow) record() []string {
	rec := make([]string, 0, len(ErrorHeader))
	rec = append(rec, r.File)
	rec = appendAxes(rec, r.MinMax, func(e *StrategyErrors) metric.PerAxis { return e.MSE })
	rec = appendAxes(rec, r.UnitSphere, func(e *StrategyErrors) metric.PerAxis { return e.MSE })
	rec = appendAxes(rec, r.MinMax, func(e *StrategyErrors) metric.PerAxis { return e.MAE })
	rec = appendAxes(rec, r.UnitSphere, func(e *StrategyErrors) metric.PerAxis { return e.MAE })
	return rec
}

func appendAxes(rec []string, e *StrategyErrors, pick func(*StrategyErrors) metric.PerAxis) []string {
	if e == nil {
		return append(rec, "", "", "")
	}
	for _, v := range pick(e) {
		rec = append(rec, formatFloat(v))
	}
	return rec
}

// AdaptiveRow compares uniform and adaptive quantization for one rigid-motion variant.
type AdaptiveRow struct {
	Variant     string
	UniformMSE  float64
	AdaptiveMSE float64
	MeanBins    float64
	MinBins     int
	MaxBins     int
	ClippedLow  uint64
	ClippedHigh uint64
}

func (r AdaptiveRow) record() []string {
	return []string{
		r.Variant,
		formatFloat(r.UniformMSE),
		formatFloat(r.AdaptiveMSE),
		formatFloat(r.MeanBins),
		strconv.Itoa(r.MinBins),
		strconv.Itoa(r.MaxBins),
		strconv.FormatUint(r.ClippedLow, 10),
		strconv.FormatUint(r.ClippedHigh, 10),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ErrorCSV renders rows as error_summary.csv, header first, rows in the given order.
func ErrorCSV(rows []ErrorRow) ([]byte, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, ErrorHeader)
	for _, r := range rows {
		records = append(records, r.record())
	}
	return writeCSV(records)
}

// AdaptiveCSV renders rows as adaptive_summary.csv.
func AdaptiveCSV(rows []AdaptiveRow) ([]byte, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, AdaptiveHeader)
	for _, r := range rows {
		records = append(records, r.record())
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Series is one named bar group of a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is the data behind a grouped bar plot.
type Chart struct {
	Title  string   `json:"title"`
	YLabel string   `json:"ylabel"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// MSEChart builds the per-axis MSE chart of one mesh. Nil strategies are left out.
func MSEChart(file string, minMax, unitSphere *StrategyErrors) Chart {
	c := Chart{
		Title:  "Reconstruction Error: " + file,
		YLabel: "MSE",
		Labels: append([]string(nil), vertex.AxisNames[:]...),
	}
	if minMax != nil {
		c.Series = append(c.Series, Series{Name: "Min-Max", Values: append([]float64(nil), minMax.MSE[:]...)})
	}
	if unitSphere != nil {
		c.Series = append(c.Series, Series{Name: "Unit-Sphere", Values: append([]float64(nil), unitSphere.MSE[:]...)})
	}
	return c
}

// AdaptiveChart builds the uniform vs adaptive chart over all variants.
func AdaptiveChart(rows []AdaptiveRow) Chart {
	c := Chart{
		Title:  "Adaptive vs Uniform Quantization Error",
		YLabel: "MSE",
		Labels: make([]string, len(rows)),
		Series: []Series{
			{Name: "Uniform", Values: make([]float64, len(rows))},
			{Name: "Adaptive", Values: make([]float64, len(rows))},
		},
	}
	for i, r := range rows {
		c.Labels[i] = r.Variant
		c.Series[0].Values[i] = r.UniformMSE
		c.Series[1].Values[i] = r.AdaptiveMSE
	}
	return c
}

// JSON encodes c with the given codec, or codec.Default when nil.
func (c Chart) JSON(cd codec.Codec) ([]byte, error) {
	return codec.Pretty(cd, c)
}
