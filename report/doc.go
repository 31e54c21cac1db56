// Package report renders reconstruction errors as CSV tables and JSON chart
// series.
//
// The CSV layouts are fixed:
//
//	error_summary.csv     file, mse_mm_{x,y,z}, mse_us_{x,y,z}, mae_mm_{x,y,z}, mae_us_{x,y,z}
//	adaptive_summary.csv  variant, uniform_mse, adaptive_mse, mean_bins, min_bins, max_bins, clipped_low, clipped_high
//
// Chart series are a list of labels plus named value series, one value per
// label, and stand in for bar plots.
package report
