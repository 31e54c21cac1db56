// Package metric computes reconstruction error between paired vertex sets.
package metric

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrShapeMismatch is returned when the paired sets differ in length.
var ErrShapeMismatch = errors.New("metric: shape mismatch")

// ShapeError reports the lengths of mismatched sets.
type ShapeError struct {
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("metric: shape mismatch: %d vs %d vertices", e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// PerAxis holds one value per coordinate axis.
type PerAxis [vertex.Axes]float64

// Mean returns the average over the three axes.
func (p PerAxis) Mean() float64 {
	return (p[0] + p[1] + p[2]) / vertex.Axes
}

// MSE returns the mean squared error over every coordinate of a and b.
func MSE(a, b vertex.Set) (float64, error) {
	axes, err := MSEPerAxis(a, b)
	if err != nil {
		return 0, err
	}
	return axes.Mean(), nil
}

// MAE returns the mean absolute error over every coordinate of a and b.
func MAE(a, b vertex.Set) (float64, error) {
	axes, err := MAEPerAxis(a, b)
	if err != nil {
		return 0, err
	}
	return axes.Mean(), nil
}

// MSEPerAxis returns the mean squared error of each axis.
func MSEPerAxis(a, b vertex.Set) (PerAxis, error) {
	return reduce(a, b, func(d float64) float64 { return d * d })
}

// MAEPerAxis returns the mean absolute error of each axis.
func MAEPerAxis(a, b vertex.Set) (PerAxis, error) {
	return reduce(a, b, math.Abs)
}

// MaxAbs returns the largest absolute coordinate difference.
func MaxAbs(a, b vertex.Set) (float64, error) {
	if len(a) != len(b) {
		return 0, &ShapeError{Want: len(a), Got: len(b)}
	}
	var worst float64
	for i := range a {
		d := r3.Sub(a[i], b[i])
		worst = math.Max(worst, math.Max(math.Abs(d.X), math.Max(math.Abs(d.Y), math.Abs(d.Z))))
	}
	return worst, nil
}

func reduce(a, b vertex.Set, fn func(float64) float64) (PerAxis, error) {
	if len(a) != len(b) {
		return PerAxis{}, &ShapeError{Want: len(a), Got: len(b)}
	}
	var sum PerAxis
	if len(a) == 0 {
		return sum, nil
	}
	for i := range a {
		d := r3.Sub(a[i], b[i])
		sum[0] += fn(d.X)
		sum[1] += fn(d.Y)
		sum[2] += fn(d.Z)
	}
	n := float64(len(a))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}
