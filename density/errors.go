package density

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when the neighbor count is not positive.
	ErrInvalidK = errors.New("density: k must be positive")

	// ErrInsufficientPoints is returned when a set has no more than k vertices.
	ErrInsufficientPoints = errors.New("density: insufficient points")
)

// InsufficientPointsError reports a neighbor count that the set cannot satisfy.
type InsufficientPointsError struct {
	K int
	N int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("density: %d neighbors requested but only %d vertices", e.K, e.N)
}

func (e *InsufficientPointsError) Unwrap() error { return ErrInsufficientPoints }

func checkK(n, k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if k >= n {
		return &InsufficientPointsError{K: k, N: n}
	}
	return nil
}
