package meshq

import (
	"errors"
	"fmt"

	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/metric"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/quantization"
)

var (
	// ErrLoad is returned when a mesh is missing, unreadable or has no faces.
	ErrLoad = errors.New("meshq: load failed")
	// ErrInvalidConfig is returned for unusable settings such as bins < 2.
	ErrInvalidConfig = errors.New("meshq: invalid config")
	// ErrShapeMismatch is returned when paired vertex sets differ in length.
	ErrShapeMismatch = errors.New("meshq: shape mismatch")
	// ErrInsufficientPoints is returned when a mesh has too few vertices for
	// the requested neighbor count.
	ErrInsufficientPoints = errors.New("meshq: insufficient points")
	// ErrWrite is returned when an output cannot be written.
	ErrWrite = errors.New("meshq: write failed")
)

// StageError records the mesh and pipeline stage a run failed in.
//
// The error kind (ErrLoad, ErrInvalidConfig, ...) and the original cause are
// both reachable through errors.Is / errors.As.
type StageError struct {
	Mesh  string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e.Mesh == "" {
		return fmt.Sprintf("meshq: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("meshq: %s: %s: %v", e.Mesh, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// stageError classifies err and attaches mesh and stage.
func stageError(mesh string, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Mesh: mesh, Stage: stage, Err: translateError(stage, err)}
}

func translateError(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	kinds := []error{ErrLoad, ErrInvalidConfig, ErrShapeMismatch, ErrInsufficientPoints, ErrWrite}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}

	// Boundary stages own their kind regardless of the cause.
	switch stage {
	case StageLoad:
		return fmt.Errorf("%w: %w", ErrLoad, err)
	case StageExport, StageReport:
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	switch {
	case errors.Is(err, density.ErrInsufficientPoints):
		return fmt.Errorf("%w: %w", ErrInsufficientPoints, err)
	case errors.Is(err, metric.ErrShapeMismatch):
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	case errors.Is(err, density.ErrInvalidK),
		errors.Is(err, quantization.ErrInvalidBins),
		errors.Is(err, quantization.ErrBinsMismatch),
		errors.Is(err, normalize.ErrInvalidParams),
		errors.Is(err, normalize.ErrUnknownStrategy):
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return err
}
