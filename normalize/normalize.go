package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidParams is returned when Params cannot invert a mapping,
	// e.g. a non-positive or non-finite unit-sphere scale.
	ErrInvalidParams = errors.New("normalize: invalid normalization parameters")

	// ErrUnknownStrategy is returned for strategy names that are not recognized.
	ErrUnknownStrategy = errors.New("normalize: unknown strategy")
)

// Strategy selects a normalization scheme.
type Strategy int

const (
	MinMax Strategy = iota
	UnitSphere
)

// Strategies lists every supported strategy in report order.
var Strategies = []Strategy{MinMax, UnitSphere}

func (s Strategy) String() string {
	switch s {
	case MinMax:
		return "minmax"
	case UnitSphere:
		return "unitsphere"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Short returns the abbreviation used in file names and report columns.
func (s Strategy) Short() string {
	switch s {
	case MinMax:
		return "mm"
	case UnitSphere:
		return "us"
	default:
		return "unknown"
	}
}

// ParseStrategy accepts the long name or the abbreviation of a strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "minmax", "min-max", "mm":
		return MinMax, nil
	case "unitsphere", "unit-sphere", "us":
		return UnitSphere, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Params holds what is needed to invert one normalization run.
// Only the fields of the producing strategy are meaningful.
type Params struct {
	Strategy Strategy

	// MinMax
	Min r3.Vec
	Max r3.Vec

	// UnitSphere
	Centroid r3.Vec
	Scale    float64
}

// Span returns the per-axis divisor used by min-max normalization.
// A zero extent is replaced by 1.
func (p Params) Span() r3.Vec {
	d := r3.Sub(p.Max, p.Min)
	return vertex.Apply(d, func(c float64) float64 {
		if c == 0 {
			return 1
		}
		return c
	})
}

// Validate reports whether p can invert its mapping.
func (p Params) Validate() error {
	switch p.Strategy {
	case MinMax:
		return nil
	case UnitSphere:
		if p.Scale <= 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
			return fmt.Errorf("%w: scale %v", ErrInvalidParams, p.Scale)
		}
		return nil
	default:
		return fmt.Errorf("%w: strategy %v", ErrUnknownStrategy, p.Strategy)
	}
}

// Denormalize maps normalized (or dequantized) coordinates back into the
// original space.
func (p Params) Denormalize(s vertex.Set) (vertex.Set, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Strategy {
	case MinMax:
		span := p.Span()
		return s.Map(func(v r3.Vec) r3.Vec {
			return r3.Add(vertex.MulElem(v, span), p.Min)
		}), nil
	default:
		return s.Map(func(v r3.Vec) r3.Vec {
			return r3.Add(r3.Scale(p.Scale, v), p.Centroid)
		}), nil
	}
}

// Normalize dispatches to the given strategy.
func Normalize(s vertex.Set, strategy Strategy) (vertex.Set, Params, error) {
	switch strategy {
	case MinMax:
		out, p := NormalizeMinMax(s)
		return out, p, nil
	case UnitSphere:
		out, p := NormalizeUnitSphere(s)
		return out, p, nil
	default:
		return nil, Params{}, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
}

// NormalizeMinMax rescales each axis into [0,1] using the observed extent.
func NormalizeMinMax(s vertex.Set) (vertex.Set, Params) {
	lo, hi := s.Bounds()
	p := Params{Strategy: MinMax, Min: lo, Max: hi}
	span := p.Span()
	return s.Map(func(v r3.Vec) r3.Vec {
		return vertex.DivElem(r3.Sub(v, lo), span)
	}), p
}

// NormalizeUnitSphere centers s on its centroid and scales it so the farthest
// vertex lies on the unit sphere. A single point (zero scale) uses scale 1.
func NormalizeUnitSphere(s vertex.Set) (vertex.Set, Params) {
	c := s.Centroid()
	var scale float64
	for _, v := range s {
		scale = math.Max(scale, r3.Norm(r3.Sub(v, c)))
	}
	if scale == 0 {
		scale = 1
	}
	p := Params{Strategy: UnitSphere, Centroid: c, Scale: scale}
	inv := 1 / scale
	return s.Map(func(v r3.Vec) r3.Vec {
		return r3.Scale(inv, r3.Sub(v, c))
	}), p
}
