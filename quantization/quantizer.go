package quantization

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxBins bounds the bin count so codes fit in uint32.
const MaxBins = 1 << 30

var (
	// ErrInvalidBins is returned for bin counts below 2 or above MaxBins.
	ErrInvalidBins = errors.New("quantization: invalid bin count")

	// ErrBinsMismatch is returned when codes are dequantized with a quantizer
	// configured for a different bin count.
	ErrBinsMismatch = errors.New("quantization: bin count mismatch")
)

// ValidateBins reports whether bins can drive a uniform lattice.
func ValidateBins(bins int) error {
	if bins < 2 || bins > MaxBins {
		return fmt.Errorf("%w: %d (must be in [2, %d])", ErrInvalidBins, bins, MaxBins)
	}
	return nil
}

// Codes are per-vertex, per-axis integer codes in [0, Bins-1].
// They are only meaningful together with Bins.
type Codes struct {
	Bins   int
	Values [][vertex.Axes]uint32
}

// Len returns the number of vertices encoded.
func (c Codes) Len() int { return len(c.Values) }

// Dequantize maps codes back onto [0,1]: x' = code/(Bins-1).
func (c Codes) Dequantize() (vertex.Set, error) {
	if err := ValidateBins(c.Bins); err != nil {
		return nil, err
	}
	inv := 1 / float64(c.Bins-1)
	out := make(vertex.Set, len(c.Values))
	for i, q := range c.Values {
		out[i] = r3.Vec{
			X: float64(q[0]) * inv,
			Y: float64(q[1]) * inv,
			Z: float64(q[2]) * inv,
		}
	}
	return out, nil
}

// Uniform quantizes coordinates in [0,1] onto a shared lattice of Bins levels.
type Uniform struct {
	bins int
}

// NewUniform creates a uniform quantizer. bins must be at least 2.
func NewUniform(bins int) (*Uniform, error) {
	if err := ValidateBins(bins); err != nil {
		return nil, err
	}
	return &Uniform{bins: bins}, nil
}

// Bins returns the configured bin count.
func (u *Uniform) Bins() int { return u.bins }

// Quantize encodes every coordinate as floor(x*(bins-1)).
// Inputs outside [0,1] are clamped to the nearest valid code.
func (u *Uniform) Quantize(s vertex.Set) Codes {
	top := float64(u.bins - 1)
	codes := Codes{Bins: u.bins, Values: make([][vertex.Axes]uint32, len(s))}
	for i, v := range s {
		for a := 0; a < vertex.Axes; a++ {
			codes.Values[i][a] = encode(vertex.Component(v, a), top)
		}
	}
	return codes
}

// Dequantize decodes codes produced by a quantizer with the same bin count.
func (u *Uniform) Dequantize(c Codes) (vertex.Set, error) {
	if c.Bins != u.bins {
		return nil, fmt.Errorf("%w: quantizer has %d, codes have %d", ErrBinsMismatch, u.bins, c.Bins)
	}
	return c.Dequantize()
}

// StepSize is the width of one bin in the normalized domain, 1/(bins-1).
func (u *Uniform) StepSize() float64 {
	return 1 / float64(u.bins-1)
}

// MaxError bounds the per-coordinate round-trip error in the normalized domain.
// Flooring can lose up to one full step.
func (u *Uniform) MaxError() float64 {
	return u.StepSize()
}

// Quantize is a shorthand for NewUniform(bins) followed by Quantize.
func Quantize(s vertex.Set, bins int) (Codes, error) {
	u, err := NewUniform(bins)
	if err != nil {
		return Codes{}, err
	}
	return u.Quantize(s), nil
}

func encode(x, top float64) uint32 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	q := math.Floor(x * top)
	if q >= top {
		return uint32(top)
	}
	return uint32(q)
}
