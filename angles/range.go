// Package angles folds angular quantities (bearings, headings, phases) into
// a half-open interval [lower, upper) by modular wraparound.
//
// Nothing here logs or keeps state between calls; every function and
// evaluator is safe for concurrent use.
package angles

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRange is returned when lower >= upper.
	ErrInvalidRange = errors.New("invalid lower and upper limits")

	// ErrTypeMismatch is returned when the input shape (scalar or sequence)
	// does not match the normalizer mode, or the input is not numeric.
	ErrTypeMismatch = errors.New("input type does not match mode")
)

// Range is the half-open interval [Lower, Upper).
type Range struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Common ranges.
var (
	// DefaultRange is the compass-bearing convention [0, 360).
	DefaultRange = Range{Lower: 0, Upper: 360}
	// SignedRange is [-180, 180).
	SignedRange = Range{Lower: -180, Upper: 180}
)

// Validate reports ErrInvalidRange unless Lower < Upper.
// NaN bounds never satisfy the ordering and are rejected too.
func (r Range) Validate() error {
	if !(r.Lower < r.Upper) {
		return fmt.Errorf("%w: (%g, %g)", ErrInvalidRange, r.Lower, r.Upper)
	}
	return nil
}

// Span returns the wraparound period |Lower| + |Upper|.
// It equals Upper-Lower only when the range straddles zero
// (Lower <= 0 <= Upper), which covers [0, 360) and [-180, 180).
func (r Range) Span() float64 {
	return math.Abs(r.Lower) + math.Abs(r.Upper)
}

// Contains reports whether v lies in [Lower, Upper).
func (r Range) Contains(v float64) bool {
	return v >= r.Lower && v < r.Upper
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g)", r.Lower, r.Upper)
}
