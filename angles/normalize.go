package angles

import "math"

// Wraparound classification and residue shared by the scalar and bulk paths.
// Both paths must produce bit-identical results, so the arithmetic lives here
// once and the bulk path only changes how it is broadcast.

// wrapsFromAbove reports whether v is folded down from above the range.
// v == Lower is included so that the lower edge is re-derived from the
// period rather than passed through.
func (r Range) wrapsFromAbove(v float64) bool {
	return v > r.Upper || v == r.Lower
}

// wrapsFromBelow reports whether v is folded up from below the range.
func (r Range) wrapsFromBelow(v float64) bool {
	return v < r.Lower || v == r.Upper
}

// residue is |shifted| mod span. Both operands are non-negative, so
// math.Mod matches floored modulo here.
func residue(shifted, span float64) float64 {
	return math.Mod(math.Abs(shifted), span)
}

// wrap normalizes a single value. Both folds are classified on the input
// value, never on a folded one, matching the masks of Vectorized; the upper
// edge is then closed onto Lower.
func (r Range) wrap(num float64) float64 {
	span := r.Span()
	above, below := r.wrapsFromAbove(num), r.wrapsFromBelow(num)
	if above {
		num = r.Lower + residue(num+r.Upper, span)
	}
	if below {
		num = r.Upper - residue(num-r.Lower, span)
	}
	if num == r.Upper {
		return r.Lower
	}
	return num
}

// Scalar normalizes num into [lower, upper).
//
// The result is always a float64 with lower <= result < upper for ranges
// that straddle zero. Behaviour for non-finite num is unspecified.
func Scalar(num, lower, upper float64) (float64, error) {
	r := Range{Lower: lower, Upper: upper}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r.wrap(num), nil
}

// Sequence normalizes every value into [lower, upper) using the vectorized
// path. The result is a new slice of the same length and order; values is
// never modified. On error no partial result is returned.
func Sequence(values []float64, lower, upper float64) ([]float64, error) {
	return Vectorized{}.Evaluate(values, Range{Lower: lower, Upper: upper})
}

// In normalizes num into r. It is Scalar with the bounds taken from r.
func (r Range) In(num float64) (float64, error) {
	return Scalar(num, r.Lower, r.Upper)
}
