package angles

import (
	"gonum.org/v1/gonum/floats"
)

// Evaluator normalizes a whole sequence into a range.
//
// Implementations must return a freshly allocated slice, leave values
// untouched and agree element for element with Scalar.
type Evaluator interface {
	Evaluate(values []float64, r Range) ([]float64, error)
}

// Vectorized evaluates a sequence with boolean masks over the whole slice
// instead of per-value branching. Both fold masks are computed against the
// original input and applied independently to a private copy.
type Vectorized struct{}

// Evaluate implements Evaluator.
func (Vectorized) Evaluate(values []float64, r Range) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	res := make([]float64, len(values))
	copy(res, values)
	if len(res) == 0 {
		return res, nil
	}

	span := r.Span()

	// Masks are taken from values, not res
	above, _ := floats.Find(nil, r.wrapsFromAbove, values, -1)
	below, _ := floats.Find(nil, r.wrapsFromBelow, values, -1)

	// res[above] = lower + |res[above] + upper| % span
	if len(above) > 0 {
		sub := gather(res, above)
		floats.AddConst(r.Upper, sub)
		residues(sub, span)
		floats.AddConst(r.Lower, sub)
		scatter(res, above, sub)
	}

	// res[below] = upper - |res[below] - lower| % span
	if len(below) > 0 {
		sub := gather(res, below)
		floats.AddConst(-r.Lower, sub)
		residues(sub, span)
		floats.Scale(-1, sub)
		floats.AddConst(r.Upper, sub)
		scatter(res, below, sub)
	}

	// res[res == upper] = lower
	closed, _ := floats.Find(nil, func(v float64) bool { return v == r.Upper }, res, -1)
	for _, i := range closed {
		res[i] = r.Lower
	}

	return res, nil
}

// gather copies s[idx] into a new slice.
func gather(s []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for j, i := range idx {
		out[j] = s[i]
	}
	return out
}

// scatter writes sub back to s at idx.
func scatter(s []float64, idx []int, sub []float64) {
	for j, i := range idx {
		s[i] = sub[j]
	}
}

// residues replaces each element with its residue modulo span.
func residues(s []float64, span float64) {
	for i, v := range s {
		s[i] = residue(v, span)
	}
}

// Elementwise evaluates a sequence one value at a time through the scalar
// branching path. It exists so the vectorized path has something to be
// checked against, and for callers who prefer no intermediate buffers.
type Elementwise struct{}

// Evaluate implements Evaluator.
func (Elementwise) Evaluate(values []float64, r Range) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	res := make([]float64, len(values))
	for i, v := range values {
		res[i] = r.wrap(v)
	}
	return res, nil
}
