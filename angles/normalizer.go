package angles

import (
	"fmt"
)

// Mode selects which input shape a Normalizer accepts.
type Mode int

const (
	// ModeScalar accepts single numeric values only.
	ModeScalar Mode = iota
	// ModeBulk accepts numeric slices only.
	ModeBulk
)

func (m Mode) String() string {
	switch m {
	case ModeScalar:
		return "scalar"
	case ModeBulk:
		return "bulk"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ModeFor maps the bulk flag to a Mode.
func ModeFor(bulk bool) Mode {
	if bulk {
		return ModeBulk
	}
	return ModeScalar
}

// Strategy names accepted by NewEvaluator.
const (
	StrategyVectorized  = "vectorized"
	StrategyElementwise = "elementwise"
	StrategyChunked     = "chunked"
)

// NewEvaluator returns the evaluator registered under name.
// chunkSize and workers only apply to StrategyChunked.
func NewEvaluator(name string, chunkSize, workers int) (Evaluator, error) {
	switch name {
	case "", StrategyVectorized:
		return Vectorized{}, nil
	case StrategyElementwise:
		return Elementwise{}, nil
	case StrategyChunked:
		return Chunked{ChunkSize: chunkSize, Workers: workers}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// Normalizer dispatches inputs to the scalar or sequence path according to
// the mode it was built with. It is immutable and safe for concurrent use.
type Normalizer struct {
	mode      Mode
	evaluator Evaluator
	rng       Range
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithEvaluator sets the sequence evaluator used in ModeBulk.
func WithEvaluator(e Evaluator) Option {
	return func(n *Normalizer) {
		if e != nil {
			n.evaluator = e
		}
	}
}

// WithRange sets the range used by Normalize.
func WithRange(r Range) Option {
	return func(n *Normalizer) {
		n.rng = r
	}
}

// New returns a Normalizer for mode. Without options it uses the
// vectorized evaluator and DefaultRange.
func New(mode Mode, opts ...Option) *Normalizer {
	n := &Normalizer{
		mode:      mode,
		evaluator: Vectorized{},
		rng:       DefaultRange,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Mode returns the configured mode.
func (n *Normalizer) Mode() Mode { return n.mode }

// Range returns the range used by Normalize.
func (n *Normalizer) Range() Range { return n.rng }

// Normalize normalizes input into the configured range.
// See NormalizeWithin.
func (n *Normalizer) Normalize(input any) (any, error) {
	return n.NormalizeWithin(input, n.rng.Lower, n.rng.Upper)
}

// NormalizeWithin normalizes input into [lower, upper).
//
// In ModeScalar input must be a single integer or float and the result is
// a float64. In ModeBulk input must be a slice of integers or floats and
// the result is a new []float64. A shape mismatch yields ErrTypeMismatch,
// lower >= upper yields ErrInvalidRange; both are reported before any
// value is touched.
func (n *Normalizer) NormalizeWithin(input any, lower, upper float64) (any, error) {
	r := Range{Lower: lower, Upper: upper}

	switch n.mode {
	case ModeBulk:
		values, ok := asSequence(input)
		if !ok {
			return nil, mismatch(input, n.mode)
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		return n.evaluator.Evaluate(values, r)

	case ModeScalar:
		v, ok := asScalar(input)
		if !ok {
			return nil, mismatch(input, n.mode)
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		return r.wrap(v), nil
	}

	return nil, fmt.Errorf("%w: unknown mode %s", ErrTypeMismatch, n.mode)
}

// mismatch builds an ErrTypeMismatch naming which side was wrong.
func mismatch(input any, mode Mode) error {
	switch {
	case mode == ModeScalar && isSequence(input):
		return fmt.Errorf("%w: got sequence %T in scalar mode, use bulk mode", ErrTypeMismatch, input)
	case mode == ModeBulk && isScalar(input):
		return fmt.Errorf("%w: got scalar %T in bulk mode, use scalar mode", ErrTypeMismatch, input)
	}
	return fmt.Errorf("%w: unsupported input %T", ErrTypeMismatch, input)
}

func isScalar(input any) bool {
	_, ok := asScalar(input)
	return ok
}

func isSequence(input any) bool {
	_, ok := asSequence(input)
	return ok
}
