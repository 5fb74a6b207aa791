package angles

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// straddling ranges are the ones the wraparound period is exact for.
var straddling = []Range{
	DefaultRange,
	SignedRange,
	{Lower: 0, Upper: 2 * math.Pi},
	{Lower: -math.Pi, Upper: math.Pi},
	{Lower: -90, Upper: 270},
}

// sampleValues returns a deterministic mix of random values and the edge
// cases that exercise each fold.
func sampleValues(r Range, n int) []float64 {
	rng := rand.New(rand.NewSource(42))
	span := r.Span()
	values := []float64{
		r.Lower, r.Upper, 0, -0.0,
		r.Lower - span, r.Upper + span,
		r.Lower - 1e-12, r.Upper + 1e-12,
		math.Nextafter(r.Upper, r.Lower), math.Nextafter(r.Lower, r.Upper),
		10 * span, -10 * span,
	}
	for i := 0; i < n; i++ {
		values = append(values, (rng.Float64()*2-1)*20*span)
	}
	return values
}

func TestScalar_Scenarios(t *testing.T) {
	cases := []struct {
		r    Range
		in   float64
		want float64
	}{
		{DefaultRange, 370, 10},
		{DefaultRange, -10, 350},
		{DefaultRange, 45, 45},
		{DefaultRange, 360, 0},
		{DefaultRange, 720, 0},
		{DefaultRange, -360, 0},
		{SignedRange, 180, -180},
		{SignedRange, -200, 160},
		{SignedRange, 190, -170},
		{SignedRange, -180, -180},
	}

	for _, c := range cases {
		got, err := Scalar(c.in, c.r.Lower, c.r.Upper)
		if err != nil {
			t.Fatalf("Scalar(%g, %s): unexpected error: %v", c.in, c.r, err)
		}
		if got != c.want {
			t.Errorf("Scalar(%g, %s) = %g, want %g", c.in, c.r, got, c.want)
		}
	}
}

func TestScalar_InRange(t *testing.T) {
	for _, r := range straddling {
		for _, v := range sampleValues(r, 2000) {
			got, err := r.In(v)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", r, err)
			}
			if !r.Contains(got) {
				t.Errorf("%s: Scalar(%g) = %g, outside range", r, v, got)
			}
		}
	}
}

func TestScalar_Edges(t *testing.T) {
	for _, r := range straddling {
		// Upper edge closes onto lower
		got, _ := r.In(r.Upper)
		if got != r.Lower {
			t.Errorf("%s: Scalar(upper) = %g, want %g", r, got, r.Lower)
		}
	}

	// Lower edge is a fixed point when the range is symmetric or starts at zero
	for _, r := range []Range{DefaultRange, SignedRange, {Lower: -math.Pi, Upper: math.Pi}, {Lower: 0, Upper: 1}} {
		got, _ := r.In(r.Lower)
		if got != r.Lower {
			t.Errorf("%s: Scalar(lower) = %g, want %g", r, got, r.Lower)
		}
	}
}

func TestScalar_Idempotent(t *testing.T) {
	for _, r := range []Range{DefaultRange, SignedRange, {Lower: 0, Upper: 2 * math.Pi}, {Lower: -math.Pi, Upper: math.Pi}} {
		for _, v := range sampleValues(r, 1000) {
			once, _ := r.In(v)
			twice, _ := r.In(once)
			if once != twice {
				t.Errorf("%s: not idempotent for %g: %g then %g", r, v, once, twice)
			}
		}
	}
}

func TestScalar_InvalidRange(t *testing.T) {
	for _, r := range []Range{{5, 5}, {10, 3}, {math.NaN(), 1}} {
		if _, err := Scalar(1, r.Lower, r.Upper); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Scalar with %v: got %v, want ErrInvalidRange", r, err)
		}
	}
}

func TestScalar_AsymmetricRangeKeepsPeriod(t *testing.T) {
	// The period is |lower|+|upper|, not upper-lower, for ranges on one
	// side of zero: 25 folds to 10 + |45| mod 30.
	got, err := Scalar(25, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got != 25 {
		t.Errorf("Scalar(25, 10, 20) = %g, want 25", got)
	}
}

func TestSequence_Scenario(t *testing.T) {
	got, err := Sequence([]float64{370, -10, 45}, 0, 360)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 350, 45}
	if !floats.Equal(got, want) {
		t.Errorf("Sequence = %v, want %v", got, want)
	}
}

func TestSequence_DoesNotMutateInput(t *testing.T) {
	in := []float64{370, -10, 45, 360, 0}
	orig := append([]float64(nil), in...)

	out, err := Sequence(in, 0, 360)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(in, orig) {
		t.Errorf("input mutated: got %v, want %v", in, orig)
	}
	if len(out) > 0 && &out[0] == &in[0] {
		t.Error("output aliases input")
	}
}

func TestSequence_Empty(t *testing.T) {
	out, err := Sequence(nil, 0, 360)
	if err != nil {
		t.Fatal(err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("Sequence(nil) = %#v, want empty non-nil slice", out)
	}
}

func TestSequence_InvalidRange(t *testing.T) {
	out, err := Sequence([]float64{1, 2, 3}, 10, 3)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
	if out != nil {
		t.Errorf("expected no partial result, got %v", out)
	}
}

func TestEvaluators_MatchScalar(t *testing.T) {
	evaluators := map[string]Evaluator{
		"vectorized":  Vectorized{},
		"elementwise": Elementwise{},
		"chunked":     Chunked{ChunkSize: 7, Workers: 3},
	}

	for _, r := range straddling {
		values := sampleValues(r, 500)

		want := make([]float64, len(values))
		for i, v := range values {
			want[i], _ = r.In(v)
		}

		for name, e := range evaluators {
			got, err := e.Evaluate(values, r)
			if err != nil {
				t.Fatalf("%s %s: unexpected error: %v", name, r, err)
			}
			if len(got) != len(values) {
				t.Fatalf("%s %s: got %d values, want %d", name, r, len(got), len(values))
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("%s %s: [%d] %g -> %g, scalar gives %g", name, r, i, values[i], got[i], want[i])
				}
			}
		}
	}
}

// oneSidedRanges returns fixed and random ranges that do not contain zero.
func oneSidedRanges() []Range {
	ranges := []Range{{Lower: 10, Upper: 20}, {Lower: -30, Upper: -5}, {Lower: 0.1, Upper: 0.3}}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		lo := rng.Float64() * 500
		hi := lo + 1e-3 + rng.Float64()*500
		if i%2 == 1 {
			lo, hi = -hi, -lo
		}
		ranges = append(ranges, Range{Lower: lo, Upper: hi})
	}
	return ranges
}

func TestEvaluators_MatchScalarOneSided(t *testing.T) {
	evaluators := []Evaluator{Vectorized{}, Elementwise{}, Chunked{ChunkSize: 5}}
	rng := rand.New(rand.NewSource(11))

	for _, r := range oneSidedRanges() {
		span := r.Span()
		values := sampleValues(r, 50)
		// Values whose fold from above lands on Upper
		for m := 1; m <= 4; m++ {
			d := r.Upper - r.Lower
			values = append(values, d-r.Upper+float64(m)*span, rng.Float64()*span*float64(m))
		}

		want := make([]float64, len(values))
		for i, v := range values {
			want[i], _ = r.In(v)
		}

		for _, e := range evaluators {
			got, err := e.Evaluate(values, r)
			if err != nil {
				t.Fatalf("%T %s: unexpected error: %v", e, r, err)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("%T %s: [%d] %g -> %g, scalar gives %g", e, r, i, values[i], got[i], want[i])
				}
			}
		}
	}
}

func TestScalar_FoldFromAboveOntoUpper(t *testing.T) {
	// 1216.81... folds from above to exactly Upper, which must close onto
	// Lower rather than be folded a second time.
	r := Range{Lower: 99.69997257712704, Upper: 558.5558201638182}
	x := 1216.8116129047635

	got, err := r.In(x)
	if err != nil {
		t.Fatal(err)
	}
	vec, _ := Vectorized{}.Evaluate([]float64{x}, r)
	if got != vec[0] {
		t.Errorf("scalar %v, vectorized %v", got, vec[0])
	}
	if got < r.Lower {
		t.Errorf("Scalar(%v) = %v, below lower %v", x, got, r.Lower)
	}
}

func TestEvaluators_RejectInvalidRange(t *testing.T) {
	for _, e := range []Evaluator{Vectorized{}, Elementwise{}, Chunked{}} {
		if _, err := e.Evaluate([]float64{1}, Range{5, 5}); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%T: got %v, want ErrInvalidRange", e, err)
		}
	}
}

func TestNormalizeSlice_Ints(t *testing.T) {
	got, err := NormalizeSlice([]int{370, -10, 45}, DefaultRange)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(got, []float64{10, 350, 45}) {
		t.Errorf("NormalizeSlice = %v", got)
	}
}
