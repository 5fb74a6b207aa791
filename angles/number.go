package angles

import (
	"golang.org/x/exp/constraints"
)

// Number is any built-in integer or floating-point kind.
type Number interface {
	constraints.Integer | constraints.Float
}

// Floats converts values to a new []float64.
func Floats[T Number](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// NormalizeSlice normalizes a typed slice into r with the vectorized path.
// The result is always []float64.
func NormalizeSlice[T Number](values []T, r Range) ([]float64, error) {
	return Vectorized{}.Evaluate(Floats(values), r)
}

// asScalar converts a single numeric value to float64.
func asScalar(input any) (float64, bool) {
	switch v := input.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// asSequence converts a numeric slice to []float64. A []float64 is returned
// as is; evaluators never write to their input.
func asSequence(input any) ([]float64, bool) {
	switch v := input.(type) {
	case []float64:
		return v, true
	case []float32:
		return Floats(v), true
	case []int:
		return Floats(v), true
	case []int8:
		return Floats(v), true
	case []int16:
		return Floats(v), true
	case []int32:
		return Floats(v), true
	case []int64:
		return Floats(v), true
	case []uint:
		return Floats(v), true
	case []uint8:
		return Floats(v), true
	case []uint16:
		return Floats(v), true
	case []uint32:
		return Floats(v), true
	case []uint64:
		return Floats(v), true
	}
	return nil, false
}
