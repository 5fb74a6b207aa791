package angles

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the chunk length used when Chunked.ChunkSize is unset.
// Below this many values a single evaluation is faster than the fan-out.
const DefaultChunkSize = 4096

// Chunked splits long sequences into fixed-size chunks and evaluates them
// concurrently with Inner. Every chunk writes into a disjoint window of one
// output buffer, so no locking is needed.
type Chunked struct {
	Inner     Evaluator // nil = Vectorized
	ChunkSize int       // values per chunk, 0 = DefaultChunkSize
	Workers   int       // concurrent chunks, 0 = GOMAXPROCS
}

// Evaluate implements Evaluator.
func (c Chunked) Evaluate(values []float64, r Range) ([]float64, error) {
	return c.EvaluateContext(context.Background(), values, r)
}

// EvaluateContext is Evaluate with cancellation. If ctx is done before or
// during the call, chunks not yet started are skipped and ctx.Err() is
// returned without a partial result.
func (c Chunked) EvaluateContext(ctx context.Context, values []float64, r Range) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inner := c.Inner
	if inner == nil {
		inner = Vectorized{}
	}
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(values) <= size {
		return inner.Evaluate(values, r)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]float64, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(values); start += size {
		end := min(start+size, len(values))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part, err := inner.Evaluate(values[start:end], r)
			if err != nil {
				return err
			}
			copy(out[start:end], part)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
