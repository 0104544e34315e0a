package resolve

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// All canonicalizes paths concurrently and returns the results in input
// order. Every path must exist; the first missing path or filesystem error
// fails the whole batch. workers bounds the pool size, 0 picks a value
// suited to I/O bound stat calls.
func All(ctx context.Context, paths []string, workers int) ([]CanonicalPath, error) {
	if workers <= 0 {
		workers = min(max(runtime.NumCPU()*2, 4), 32)
	}

	results := make([]CanonicalPath, len(paths))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithFirstError()

	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			real, ok, err := Real(path, true, false)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", path, ErrNotFound)
			}
			results[i] = real
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
