package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the result for an analysis operation on a miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Runner wraps expensive computations with the cache: derive the key, try
// the cache, compute on a miss and store the result. Concurrent in-process
// callers for the same key compute once; the cache itself stays strictly
// fail-open, so a broken store degrades to computing directly.
type Runner struct {
	engine *Engine
	keyer  Keyer
	group  singleflight.Group
}

// NewRunner creates a runner. A nil keyer means the default SHA-256 keyer.
func NewRunner(engine *Engine, keyer Keyer) *Runner {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Runner{engine: engine, keyer: keyer}
}

// Do returns the cached result for (paths, query, operation), computing and
// storing it on a miss. The input paths double as the entry's source set,
// so modifying any of them later invalidates the entry. The returned status
// is StatusHit for a cache hit, otherwise the miss reason for the compute
// that ran. Compute errors are returned as-is and never cached.
func (r *Runner) Do(ctx context.Context, paths []string, query, operation string, compute ComputeFunc) ([]byte, Status, error) {
	if compute == nil {
		return nil, StatusMiss, ErrNilCompute
	}
	if r == nil || r.engine == nil {
		out, err := compute(ctx)
		return out, StatusDisabled, err
	}

	key := r.keyer.Key(paths, query, operation)

	payload, st := r.engine.Get(ctx, key)
	if st == StatusHit {
		return payload, st, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		out, err := compute(ctx)
		if err != nil {
			// Failures are never cached.
			return nil, err
		}
		r.engine.Set(ctx, key, out, paths, nil)
		return out, nil
	})
	if err != nil {
		return nil, st, err
	}
	return v.([]byte), st, nil
}

// Key exposes the runner's key derivation, so callers can address entries
// directly for delete or inspection.
func (r *Runner) Key(paths []string, query, operation string) string {
	return r.keyer.Key(paths, query, operation)
}
