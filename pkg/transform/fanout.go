package transform

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut runs fn concurrently over items and joins before returning,
// satisfying spec.md §5's constraint that all sub-steps within one
// changelog entry complete before batch.commit. Individual keys are
// still serialized by Batch.LockKey inside the kv primitives, so this
// is safe even when two items happen to touch the same key (e.g. a DN
// list containing the same user twice).
func fanOut[T any](ctx context.Context, items []T, fn func(ctx context.Context, item T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error { return fn(gctx, item) })
	}
	return g.Wait()
}
