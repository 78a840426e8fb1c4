package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallel3 runs three loaders concurrently and returns all results or the
// first error. The shared context is canceled as soon as one fails.
func Parallel3[T1, T2, T3 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
	fn3 func(context.Context) (T3, error),
) (r1 T1, r2 T2, r3 T3, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var e error

		r1, e = fn1(ctx)

		return e
	})

	g.Go(func() error {
		var e error

		r2, e = fn2(ctx)

		return e
	})

	g.Go(func() error {
		var e error

		r3, e = fn3(ctx)

		return e
	})

	if err = g.Wait(); err != nil {
		var (
			z1 T1
			z2 T2
			z3 T3
		)

		return z1, z2, z3, fmt.Errorf("parallel execution failed: %w", err)
	}

	return r1, r2, r3, nil
}

// EachPartial calls fn for every item concurrently without canceling on
// failure. All errors are joined.
func EachPartial[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	errs := make([]error, len(items))

	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			errs[i] = fn(ctx, item)
		})
	}

	wg.Wait()

	return errors.Join(errs...)
}
