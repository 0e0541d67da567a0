package worker

import (
	"context"
	"fmt"
)

// Map applies fn to every item on up to workers goroutines and returns the
// results in item order. The first failure cancels the remaining work; the
// error of the lowest failing item is returned.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []R{}, nil
	}

	pool := NewPool[R](ctx, workers)
	pool.Start()
	defer pool.Cancel()

	go func() {
		defer pool.Close()
		for i, item := range items {
			job := Job[R]{
				Index: i,
				Run: func(ctx context.Context) (R, error) {
					return fn(ctx, item)
				},
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	out := make([]R, len(items))
	done := 0
	failedAt := -1
	var failure error

	for res := range pool.Results() {
		if res.Err != nil {
			if failedAt < 0 || res.Index < failedAt {
				failedAt, failure = res.Index, res.Err
			}
			pool.Cancel()
			continue
		}
		out[res.Index] = res.Value
		done++
	}

	if failure != nil {
		return nil, fmt.Errorf("item %d: %w", failedAt, failure)
	}
	if done < len(items) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%d of %d items did not complete", len(items)-done, len(items))
	}
	return out, nil
}
