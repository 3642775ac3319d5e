package main

import (
	"context"
	"fmt"
	"sync"
)

// runFanout executes worker over every item with at most maxWorkers
// concurrent invocations and blocks until all items have completed.
//
// Every item yields exactly one WorkResult: worker errors and panics are
// converted into failure markers carrying the item's identity, and never
// disturb sibling workers. Collection order follows completion, not
// submission; callers needing deterministic output sort during
// aggregation. Once ctx is done, items not yet dispatched become failure
// markers so the one-result-per-item invariant still holds.
func runFanout[T any](ctx context.Context, items []T, worker func(context.Context, T) WorkResult, maxWorkers int, tracker *ProgressTracker, log *Logger) ([]WorkResult, error) {
	if maxWorkers <= 0 {
		return nil, &ConfigurationError{
			Field:  "max_workers",
			Reason: fmt.Sprintf("must be positive, got: %d", maxWorkers),
		}
	}

	// Semaphore bounds concurrently-executing workers
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]WorkResult, 0, len(items))

	collect := func(res WorkResult) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
		if tracker != nil {
			tracker.ItemDone(res.Failed())
		}
	}

	for _, item := range items {
		select {
		case <-ctx.Done():
			collect(WorkResult{Item: fmt.Sprintf("%v", item), Err: ctx.Err()})
			continue
		default:
		}

		wg.Add(1)
		go func(item T) {
			defer wg.Done()

			// Acquire semaphore
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					log.Error("Worker panic for item %v: %v", item, r)
					collect(WorkResult{
						Item: fmt.Sprintf("%v", item),
						Err:  fmt.Errorf("worker panic: %v", r),
					})
				}
			}()

			collect(worker(ctx, item))
		}(item)
	}

	// Join barrier: all workers complete or fail before run returns
	wg.Wait()

	return results, nil
}
