package asset

import (
	"context"
	"sync"
	"sync/atomic"
)

// runPool executes fn for every index in [0, n) using at most workers
// goroutines. Workers claim indexes from a shared cursor, so a slow item
// never blocks the others. The returned slice holds fn's error per index.
//
// fn must be safe for concurrent calls. Each index is claimed exactly once,
// so writes to the result slot need no further synchronization.
func runPool(ctx context.Context, workers, n int, fn func(ctx context.Context, index int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				index := int(cursor.Add(1)) - 1
				if index >= n {
					return
				}

				if err := ctx.Err(); err != nil {
					errs[index] = err
					continue
				}

				errs[index] = fn(ctx, index)
			}
		}()
	}

	wg.Wait()
	return errs
}
