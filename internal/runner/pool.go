package runner

import (
	"context"
	"sync"
)

type Job func(ctx context.Context) error

// RunPool executes jobs with at most maxWorkers concurrently. Returns all
// errors. Jobs not yet started when ctx is done are skipped and reported as a
// single ctx error.
func RunPool(ctx context.Context, maxWorkers int, jobs []Job) []error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var (
		mu      sync.Mutex
		errs    []error
		wg      sync.WaitGroup
		skipped bool
	)
	sem := make(chan struct{}, maxWorkers)

dispatch:
	for _, job := range jobs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			skipped = true
			break dispatch
		}
		if ctx.Err() != nil {
			<-sem
			skipped = true
			break
		}
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := j(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()
	if skipped {
		errs = append(errs, ctx.Err())
	}
	return errs
}
