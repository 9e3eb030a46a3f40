package evaluation

import (
	"sync"
	"time"
)

// workerPool scores expirations in parallel and returns outcomes in input order.
type workerPool struct {
	numWorkers int
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &workerPool{numWorkers: numWorkers}
}

// jobItem is one expiration to process
type jobItem struct {
	index      int
	expiration time.Time
}

// resultItem carries an outcome back to its slot
type resultItem struct {
	index   int
	outcome expirationOutcome
}

// run applies fn to every expiration. Outcomes are collected by index, so
// the merged order equals the order of expirations.
func (wp *workerPool) run(expirations []time.Time, fn func(time.Time) expirationOutcome) []expirationOutcome {
	n := len(expirations)
	if n == 0 {
		return []expirationOutcome{}
	}

	jobs := make(chan jobItem, n)
	results := make(chan resultItem, n)

	var wg sync.WaitGroup
	workers := wp.numWorkers
	if n < workers {
		workers = n
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- resultItem{index: job.index, outcome: fn(job.expiration)}
			}
		}()
	}

	for idx, exp := range expirations {
		jobs <- jobItem{index: idx, expiration: exp}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]expirationOutcome, n)
	for result := range results {
		outcomes[result.index] = result.outcome
	}
	return outcomes
}
