package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/steam-inventory-client/pkg/inventory"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of inventories fetched at once.
	// Steam throttles aggressively per IP; keep this low without proxies.
	MaxConcurrency int
	// Timeout per inventory, including all of its pages and retries
	Timeout time.Duration
}

// DefaultConfig returns a conservative configuration for the community endpoint
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        2 * time.Minute,
	}
}

// Fetcher fetches one complete inventory. *inventory.API implements it.
type Fetcher interface {
	Get(ctx context.Context, req inventory.Request) (*inventory.Result, error)
}

// Outcome is the result of one request of a batch
type Outcome struct {
	Request  inventory.Request
	Result   *inventory.Result
	Err      error
	Duration time.Duration
}

// BatchFetcher fetches many inventories with a worker pool
type BatchFetcher struct {
	fetcher Fetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher Fetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

type job struct {
	index int
	req   inventory.Request
}

// FetchAll fetches every request and returns the outcomes in request order.
// Requests not started before ctx is done get ctx.Err() as their error.
func (bf *BatchFetcher) FetchAll(ctx context.Context, reqs []inventory.Request) []Outcome {
	start := time.Now()
	outcomes := make([]Outcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes
	}

	workers := bf.config.MaxConcurrency
	if workers > len(reqs) {
		workers = len(reqs)
	}

	log.Info().
		Int("requests", len(reqs)).
		Int("workers", workers).
		Msg("Starting batch inventory fetch")

	jobs := make(chan job, len(reqs))
	for i, req := range reqs {
		jobs <- job{index: i, req: req}
	}
	close(jobs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed, failed := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processed := bf.worker(ctx, jobs, outcomes, workerID, func(err error) {
				mu.Lock()
				defer mu.Unlock()
				completed++
				if err != nil {
					failed++
				}
				if completed%25 == 0 {
					log.Info().
						Int("fetched", completed).
						Int("total", len(reqs)).
						Float64("progress_pct", float64(completed)/float64(len(reqs))*100).
						Msg("Batch progress")
				}
			})
			if processed > 0 {
				log.Debug().
					Int("worker_id", workerID).
					Int("inventories_processed", processed).
					Msg("Worker completed")
			}
		}(i)
	}
	wg.Wait()

	log.Info().
		Int("requests", len(reqs)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return outcomes
}

// worker drains the job queue. Every job gets an outcome, even after cancellation.
func (bf *BatchFetcher) worker(ctx context.Context, jobs <-chan job, outcomes []Outcome, workerID int, done func(error)) int {
	processed := 0

	for j := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes[j.index] = Outcome{Request: j.req, Err: err}
			done(err)
			continue
		}

		fetchStart := time.Now()
		fetchCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		res, err := bf.fetcher.Get(fetchCtx, j.req)
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Str(logging.FieldSteamID, j.req.SteamID).
				Msg("Inventory fetch failed")
		}

		outcomes[j.index] = Outcome{
			Request:  j.req,
			Result:   res,
			Err:      err,
			Duration: time.Since(fetchStart),
		}
		done(err)
		processed++
	}

	return processed
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}
