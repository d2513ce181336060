package pagination

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests.
	// Jikan allows 3 requests per second, so keep this small.
	MaxConcurrency int

	// Timeout per fetch attempt. Retries and their backoff are not counted.
	Timeout time.Duration

	// PageSize is the limit sent with each page request (0 = server default).
	PageSize int

	// MaxPages caps the number of pages fetched (0 = all visible pages).
	MaxPages int
}

// DefaultConfig returns safe default configuration for Jikan.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 3,
		Timeout:        15 * time.Second,
		PageSize:       25,
	}
}

// PageResult is the outcome of fetching a single page.
type PageResult[R any] struct {
	PageNumber int
	Items      []R
	Error      error
}

// BatchFetcher fetches every page of a list endpoint with a worker pool.
type BatchFetcher[R any] struct {
	name   string
	fetch  FetchFunc[R]
	config Config
}

// NewBatchFetcher creates a new batch fetcher. name labels logs.
func NewBatchFetcher[R any](name string, fetch FetchFunc[R], config Config) *BatchFetcher[R] {
	config = normalize(config)
	return &BatchFetcher[R]{
		name:   name,
		fetch:  WithTimeout(fetch, config.Timeout),
		config: config,
	}
}

// NewRetryingBatchFetcher creates a batch fetcher that retries each page
// under policy. config.Timeout bounds every attempt on its own, so a
// Retry-After wait longer than the timeout is still honored.
func NewRetryingBatchFetcher[R any](name string, fetch FetchFunc[R], policy retry.Policy, config Config) *BatchFetcher[R] {
	config = normalize(config)
	return &BatchFetcher[R]{
		name:   name,
		fetch:  WithRetry(WithTimeout(fetch, config.Timeout), policy),
		config: config,
	}
}

func normalize(config Config) Config {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return config
}

// FetchAllPages fetches all pages in parallel.
// Returns page number -> items for successful pages; on a worker error the
// partial results are returned together with the error.
func (bf *BatchFetcher[R]) FetchAllPages(ctx context.Context) (map[int][]R, error) {
	start := time.Now()

	// Fetch first page to learn the page count
	first, err := bf.fetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	totalPages := first.LastVisiblePage
	if totalPages < 1 {
		totalPages = 1
	}
	if bf.config.MaxPages > 0 && totalPages > bf.config.MaxPages {
		totalPages = bf.config.MaxPages
	}

	results := map[int][]R{1: first.Items}

	if totalPages == 1 {
		log.Info().
			Str("source", bf.name).
			Int("pages", 1).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return results, nil
	}

	log.Info().
		Str("source", bf.name).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	pageQueue := make(chan int, totalPages)
	pageResults := make(chan PageResult[R], totalPages)
	errs := make(chan error, bf.config.MaxConcurrency)

	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, pageQueue, pageResults, errs, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
		close(errs)
	}()

	fetchedPages := 1
	for result := range pageResults {
		results[result.PageNumber] = result.Items
		fetchedPages++
	}

	if err := <-errs; err != nil {
		log.Warn().
			Err(err).
			Int("fetched_pages", fetchedPages).
			Int("total_pages", totalPages).
			Msg("Worker error - returning partial results")
		return results, fmt.Errorf("worker error (partial data: %d/%d pages): %w", fetchedPages, totalPages, err)
	}

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("fetch cancelled (partial data: %d/%d pages): %w", fetchedPages, totalPages, err)
	}

	log.Info().
		Str("source", bf.name).
		Int("pages", fetchedPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, nil
}

// FetchAll fetches all pages and flattens them in page order.
func (bf *BatchFetcher[R]) FetchAll(ctx context.Context) ([]R, error) {
	pages, err := bf.FetchAllPages(ctx)
	return Flatten(pages), err
}

// Flatten concatenates pages in ascending page order.
func Flatten[R any](pages map[int][]R) []R {
	keys := make([]int, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var items []R
	for _, k := range keys {
		items = append(items, pages[k]...)
	}
	return items
}

func (bf *BatchFetcher[R]) fetchPage(ctx context.Context, page int) (FetchResult[R], error) {
	return bf.fetch(ctx, page, bf.config.PageSize)
}

// worker processes pages from the queue until it is drained or a fetch fails.
func (bf *BatchFetcher[R]) worker(ctx context.Context, pageQueue <-chan int, results chan<- PageResult[R], errs chan<- error, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		res, err := bf.fetchPage(ctx, pageNum)
		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")

			select {
			case errs <- err:
			default:
			}
			return
		}

		results <- PageResult[R]{PageNumber: pageNum, Items: res.Items}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}
