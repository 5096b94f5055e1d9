// Package dispatcher streams pages from a PageSource to a caller-supplied
// callback under a worker pool with strict page-order delivery and
// early-stop support. Parallelism lives here; everything downstream
// (the chunker) runs single-threaded on whatever goroutine calls Run.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/mboros1/fast-pdf-parser/internal/extractor"
)

// DefaultBatchSize is the number of pages submitted — and awaited — as a
// unit before the next batch is considered. It bounds in-flight work to
// this many simultaneous tasks regardless of worker pool size.
const DefaultBatchSize = 10

// PageResult is delivered to the callback once a page's extraction task
// completes, successfully or not.
type PageResult struct {
	PageNumber int
	Text       string
	Err        error
	Success    bool
}

// PageCallback is invoked once per page, strictly in increasing
// PageNumber order. Returning false requests early termination: the
// dispatcher stops submitting further batches, but tasks already
// in-flight in the current batch still complete and are still
// delivered — the callback must tolerate being called after it has
// already returned false.
type PageCallback func(PageResult) bool

type task struct {
	path       string
	pageIndex  int
	opts       extractor.ExtractOptions
	resultCh   chan PageResult
}

// Dispatcher owns a fixed worker pool that can be reused across
// documents: each Run call streams one document's pages through the
// same pool.
type Dispatcher struct {
	source    extractor.PageSource
	batchSize int

	taskCh chan task
	wg     sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}

	mu                    sync.Mutex
	pagesProcessed        int64
	documentsProcessed    int64
	totalProcessingTimeMs int64
}

// Stats is a snapshot of dispatcher-lifetime counters, restored under
// the same mutex discipline the dispatcher uses to update them.
type Stats struct {
	PagesProcessed        int64
	DocumentsProcessed    int64
	TotalProcessingTimeMs int64
	AverageProcessingTimeMs float64
	PagesPerSecond          float64
}

// New creates a Dispatcher with threadCount workers (0 or negative means
// hardware-parallelism default) and the given batch size (0 or negative
// falls back to DefaultBatchSize).
func New(source extractor.PageSource, threadCount, batchSize int) *Dispatcher {
	if threadCount <= 0 {
		threadCount = max(1, runtime.NumCPU())
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	d := &Dispatcher{
		source:    source,
		batchSize: batchSize,
		taskCh:    make(chan task, batchSize),
		closed:    make(chan struct{}),
	}

	d.wg.Add(threadCount)
	for i := 0; i < threadCount; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.taskCh {
		start := time.Now()
		pt, err := d.source.ExtractPage(t.path, t.pageIndex, t.opts)
		elapsed := time.Since(start)

		res := PageResult{PageNumber: t.pageIndex}
		if err != nil {
			res.Err = err
			res.Success = false
		} else {
			res.Text = pt.Text
			res.Success = true
		}
		d.recordPage(elapsed)
		t.resultCh <- res
	}
}

func (d *Dispatcher) recordPage(elapsed time.Duration) {
	d.mu.Lock()
	d.pagesProcessed++
	d.totalProcessingTimeMs += elapsed.Milliseconds()
	d.mu.Unlock()
}

// Run streams pages [0, pageCount) of path, in batches of the
// dispatcher's batch size, delivering each page's result to cb in
// strictly increasing page order. pageLimit <= 0 means no limit.
func (d *Dispatcher) Run(ctx context.Context, path string, pageLimit int, opts extractor.ExtractOptions, cb PageCallback) error {
	total, err := d.source.PageCount(path)
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	limit := total
	if pageLimit > 0 && pageLimit < total {
		limit = pageLimit
	}

	d.mu.Lock()
	d.documentsProcessed++
	d.mu.Unlock()

	stop := false
	for batchStart := 0; batchStart < limit && !stop; batchStart += d.batchSize {
		batchEnd := batchStart + d.batchSize
		if batchEnd > limit {
			batchEnd = limit
		}

		futures := make([]chan PageResult, 0, batchEnd-batchStart)
		for idx := batchStart; idx < batchEnd; idx++ {
			ch := make(chan PageResult, 1)
			select {
			case d.taskCh <- task{path: path, pageIndex: idx, opts: opts, resultCh: ch}:
			case <-ctx.Done():
				return ctx.Err()
			}
			futures = append(futures, ch)
		}

		// Collect this batch's results strictly in submission (page)
		// order; only once the whole batch has drained do we consider
		// the next one.
		for _, ch := range futures {
			res := <-ch
			if !cb(res) {
				stop = true
			}
		}
	}

	return nil
}

// Stats returns a snapshot of lifetime counters across every Run call
// this dispatcher has serviced.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stats{
		PagesProcessed:        d.pagesProcessed,
		DocumentsProcessed:    d.documentsProcessed,
		TotalProcessingTimeMs: d.totalProcessingTimeMs,
	}
	if d.documentsProcessed > 0 {
		s.AverageProcessingTimeMs = float64(d.totalProcessingTimeMs) / float64(d.documentsProcessed)
	}
	if d.totalProcessingTimeMs > 0 {
		s.PagesPerSecond = float64(d.pagesProcessed) * 1000.0 / float64(d.totalProcessingTimeMs)
	}
	return s
}

// Close stops the worker pool, waiting for in-flight tasks to finish.
// It is safe to call multiple times.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.taskCh)
		close(d.closed)
	})
	d.wg.Wait()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
