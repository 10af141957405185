package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"emojigrab/pkg/logger"
	"emojigrab/pkg/misskey"
)

// ErrPoolStopped is returned by Submit once the pool no longer accepts jobs
var ErrPoolStopped = errors.New("worker pool is shutting down")

// Status is the outcome of a single job
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Job is one emoji to download. Dir and Name are already safe path elements.
type Job struct {
	Emoji    misskey.Emoji
	Category string
	Dir      string
	Name     string
}

// Result represents the result of a download job
type Result struct {
	Job      Job
	Path     string
	Status   Status
	Reason   string
	Size     int64
	Duration time.Duration
	Err      error
}

// Fetcher retrieves images from the remote instance
type Fetcher interface {
	ResolveExtension(ctx context.Context, url string) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Store places images on disk
type Store interface {
	Reserve(category, name, ext string) (string, bool)
	IsDownloaded(path string) bool
	Save(r io.Reader, path string) (int64, error)
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	group       *errgroup.Group
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     Fetcher
	store       Store
	logger      logger.Logger

	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

// NewWorkerPool creates a new download worker pool
func NewWorkerPool(numWorkers int, fetcher Fetcher, store Store, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		fetcher:     fetcher,
		store:       store,
		logger:      log,
	}
}

// Start launches the workers. Cancelling ctx makes them fail the jobs that
// are still queued instead of downloading them.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.mu.Lock()
	wp.ctx, wp.cancel = context.WithCancel(ctx)
	wp.group = new(errgroup.Group)
	wp.mu.Unlock()

	logger.LogComponentStart(wp.logger, "worker_pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		id := i
		wp.group.Go(func() error {
			wp.worker(id)
			return nil
		})
	}
}

// Stop closes the queue, waits for the workers to finish the remaining jobs
// and closes the result channel. Results must be drained concurrently.
// Stopping a pool that was never started only closes its channels.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.mu.Lock()
		wp.stopped = true
		close(wp.jobQueue)
		group := wp.group
		wp.mu.Unlock()

		if group == nil {
			close(wp.resultQueue)
			return
		}

		group.Wait()
		close(wp.resultQueue)
		wp.cancel()

		logger.LogComponentStop(wp.logger, "worker_pool", "queue drained")
	})
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return ErrPoolStopped
	}
	if wp.group == nil {
		return fmt.Errorf("%w: pool not started", ErrPoolStopped)
	}

	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"emoji":    job.Emoji.Name,
			"category": job.Category,
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("%w: %v", ErrPoolStopped, wp.ctx.Err())
	}
}

// Results returns the channel delivering one result per submitted job
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	wp.logger.DebugWithFields("Worker started", map[string]interface{}{
		"worker_id": id,
	})

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}

	wp.logger.DebugWithFields("Worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob resolves, deduplicates, downloads and saves one emoji
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job, Status: StatusFailed}

	finish := func() Result {
		result.Duration = time.Since(start)
		logger.LogDownload(wp.logger.WithField("worker_id", workerID), job.Category, job.Emoji.Name, string(result.Status), result.Err)
		return result
	}

	if err := wp.ctx.Err(); err != nil {
		result.Err = err
		return finish()
	}

	ext, err := wp.fetcher.ResolveExtension(wp.ctx, job.Emoji.URL)
	if err != nil {
		result.Err = fmt.Errorf("resolve extension: %w", err)
		return finish()
	}

	path, ok := wp.store.Reserve(job.Dir, job.Name, ext)
	result.Path = path
	if !ok {
		result.Status = StatusSkipped
		result.Reason = "duplicate name"
		return finish()
	}

	if wp.store.IsDownloaded(path) {
		result.Status = StatusSkipped
		result.Reason = "already exists"
		return finish()
	}

	body, err := wp.fetcher.Open(wp.ctx, job.Emoji.URL)
	if err != nil {
		result.Err = fmt.Errorf("download failed: %w", err)
		return finish()
	}
	defer body.Close()

	size, err := wp.store.Save(body, path)
	if err != nil {
		result.Err = fmt.Errorf("save failed: %w", err)
		return finish()
	}

	result.Status = StatusDownloaded
	result.Size = size
	return finish()
}
