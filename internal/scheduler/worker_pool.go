package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// WorkerPool manages a pool of concurrent workers that process jobs from a
// buffered channel until shutdown.
type WorkerPool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool creates a new worker pool.
// workerCount: number of concurrent workers (goroutines)
// queueSize: buffer size for the job channel
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	log.Printf("Worker %d started", id)

	for {
		select {
		case <-wp.ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				log.Printf("Worker %d: job channel closed", id)
				return
			}
			wp.processJob(id, job)
		}
	}
}

// processJob executes a single job with a timeout covering the full batch
// run across all users.
func (wp *WorkerPool) processJob(workerID int, job Job) {
	log.Printf("Worker %d: Running %s", workerID, job.Name())

	ctx, cancel := context.WithTimeout(wp.ctx, 10*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Printf("Worker %d: %s failed after %v: %v", workerID, job.Name(), time.Since(start), err)
		return
	}
	log.Printf("Worker %d: %s completed in %v", workerID, job.Name(), time.Since(start))
}

// Submit adds a job to the queue for processing. It returns an error when
// the pool is shutting down or the queue is full; a full queue drops the job
// rather than blocking the scheduler loop.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		log.Printf("Warning: Job queue full, dropping %s", job.Name())
		return fmt.Errorf("job queue full, dropping %s", job.Name())
	}
}

// SubmitBatch adds multiple jobs to the queue.
func (wp *WorkerPool) SubmitBatch(jobs []Job) {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			log.Printf("Failed to submit %s: %v", job.Name(), err)
			continue
		}
		submitted++
	}
	log.Printf("Submitted %d/%d jobs to worker pool", submitted, len(jobs))
}

// ShutdownWithTimeout shuts down the worker pool, forcing cancellation if
// workers do not finish within the timeout.
func (wp *WorkerPool) ShutdownWithTimeout(timeout time.Duration) {
	log.Printf("Worker pool: Initiating graceful shutdown with %v timeout", timeout)

	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Worker pool: All workers finished gracefully")
	case <-time.After(timeout):
		log.Println("Worker pool: Timeout reached, forcing shutdown")
		wp.cancel()
	}

	log.Println("Worker pool: Shutdown complete")
}
