package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/examprep/internal/config"
	"github.com/dgallion1/examprep/internal/parser"
)

// ErrRunnerStopped is returned by Submit after Stop.
var ErrRunnerStopped = errors.New("runner stopped")

// Runner manages the async analysis queue and its worker pool.
type Runner struct {
	jobs   *JobStore
	queue  chan *Job
	topics *Orchestrator
	log    *slog.Logger

	workerCount  int
	maxQueueSize int
	parserOpts   parser.Options
	cleanupEvery time.Duration

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex // guards stopped and sends on queue
	stopped bool
}

// NewRunner creates the job pipeline; call Start to launch workers.
func NewRunner(cfg config.Config, topics *Orchestrator, log *slog.Logger) *Runner {
	return &Runner{
		jobs:         NewJobStore(cfg.JobTTL),
		queue:        make(chan *Job, cfg.MaxQueueSize),
		topics:       topics,
		log:          log,
		workerCount:  cfg.WorkerCount,
		maxQueueSize: cfg.MaxQueueSize,
		parserOpts:   parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		cleanupEvery: 5 * time.Minute,
	}
}

// Start launches worker goroutines.
func (r *Runner) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for range r.workerCount {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			w := NewWorker(r.topics, r.log, r.parserOpts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-r.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.cleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				r.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submit fails with
// ErrRunnerStopped once Stop has begun.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		if r.cancel != nil {
			r.cancel()
		}
		close(r.queue)
		r.mu.Unlock()
		r.wg.Wait()
	})
}

// Submit queues a new job for processing.
func (r *Runner) Submit(job *Job) error {
	r.jobs.Put(job)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		job.TakeUploads()
		job.SetStatus(StatusFailed, "runner_stopped")
		return ErrRunnerStopped
	}
	select {
	case r.queue <- job:
		return nil
	default:
		job.TakeUploads()
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", r.maxQueueSize)
	}
}

// GetJob returns a job by ID.
func (r *Runner) GetJob(id string) *Job {
	return r.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (r *Runner) QueueDepth() int {
	return len(r.queue)
}
