package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/texgen/internal/config"
	"github.com/dgallion1/texgen/internal/store"
)

var (
	// ErrQueueFull is returned by Submit when no worker can take the job.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("pipeline is stopped")
)

// Orchestrator manages the document render pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	store store.Store
	stats *RenderStats
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards stopped and the close of queue against Submit.
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, st store.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		store: st,
		stats: NewRenderStats(time.Hour),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := WorkerOptions{
		PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext,
		DocumentClass:        o.cfg.DocumentClass,
		ResultTTL:            o.cfg.ResultTTL,
	}
	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.stats, o.log, opts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store and result store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				if err := o.store.Cleanup(workerCtx); err != nil {
					o.log.Warn("result cleanup failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
// Calling it more than once is a no-op.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()

		if o.cancel != nil {
			o.cancel()
		}
		o.wg.Wait()
	})
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Result returns the rendered document of a finished job.
func (o *Orchestrator) Result(ctx context.Context, job *Job) ([]byte, bool, error) {
	return o.store.Get(ctx, job.ContentKey)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the render latency tracker.
func (o *Orchestrator) Stats() *RenderStats {
	return o.stats
}
