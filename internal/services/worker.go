package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(runID uuid.UUID)
}

type worker struct {
	runRepo      repositories.RunRepository
	dashboard    DashboardService
	sessions     SessionService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	runRepo repositories.RunRepository,
	dashboard DashboardService,
	sessions SessionService,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
	staleAfter time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &worker{
		runRepo:      runRepo,
		dashboard:    dashboard,
		sessions:     sessions,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.pollInterval > 0 {
		w.wg.Add(1)
		go w.pollPendingJobs(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks: when the queue is full the run
// stays queued and the poller picks it up.
func (w *worker) EnqueueJob(runID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue run %s\n", runID)
		return
	default:
	}

	select {
	case w.jobQueue <- runID:
		log.Printf("📥 Run %s enqueued\n", runID)
	default:
		log.Printf("⚠️  Queue full, run %s left for the poller\n", runID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case runID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing run %s\n", workerID, runID)
			if err := w.dashboard.ProcessRun(ctx, runID); err != nil {
				log.Printf("❌ Worker #%d failed to process run %s: %v\n", workerID, runID, err)
			}
		}
	}
}

// pollPendingJobs picks up runs left queued, fails runs stuck in processing and
// purges expired sessions.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending runs poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.sessions.PurgeExpired(); err != nil {
				log.Printf("⚠️  Failed to purge expired sessions: %v\n", err)
			}

			if w.staleAfter > 0 {
				if _, err := w.dashboard.RecoverStaleRuns(time.Now().Add(-w.staleAfter)); err != nil {
					log.Printf("⚠️  Failed to recover stale runs: %v\n", err)
				}
			}

			pending, err := w.runRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending runs: %v\n", err)
				continue
			}

			for _, run := range pending {
				select {
				case w.jobQueue <- run.ID:
				default:
					// queue full; the next tick retries
				}
			}
		}
	}
}
