package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aslammaududy/cv-checker/internal/repositories"
)

// Worker runs evaluation jobs on a pool of goroutines separate from the
// request path. Submissions are enqueued on a channel; a poller also picks
// up queued records so a missed send never strands a submission.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

const (
	jobQueueSize    = 100
	pollInterval    = 10 * time.Second
	pendingJobBatch = 10
)

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	logger           *zap.Logger
	jobQueue         chan uuid.UUID
	concurrency      int
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		logger:           logger,
		jobQueue:         make(chan uuid.UUID, jobQueueSize),
		concurrency:      concurrency,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker pool", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping worker pool")
	close(w.stopChan)
	w.wg.Wait()
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	select {
	case w.jobQueue <- evalID:
		w.logger.Debug("job enqueued", zap.String("evaluation_id", evalID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, job not enqueued", zap.String("evaluation_id", evalID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case evalID := <-w.jobQueue:
			if err := w.evaluatorService.EvaluateCandidate(ctx, evalID); err != nil {
				w.logger.Error("job failed",
					zap.Int("worker", workerID),
					zap.String("evaluation_id", evalID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(pendingJobBatch)
			if err != nil {
				w.logger.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
