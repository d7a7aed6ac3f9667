package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
	"sitebot-server/services/assistant-api/internal/infrastructure/queue"
)

// Worker processes background tasks from the queue.
type Worker struct {
	id            int
	queue         queue.TaskQueue
	notifications *NotificationService
	taskTimeout   time.Duration
	pollDelay     time.Duration
	log           zerolog.Logger
	stopChan      chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	queue queue.TaskQueue,
	notifications *NotificationService,
	taskTimeout time.Duration,
	pollDelay time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:            id,
		queue:         queue,
		notifications: notifications,
		taskTimeout:   taskTimeout,
		pollDelay:     pollDelay,
		log:           log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:      make(chan struct{}),
	}
}

// Start begins processing tasks from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(w.pollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextTask(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextTask(ctx context.Context) {
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue task")
		return
	}

	if task == nil {
		// No tasks available
		return
	}

	w.log.Info().
		Uint("task_id", task.ID).
		Str("kind", task.Kind).
		Uint("lead_id", task.LeadID).
		Msg("processing background task")

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	if err := w.executeTask(taskCtx, task); err != nil {
		w.log.Error().Err(err).Uint("task_id", task.ID).Msg("task execution failed")
		metrics.RecordBackgroundJob(task.Kind, "failed")
		if markErr := w.queue.MarkFailed(ctx, task.ID, err); markErr != nil {
			w.log.Error().Err(markErr).Uint("task_id", task.ID).Msg("failed to mark task as failed")
		}
		return
	}

	if err := w.queue.MarkCompleted(ctx, task.ID); err != nil {
		w.log.Error().Err(err).Uint("task_id", task.ID).Msg("failed to mark task as completed")
	}
	metrics.RecordBackgroundJob(task.Kind, "completed")

	w.log.Info().Uint("task_id", task.ID).Msg("task completed successfully")
}

func (w *Worker) executeTask(ctx context.Context, task *queue.Task) error {
	switch task.Kind {
	case queue.KindLeadNotification:
		return w.notifications.NotifyLead(ctx, task.LeadID)
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}
