package queue

import (
	"context"
	"time"
)

// Task kinds processed by the worker pool.
const KindLeadNotification = "lead_notification"

// Task represents a background task to be processed.
type Task struct {
	ID       uint
	Kind     string
	LeadID   uint
	Attempts int
	QueuedAt time.Time
}

// TaskQueue defines the interface for task queue operations.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(ctx context.Context, task *Task) error

	// Dequeue atomically claims the next available task, marking it
	// in_progress; nil task means the queue is empty
	Dequeue(ctx context.Context) (*Task, error)

	// MarkCompleted updates task status to completed
	MarkCompleted(ctx context.Context, taskID uint) error

	// MarkFailed updates task status to failed
	MarkFailed(ctx context.Context, taskID uint, err error) error

	// GetQueueDepth returns the number of queued tasks
	GetQueueDepth(ctx context.Context) (int64, error)
}
