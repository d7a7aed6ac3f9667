package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
)

// PostgresQueue implements TaskQueue using the notification_tasks table.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed task queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

// Enqueue inserts a queued notification task.
func (q *PostgresQueue) Enqueue(ctx context.Context, task *Task) error {
	entity := &entities.NotificationTask{
		Kind:     task.Kind,
		LeadID:   task.LeadID,
		Status:   "queued",
		QueuedAt: time.Now(),
	}
	if err := q.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}
	task.ID = entity.ID
	task.QueuedAt = entity.QueuedAt
	return nil
}

// Dequeue atomically claims the oldest queued task. Claim and status flip
// happen in one statement so two workers can never pick up the same row.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Task, error) {
	var entity entities.NotificationTask
	now := time.Now()

	err := q.db.WithContext(ctx).
		Raw(`UPDATE notification_tasks
			SET status = ?, attempts = attempts + 1, started_at = ?, updated_at = ?
			WHERE id = (
				SELECT id FROM notification_tasks
				WHERE status = ?
				ORDER BY queued_at ASC
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING *`, "in_progress", now, now, "queued").
		Scan(&entity).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // No tasks available
		}
		return nil, fmt.Errorf("dequeue task: %w", err)
	}

	// Check if no rows were returned (entity.ID will be 0)
	if entity.ID == 0 {
		return nil, nil // No tasks available
	}

	return &Task{
		ID:       entity.ID,
		Kind:     entity.Kind,
		LeadID:   entity.LeadID,
		Attempts: entity.Attempts,
		QueuedAt: entity.QueuedAt,
	}, nil
}

// MarkCompleted updates the task status to completed.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, taskID uint) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.NotificationTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}

	return nil
}

// MarkFailed updates the task status to failed.
func (q *PostgresQueue) MarkFailed(ctx context.Context, taskID uint, taskErr error) error {
	now := time.Now()
	message := taskErr.Error()

	result := q.db.WithContext(ctx).
		Model(&entities.NotificationTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":     "failed",
			"error":      message,
			"failed_at":  now,
			"updated_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}

	return nil
}

// GetQueueDepth returns the number of queued tasks.
func (q *PostgresQueue) GetQueueDepth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.NotificationTask{}).
		Where("status = ?", "queued").
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("get queue depth: %w", err)
	}

	return count, nil
}
