package queue

import (
	"context"
)

// LeadNotifier adapts the task queue to the lead service's Notifier port.
type LeadNotifier struct {
	queue TaskQueue
}

// NewLeadNotifier constructs the adapter.
func NewLeadNotifier(queue TaskQueue) *LeadNotifier {
	return &LeadNotifier{queue: queue}
}

// EnqueueLeadNotification queues a notification task for a saved lead.
func (n *LeadNotifier) EnqueueLeadNotification(ctx context.Context, leadID uint) error {
	return n.queue.Enqueue(ctx, &Task{
		Kind:   KindLeadNotification,
		LeadID: leadID,
	})
}
