package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/queue"
	"sitebot-server/services/assistant-api/internal/worker"
)

// stubQueue hands out each task exactly once: the claim happens inside
// Dequeue, the way the Postgres queue claims with a single UPDATE.
type stubQueue struct {
	mu        sync.Mutex
	tasks     []*queue.Task
	completed []uint
	failed    []uint
	done      chan uint
}

func newStubQueue(tasks ...*queue.Task) *stubQueue {
	return &stubQueue{tasks: tasks, done: make(chan uint, len(tasks))}
}

func (q *stubQueue) Enqueue(_ context.Context, task *queue.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *stubQueue) Dequeue(_ context.Context) (*queue.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	task.Attempts++
	return task, nil
}

func (q *stubQueue) MarkCompleted(_ context.Context, taskID uint) error {
	q.mu.Lock()
	q.completed = append(q.completed, taskID)
	q.mu.Unlock()
	q.done <- taskID
	return nil
}

func (q *stubQueue) MarkFailed(_ context.Context, taskID uint, _ error) error {
	q.mu.Lock()
	q.failed = append(q.failed, taskID)
	q.mu.Unlock()
	q.done <- taskID
	return nil
}

func (q *stubQueue) GetQueueDepth(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

func notifyFixtures() (*stubLeads, *stubTenants, *captureSender) {
	leads := &stubLeads{byID: map[uint]*lead.Lead{
		9: {ID: 9, TenantID: 3, Name: strptr("Jane"), Email: strptr("jane@example.com")},
	}}
	tenants := &stubTenants{byID: map[uint]*tenant.Tenant{
		3: {ID: 3, ContactEmail: strptr("owner@acme.test")},
	}}
	return leads, tenants, &captureSender{}
}

func TestWorker_DeliversClaimedTaskExactlyOnce(t *testing.T) {
	q := newStubQueue(&queue.Task{ID: 1, Kind: queue.KindLeadNotification, LeadID: 9})
	leads, tenants, sender := notifyFixtures()
	svc := worker.NewNotificationService(leads, tenants, &stubMessages{}, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Two workers polling the same queue must not both deliver the task;
	// the claim in Dequeue is the only handoff point.
	for i := 0; i < 2; i++ {
		w := worker.NewWorker(i, q, svc, time.Second, 2*time.Millisecond, zerolog.Nop())
		go w.Start(ctx)
	}

	select {
	case <-q.done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was never completed")
	}
	// Let the other worker take a few more polls before asserting.
	time.Sleep(20 * time.Millisecond)
	cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	assert.Equal(t, []uint{1}, q.completed)
	assert.Empty(t, q.failed)
	assert.Len(t, sender.sent, 1)
}

func TestWorker_MarksFailedTask(t *testing.T) {
	q := newStubQueue(&queue.Task{ID: 2, Kind: queue.KindLeadNotification, LeadID: 404})
	leads, tenants, sender := notifyFixtures()
	svc := worker.NewNotificationService(leads, tenants, &stubMessages{}, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.NewWorker(0, q, svc, time.Second, 2*time.Millisecond, zerolog.Nop())
	go w.Start(ctx)

	select {
	case <-q.done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was never resolved")
	}
	cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	require.Equal(t, []uint{2}, q.failed)
	assert.Empty(t, q.completed)
	assert.Empty(t, sender.sent)
}
