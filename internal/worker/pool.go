package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
	"sitebot-server/services/assistant-api/internal/infrastructure/queue"
)

// depthInterval is how often the pool samples the queue depth gauge.
const depthInterval = 15 * time.Second

// stopTimeout bounds how long Stop waits for in-flight tasks.
const stopTimeout = 30 * time.Second

// Config sizes the worker pool.
type Config struct {
	WorkerCount int
	TaskTimeout time.Duration
	PollDelay   time.Duration
}

// Pool runs a fixed set of queue workers plus a queue depth reporter.
type Pool struct {
	queue         queue.TaskQueue
	notifications *NotificationService
	cfg           Config
	log           zerolog.Logger

	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool creates the pool. Start launches its workers.
func NewPool(q queue.TaskQueue, notifications *NotificationService, cfg Config, log zerolog.Logger) *Pool {
	return &Pool{
		queue:         q,
		notifications: notifications,
		cfg:           cfg,
		log:           log.With().Str("component", "worker-pool").Logger(),
	}
}

// Start launches the workers and the depth reporter. The reporter exits when
// ctx is cancelled; workers additionally honor Stop.
func (p *Pool) Start(ctx context.Context) error {
	p.workers = make([]*Worker, p.cfg.WorkerCount)
	for i := range p.workers {
		w := NewWorker(i+1, p.queue, p.notifications, p.cfg.TaskTimeout, p.cfg.PollDelay, p.log)
		p.workers[i] = w

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(w)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.reportDepth(ctx)
	}()

	p.log.Info().Int("worker_count", p.cfg.WorkerCount).Msg("worker pool started")
	return nil
}

// Stop signals every worker and waits for in-flight tasks, bounded by stopTimeout.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("worker pool stopped")
	case <-time.After(stopTimeout):
		p.log.Warn().Msg("worker pool shutdown timed out")
	}
}

func (p *Pool) reportDepth(ctx context.Context) {
	ticker := time.NewTicker(depthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := p.queue.GetQueueDepth(ctx)
			if err != nil {
				p.log.Warn().Err(err).Msg("queue depth check failed")
				continue
			}
			metrics.SetQueueDepth(int(depth))
		}
	}
}
