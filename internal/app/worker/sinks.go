// Package worker runs the best-effort sink writes (durable store inserts,
// event bus publishes) on a bounded pool so a slow backing service cannot
// stall any connection's receive loop.
package worker

import (
	"context"
	"log/slog"

	"groupchat/internal/core/contracts"
)

type SinkPool struct {
	log     *slog.Logger
	jobs    chan contracts.SinkJob
	workers int
}

func NewSinkPool(log *slog.Logger, workers, queueSize int) *SinkPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &SinkPool{
		log:     log,
		jobs:    make(chan contracts.SinkJob, queueSize),
		workers: workers,
	}
}

// Start launches the workers. They drain until ctx is cancelled; queued jobs
// still in the channel at shutdown are abandoned, matching the one-shot,
// no-retry sink contract.
func (p *SinkPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.run(ctx, i)
	}
	p.log.InfoContext(ctx, "worker - sink pool - started", "workers", p.workers, "queue_size", cap(p.jobs))
}

func (p *SinkPool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			p.log.Info("worker - sink pool - worker stopped", "worker", id)
			return
		case job := <-p.jobs:
			job(ctx)
		}
	}
}

// Enqueue hands a job to the pool without blocking. When the queue is full
// the job is rejected and the caller decides what to log; sinks are
// best-effort so nothing is retried.
func (p *SinkPool) Enqueue(job contracts.SinkJob) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}
