package contracts

import "context"

// SinkJob is one best-effort side-effect (persist or publish) detached from
// the connection goroutine that produced it.
type SinkJob func(ctx context.Context)

// SinkPool runs sink jobs on a bounded set of workers so a slow store or
// bus cannot stall a receive loop. Enqueue reports false when the queue is
// full; the job is then dropped, never retried.
type SinkPool interface {
	Enqueue(job SinkJob) bool
}
