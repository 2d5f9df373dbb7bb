package pipeline

import (
	"context"

	"lectern/internal/logging"
	"lectern/internal/registry"
)

// StatusSummary is a point-in-time view of the pipeline for status surfaces.
type StatusSummary struct {
	Running    bool
	Workers    int
	QueueDepth int
	LastError  string
	LastJob    *registry.Job
	JobCounts  map[registry.Status]int
}

// Status reports current pool state plus registry job counts.
func (o *Orchestrator) Status(ctx context.Context) StatusSummary {
	o.mu.RLock()
	running := o.running
	lastErr := o.lastErr
	lastJob := o.lastJob
	queue := o.queue
	o.mu.RUnlock()

	summary := StatusSummary{
		Running: running,
		Workers: o.workerCount,
	}
	if queue != nil {
		summary.QueueDepth = len(queue)
	}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastJob != nil {
		jobCopy := *lastJob
		summary.LastJob = &jobCopy
	}

	counts, err := o.store.Stats(ctx)
	if err != nil {
		o.logger.Warn("read job stats failed", logging.Error(err))
	} else {
		summary.JobCounts = counts
	}
	return summary
}
