package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"lectern/internal/logging"
	"lectern/internal/registry"
	"lectern/internal/services"
)

const (
	transcriptExcerptChars = 500
	notesPreviewChars      = 200
)

func (o *Orchestrator) runJob(ctx context.Context, job *registry.Job) {
	start := time.Now()
	logger := o.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String("action", string(job.ActionType)),
		logging.String(logging.FieldCorrelationID, uuid.NewString()),
	)
	o.metrics.RecordJobStart()
	logger.Info("job started", logging.String(logging.FieldEventType, "job_start"))

	result, err := o.safeProcess(ctx, logger, job)

	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Left in processing on purpose; startup reconciliation fails it.
			logger.Debug("job interrupted by shutdown")
			o.metrics.RecordJobEnd(string(job.ActionType), false, duration.Seconds())
			return
		}
		o.failJob(ctx, logger, job, err, duration)
	} else {
		o.completeJob(ctx, logger, job, result, duration)
	}
	o.cleanup(logger, job)
}

// safeProcess runs the per-job stages, converting panics into job errors so
// one bad job can never take a worker down.
func (o *Orchestrator) safeProcess(ctx context.Context, logger *slog.Logger, job *registry.Job) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldEventType, "job_panic"))
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	switch job.ActionType {
	case registry.ActionMediaUpload, registry.ActionMediaURL:
		return o.processMedia(ctx, logger, job)
	case registry.ActionDocumentUpload:
		return o.processDocument(ctx, logger, job)
	default:
		return nil, services.Wrap(services.ErrValidation, "dispatch", "",
			fmt.Sprintf("unsupported action type %q", job.ActionType), nil)
	}
}

func (o *Orchestrator) completeJob(ctx context.Context, logger *slog.Logger, job *registry.Job, result map[string]any, duration time.Duration) {
	if err := o.store.Complete(ctx, job.ID, result); err != nil {
		logger.Error("persist job completion", logging.Error(err))
		o.setLastError(err)
	}
	job.Status = registry.StatusCompleted
	job.Progress = "Completed"
	job.Result = result

	logger.Info("job completed",
		logging.Duration("job_duration", duration),
		logging.String(logging.FieldEventType, "job_complete"))
	o.metrics.RecordJobEnd(string(job.ActionType), true, duration.Seconds())
	o.setLastJob(job)

	if err := o.publisher.JobCompleted(ctx, job); err != nil {
		logger.Warn("publish job completed event", logging.Error(err))
	}
	sections := 0
	if v, ok := result["mapped_sections"].(int); ok {
		sections = v
	}
	if err := o.notifier.NotifyJobCompleted(ctx, job.ID, string(job.ActionType), sections); err != nil {
		logger.Warn("send completion notification", logging.Error(err))
	}
}

func (o *Orchestrator) failJob(ctx context.Context, logger *slog.Logger, job *registry.Job, jobErr error, duration time.Duration) {
	message := services.Details(jobErr)
	if message == "" {
		message = jobErr.Error()
	}
	logger.Error("job failed",
		logging.Error(jobErr),
		logging.Duration("job_duration", duration),
		logging.String(logging.FieldEventType, "job_failed"))
	if err := o.store.Fail(ctx, job.ID, message); err != nil {
		logger.Error("persist job failure", logging.Error(err))
		o.setLastError(err)
	}
	job.Status = registry.StatusError
	job.Progress = "Failed"
	job.ErrorMessage = message
	job.CreditsDeducted = false

	o.metrics.RecordJobEnd(string(job.ActionType), false, duration.Seconds())
	o.setLastJob(job)

	if err := o.publisher.JobFailed(ctx, job); err != nil {
		logger.Warn("publish job failed event", logging.Error(err))
	}
	if err := o.notifier.NotifyJobFailed(ctx, job.ID, message); err != nil {
		logger.Warn("send failure notification", logging.Error(err))
	}
}

// progress records a stage transition visible to status polls. The update is
// best effort; a dropped write never stops the job.
func (o *Orchestrator) progress(ctx context.Context, job *registry.Job, message string) {
	if err := o.store.UpdateProgress(ctx, job.ID, message); err != nil {
		o.logger.Warn("progress update failed",
			logging.Error(err),
			logging.String(logging.FieldJobID, job.ID))
	}
	job.Progress = message
}

// cleanup removes the job's staging leftovers: the download directory, the
// staged source copy, and the extracted audio. Output artifacts are never
// touched.
func (o *Orchestrator) cleanup(logger *slog.Logger, job *registry.Job) {
	if !o.cfg.Workflow.CleanupTemp {
		return
	}
	entries, err := filepath.Glob(filepath.Join(o.cfg.Paths.StagingDir, job.ID+"*"))
	if err != nil {
		logger.Warn("staging cleanup glob failed", logging.Error(err))
		return
	}
	if job.ActionType != registry.ActionMediaURL && withinDir(o.cfg.Paths.StagingDir, job.Input) {
		entries = append(entries, job.Input)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(entry); err != nil {
			logger.Warn("staging cleanup failed",
				logging.Error(err),
				logging.String("path", entry))
		}
	}
}

// withinDir reports whether path names an entry inside dir (not dir itself).
func withinDir(dir, path string) bool {
	if dir == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (o *Orchestrator) downloadDir(id string) string {
	return filepath.Join(o.cfg.Paths.StagingDir, id)
}

func (o *Orchestrator) audioPath(id string) string {
	return filepath.Join(o.cfg.Paths.StagingDir, id+"_audio.wav")
}

// excerpt returns text unchanged when short enough, otherwise the first
// limit runes with a trailing ellipsis.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// preview renders the notes preview result field: nil when no notes were
// generated, a capped excerpt otherwise.
func preview(notesText string) any {
	if notesText == "" {
		return nil
	}
	return excerpt(notesText, notesPreviewChars)
}
