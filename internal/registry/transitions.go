package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lectern/internal/logging"
)

// Update mutates optional job fields as part of a status update.
type Update func(*Job)

// WithErrorMessage records an operator-facing error description.
func WithErrorMessage(message string) Update {
	return func(j *Job) { j.ErrorMessage = message }
}

// WithCreditsDeducted records whether billing ran for the job.
func WithCreditsDeducted(deducted bool) Update {
	return func(j *Job) { j.CreditsDeducted = deducted }
}

// WithResult replaces the job's result payload.
func WithResult(result map[string]any) Update {
	return func(j *Job) { j.Result = result }
}

// staleProcessingMessage explains jobs failed by startup reconciliation.
const staleProcessingMessage = "Processing interrupted by daemon restart"

// UpdateStatus advances a job's status and progress text, applying any field
// updates in the same transaction. Unknown ids and updates that would move a
// job backwards (or touch a terminal job) are logged and dropped without
// error.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status, progress string, updates ...Update) error {
	if _, ok := statusRank[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("status update for unknown job dropped",
			logging.String(logging.FieldJobID, id),
			logging.String("status", string(status)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load job for update: %w", err)
	}

	if job.IsTerminal() {
		s.logger.Warn("status update against terminal job dropped",
			logging.String(logging.FieldJobID, id),
			logging.String("current", string(job.Status)),
			logging.String("requested", string(status)))
		return nil
	}
	if statusRank[status] < statusRank[job.Status] {
		s.logger.Warn("backwards status update dropped",
			logging.String(logging.FieldJobID, id),
			logging.String("current", string(job.Status)),
			logging.String("requested", string(status)))
		return nil
	}

	job.Status = status
	if progress != "" {
		job.Progress = progress
	}
	for _, apply := range updates {
		apply(job)
	}
	job.UpdatedAt = time.Now().UTC()

	var resultJSON any
	if job.Result != nil {
		data, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("marshal job result: %w", err)
		}
		resultJSON = string(data)
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE jobs
         SET status = ?, progress = ?, credits_deducted = ?, error_message = ?,
             result_json = ?, updated_at = ?
         WHERE id = ?`,
		job.Status,
		job.Progress,
		boolToInt(job.CreditsDeducted),
		nullableString(job.ErrorMessage),
		resultJSON,
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// UpdateProgress replaces the progress text of a live job. Terminal and
// unknown jobs drop the update silently.
func (s *Store) UpdateProgress(ctx context.Context, id string, message string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET progress = ?, updated_at = ? WHERE id = ? AND status NOT IN (?, ?)`,
		message,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusCompleted,
		StatusError,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("progress update dropped",
			logging.String(logging.FieldJobID, id),
			logging.String("progress", message))
	}
	return nil
}

// Complete marks a job completed with its result payload.
func (s *Store) Complete(ctx context.Context, id string, result map[string]any) error {
	return s.UpdateStatus(ctx, id, StatusCompleted, "Completed", WithResult(result))
}

// Fail marks a job errored. Failed jobs never keep a credit deduction.
func (s *Store) Fail(ctx context.Context, id string, errText string) error {
	return s.UpdateStatus(ctx, id, StatusError, "Failed",
		WithErrorMessage(errText),
		WithCreditsDeducted(false))
}

// FailStaleProcessing fails jobs left in processing by a previous run. Runs
// once at daemon startup; interrupted jobs are not retried automatically.
func (s *Store) FailStaleProcessing(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs
         SET status = ?, progress = 'Failed', error_message = ?,
             credits_deducted = 0, updated_at = ?
         WHERE status = ?`,
		StatusError,
		staleProcessingMessage,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("fail stale processing: %w", err)
	}
	return res.RowsAffected()
}
