package api

import (
	"encoding/json"
	"time"

	"lectern/internal/pipeline"
	"lectern/internal/registry"
)

// FromJob converts a registry job to its API representation.
func FromJob(job *registry.Job) Job {
	if job == nil {
		return Job{}
	}

	dto := Job{
		ID:              job.ID,
		ActionType:      string(job.ActionType),
		Status:          string(job.Status),
		Progress:        job.Progress,
		Owner:           job.Owner,
		Plan:            job.Plan,
		Input:           job.Input,
		ErrorMessage:    job.ErrorMessage,
		CreditsDeducted: job.CreditsDeducted,
	}
	if len(job.Result) > 0 {
		if raw, err := json.Marshal(job.Result); err == nil {
			dto.Result = json.RawMessage(raw)
		}
	}
	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		dto.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromJobs converts a slice of registry jobs into API DTOs.
func FromJobs(jobs []*registry.Job) []Job {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, FromJob(job))
	}
	return out
}

// FromStatusSummary converts an orchestrator status summary to API payload.
func FromStatusSummary(summary pipeline.StatusSummary) PipelineStatus {
	status := PipelineStatus{
		Running:    summary.Running,
		Workers:    summary.Workers,
		QueueDepth: summary.QueueDepth,
		JobStats:   MergeJobStats(summary.JobCounts),
	}
	if summary.LastError != "" {
		status.LastError = summary.LastError
	}
	if summary.LastJob != nil {
		last := FromJob(summary.LastJob)
		status.LastJob = &last
	}
	return status
}

// MergeJobStats produces a string-keyed representation of job stats.
func MergeJobStats(stats map[registry.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
