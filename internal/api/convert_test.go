package api_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lectern/internal/api"
	"lectern/internal/pipeline"
	"lectern/internal/registry"
)

func TestFromJobMapsFields(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	job := &registry.Job{
		ID:              "3d0b9f6a-1111-2222-3333-444455556666",
		Status:          registry.StatusCompleted,
		Progress:        "Completed",
		Owner:           "alice",
		Plan:            "student",
		ActionType:      registry.ActionMediaUpload,
		Input:           "/staging/lecture.mp4",
		CreditsDeducted: true,
		Result:          map[string]any{"has_notes": true, "segments_count": 3},
		CreatedAt:       created,
		UpdatedAt:       created.Add(2 * time.Minute),
	}

	dto := api.FromJob(job)
	if dto.ID != job.ID || dto.Status != "completed" || dto.ActionType != "media_upload" {
		t.Fatalf("unexpected dto identity: %#v", dto)
	}
	if !dto.CreditsDeducted {
		t.Fatal("expected creditsDeducted to carry over")
	}
	if dto.CreatedAt == "" || !strings.HasPrefix(dto.CreatedAt, "2025-03-14T09:26:53") {
		t.Fatalf("unexpected createdAt: %q", dto.CreatedAt)
	}

	var result map[string]any
	if err := json.Unmarshal(dto.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result["has_notes"] != true {
		t.Fatalf("result has_notes = %v", result["has_notes"])
	}
}

func TestFromJobNilAndEmpty(t *testing.T) {
	if dto := api.FromJob(nil); dto.ID != "" {
		t.Fatalf("nil job produced %#v", dto)
	}
	dto := api.FromJob(&registry.Job{ID: "x", Status: registry.StatusCreated})
	if dto.Result != nil {
		t.Fatalf("empty result should stay nil, got %s", dto.Result)
	}
	if dto.CreatedAt != "" {
		t.Fatalf("zero time should render empty, got %q", dto.CreatedAt)
	}
}

func TestFromStatusSummary(t *testing.T) {
	summary := pipeline.StatusSummary{
		Running:    true,
		Workers:    2,
		QueueDepth: 1,
		LastError:  "fetch next job failed",
		LastJob:    &registry.Job{ID: "last", Status: registry.StatusError},
		JobCounts: map[registry.Status]int{
			registry.StatusCreated:   3,
			registry.StatusCompleted: 5,
		},
	}

	status := api.FromStatusSummary(summary)
	if !status.Running || status.Workers != 2 || status.QueueDepth != 1 {
		t.Fatalf("unexpected status: %#v", status)
	}
	if status.JobStats["created"] != 3 || status.JobStats["completed"] != 5 {
		t.Fatalf("unexpected job stats: %#v", status.JobStats)
	}
	if status.LastJob == nil || status.LastJob.ID != "last" {
		t.Fatalf("unexpected last job: %#v", status.LastJob)
	}
}

type stubReader struct {
	jobs []*registry.Job
}

func (r *stubReader) List(_ context.Context, statuses ...registry.Status) ([]*registry.Job, error) {
	if len(statuses) == 0 {
		return r.jobs, nil
	}
	var out []*registry.Job
	for _, job := range r.jobs {
		for _, status := range statuses {
			if job.Status == status {
				out = append(out, job)
			}
		}
	}
	return out, nil
}

func (r *stubReader) Stats(context.Context) (map[registry.Status]int, error) {
	stats := make(map[registry.Status]int)
	for _, job := range r.jobs {
		stats[job.Status]++
	}
	return stats, nil
}

func (r *stubReader) Get(_ context.Context, id string) (*registry.Job, error) {
	for _, job := range r.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, nil
}

func TestJobServiceQueries(t *testing.T) {
	reader := &stubReader{jobs: []*registry.Job{
		{ID: "a", Status: registry.StatusCreated},
		{ID: "b", Status: registry.StatusCompleted},
	}}
	svc := api.NewJobService(reader)

	all, err := svc.List(context.Background())
	if err != nil || len(all) != 2 {
		t.Fatalf("List = %d jobs, err %v", len(all), err)
	}
	completed, err := svc.List(context.Background(), registry.StatusCompleted)
	if err != nil || len(completed) != 1 || completed[0].ID != "b" {
		t.Fatalf("filtered List = %#v, err %v", completed, err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil || stats["created"] != 1 || stats["completed"] != 1 {
		t.Fatalf("Stats = %#v, err %v", stats, err)
	}

	job, err := svc.Describe(context.Background(), "a")
	if err != nil || job == nil || job.ID != "a" {
		t.Fatalf("Describe = %#v, err %v", job, err)
	}
	missing, err := svc.Describe(context.Background(), "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing Describe = %#v, err %v", missing, err)
	}
}
