package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/registry"
)

func TestJobsListAndFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	created := seedJob(t, env, "alice", registry.ActionMediaUpload)
	done := seedJob(t, env, "bob", registry.ActionDocumentUpload)
	if err := env.store.Complete(ctx, done.ID, map[string]any{"notes": "out.md"}); err != nil {
		t.Fatalf("complete job: %v", err)
	}

	out, _, err := runCLI(t, []string{"jobs"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	requireContains(t, out, shortJobID(created.ID))
	requireContains(t, out, shortJobID(done.ID))
	requireContains(t, out, "Media Upload")
	requireContains(t, out, "Document Upload")

	out, _, err = runCLI(t, []string{"jobs", "--status", "completed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs --status: %v", err)
	}
	requireContains(t, out, shortJobID(done.ID))
	if strings.Contains(out, shortJobID(created.ID)) {
		t.Fatalf("expected created job filtered out, got:\n%s", out)
	}
}

func TestJobsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"jobs"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs empty: %v", err)
	}
	requireContains(t, out, "No jobs in the registry")
}

func TestJobsJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	seedJob(t, env, "alice", registry.ActionMediaUpload)
	seedJob(t, env, "", registry.ActionMediaURL)

	out, _, err := runCLI(t, []string{"jobs", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs --json: %v", err)
	}

	var jobs []map[string]any
	if err := json.Unmarshal([]byte(out), &jobs); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if _, ok := job["id"]; !ok {
			t.Fatal("missing 'id' key in JSON job")
		}
		if _, ok := job["status"]; !ok {
			t.Fatal("missing 'status' key in JSON job")
		}
	}
}

func TestJobsJSONEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"jobs", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs --json empty: %v", err)
	}

	var jobs []any
	if err := json.Unmarshal([]byte(out), &jobs); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected empty array, got %d jobs", len(jobs))
	}
}

func TestJobsOfflineFallsBackToStore(t *testing.T) {
	env := setupCLITestEnv(t)

	job := seedJob(t, env, "alice", registry.ActionMediaUpload)

	deadSocket := filepath.Join(env.baseDir, "no-daemon.sock")
	out, _, err := runCLI(t, []string{"jobs"}, deadSocket, env.configPath)
	if err != nil {
		t.Fatalf("jobs offline: %v", err)
	}
	requireContains(t, out, shortJobID(job.ID))
}

func TestJobShow(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	job := seedJob(t, env, "carol", registry.ActionMediaUpload)
	if err := env.store.Complete(ctx, job.ID, map[string]any{"transcript": "talk.txt", "segments": float64(12)}); err != nil {
		t.Fatalf("complete job: %v", err)
	}

	out, _, err := runCLI(t, []string{"job", job.ID}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("job show: %v", err)
	}
	requireContains(t, out, "Job "+job.ID)
	requireContains(t, out, "Status:   Completed")
	requireContains(t, out, "carol")
	requireContains(t, out, "Result:")
	requireContains(t, out, "transcript: talk.txt")
}

func TestJobShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	job := seedJob(t, env, "", registry.ActionMediaUpload)

	out, _, err := runCLI(t, []string{"job", job.ID, "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("job --json: %v", err)
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if detail["id"] != job.ID {
		t.Fatalf("expected id %s, got %v", job.ID, detail["id"])
	}
}

func TestJobShowNotFound(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"job", "missing-job"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	out, _, err := runCLI(t, []string{"job", "missing-job", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("job --json not found: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if result["error"] != "not_found" {
		t.Fatalf("expected error=not_found, got %v", result["error"])
	}
}

func TestClearCompleted(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	keep := seedJob(t, env, "", registry.ActionMediaUpload)
	done := seedJob(t, env, "", registry.ActionMediaUpload)
	if err := env.store.Complete(ctx, done.ID, nil); err != nil {
		t.Fatalf("complete job: %v", err)
	}

	out, _, err := runCLI(t, []string{"clear-completed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("clear-completed: %v", err)
	}
	requireContains(t, out, "Cleared 1 completed jobs")

	out, _, err = runCLI(t, []string{"jobs"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("jobs after clear: %v", err)
	}
	requireContains(t, out, shortJobID(keep.ID))
	if strings.Contains(out, shortJobID(done.ID)) {
		t.Fatalf("expected completed job removed, got:\n%s", out)
	}
}

func TestHealthCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	seedJob(t, env, "", registry.ActionMediaUpload)

	out, _, err := runCLI(t, []string{"health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Database path:")
	requireContains(t, out, "jobs table present: yes")
	requireContains(t, out, "Total: 1")

	out, _, err = runCLI(t, []string{"health", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("health --json: %v", err)
	}
	var payload map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if payload["registry"]["total"] != float64(1) {
		t.Fatalf("expected registry.total=1, got %v", payload["registry"]["total"])
	}
	if payload["database"]["integrity_check"] != true {
		t.Fatalf("expected database.integrity_check=true, got %v", payload["database"]["integrity_check"])
	}
}
