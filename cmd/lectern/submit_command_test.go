package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/registry"
	"lectern/internal/testsupport"
)

func TestSubmitMediaFile(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "drop", "lecture.mp3")
	testsupport.WriteFile(t, source, 2048)

	out, _, err := runCLI(t, []string{"submit", source}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Submitted job")
	requireContains(t, out, "(Media Upload)")

	jobs, err := env.store.List(context.Background())
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Status != registry.StatusCreated {
		t.Fatalf("expected status created, got %s", job.Status)
	}
	if !strings.HasPrefix(job.Input, env.cfg.Paths.StagingDir) {
		t.Fatalf("expected staged input under %s, got %s", env.cfg.Paths.StagingDir, job.Input)
	}
}

func TestSubmitURLJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	const url = "https://example.com/talks/lecture.mp4"
	out, _, err := runCLI(t, []string{"submit", url, "--json", "--owner", "alice"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("submit url: %v", err)
	}

	var job map[string]any
	if err := json.Unmarshal([]byte(out), &job); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if job["actionType"] != string(registry.ActionMediaURL) {
		t.Fatalf("expected actionType media_url, got %v", job["actionType"])
	}
	if job["input"] != url {
		t.Fatalf("expected input %s, got %v", url, job["input"])
	}
	if job["owner"] != "alice" {
		t.Fatalf("expected owner alice, got %v", job["owner"])
	}
}

func TestSubmitMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "nope.mp3")
	_, _, err := runCLI(t, []string{"submit", missing}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestSubmitUnknownExtension(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "notes.txt")
	testsupport.WriteFile(t, source, 64)

	_, _, err := runCLI(t, []string{"submit", source}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "cannot determine action") {
		t.Fatalf("expected action inference error, got %v", err)
	}
}

func TestSubmitExplicitActionRejectsUnknown(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "drop", "talk.mp3")
	testsupport.WriteFile(t, source, 512)

	_, _, err := runCLI(t, []string{"submit", source, "--action", "bogus"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown action type") {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}
