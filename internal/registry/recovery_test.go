package registry_test

import (
	"context"
	"testing"

	"lectern/internal/registry"
	"lectern/internal/testsupport"
)

type stubProbe struct {
	artifacts map[string][]string
}

func (p stubProbe) JobArtifacts(id string) []string {
	return p.artifacts[id]
}

func TestGetRecoversJobFromArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	store.SetArtifactProbe(stubProbe{artifacts: map[string][]string{
		"orphan-1": {"orphan-1_transcript.txt", "orphan-1_notes.md"},
	}})

	job, err := store.Get(ctx, "orphan-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job == nil {
		t.Fatal("expected a recovered job")
	}
	if job.Status != registry.StatusCompleted {
		t.Fatalf("recovered status = %s, want completed", job.Status)
	}
	if !job.CreditsDeducted {
		t.Fatal("recovered job assumes credits were deducted")
	}
	if job.Owner != "" {
		t.Fatalf("recovered owner = %q, want unknown", job.Owner)
	}
	if job.Result == nil || job.Result["recovered"] != true {
		t.Fatalf("recovered result = %#v, want recovered marker", job.Result)
	}

	// The synthesized row is persisted: it survives even without the probe.
	store.SetArtifactProbe(nil)
	again, err := store.Get(ctx, "orphan-1")
	if err != nil {
		t.Fatalf("Get after recovery failed: %v", err)
	}
	if again == nil || again.Status != registry.StatusCompleted {
		t.Fatalf("recovered row not persisted: %#v", again)
	}
}

func TestExistsConsultsArtifactProbe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	store.SetArtifactProbe(stubProbe{artifacts: map[string][]string{
		"orphan-2": {"orphan-2_aligned.json"},
	}})

	exists, err := store.Exists(ctx, "orphan-2")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Fatal("id with artifacts on disk should exist after reconciliation")
	}

	exists, err = store.Exists(ctx, "orphan-3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("id with no row and no artifacts must not exist")
	}
}

func TestRecoveryWithoutProbeIsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job, err := store.Get(context.Background(), "orphan-4")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected not-found without probe, got %#v", job)
	}
}
