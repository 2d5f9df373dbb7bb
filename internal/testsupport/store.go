package testsupport

import (
	"context"
	"testing"

	"lectern/internal/config"
	"lectern/internal/registry"
)

// MustOpenStore opens a registry.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob creates a job for tests using the provided store.
func NewJob(t testing.TB, store *registry.Store, owner string, action registry.ActionType) *registry.Job {
	t.Helper()

	job, err := store.Create(context.Background(), action, "", owner, "")
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return job
}
