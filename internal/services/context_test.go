package services

import (
	"context"
	"testing"
)

func TestJobIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := JobIDFromContext(ctx); ok {
		t.Fatal("expected no job id on fresh context")
	}
	ctx = WithJobID(ctx, "9f2c1d34")
	id, ok := JobIDFromContext(ctx)
	if !ok || id != "9f2c1d34" {
		t.Fatalf("got (%q, %v), want (9f2c1d34, true)", id, ok)
	}
}

func TestWithJobIDIgnoresEmpty(t *testing.T) {
	ctx := WithJobID(context.Background(), "")
	if _, ok := JobIDFromContext(ctx); ok {
		t.Fatal("empty job id should not be stored")
	}
}

func TestStageRoundTrip(t *testing.T) {
	ctx := WithStage(context.Background(), "transcribe")
	stage, ok := StageFromContext(ctx)
	if !ok || stage != "transcribe" {
		t.Fatalf("got (%q, %v), want (transcribe, true)", stage, ok)
	}
}

func TestWorkerRoundTrip(t *testing.T) {
	ctx := WithWorker(context.Background(), 2)
	slot, ok := WorkerFromContext(ctx)
	if !ok || slot != 2 {
		t.Fatalf("got (%d, %v), want (2, true)", slot, ok)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "req-1" {
		t.Fatalf("got (%q, %v), want (req-1, true)", id, ok)
	}
}
