package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrTranscription, "transcribe", "run", "backend failed", base)
	if !errors.Is(err, ErrTranscription) {
		t.Fatalf("expected wrapped error to match ErrTranscription, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain cause, got %v", err)
	}
	want := "transcription error: transcribe: run: backend failed: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrValidation, "validate", "", "file missing", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if got, want := err.Error(), "validation error: validate: file missing"; got != want {
		t.Fatalf("unexpected message: got %q want %q", got, want)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient fallback, got %v", err)
	}
	if got, want := err.Error(), "transient failure: service failure"; got != want {
		t.Fatalf("unexpected message: got %q want %q", got, want)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"generation", Wrap(ErrGenerationUnavailable, "notes", "", "api key missing", nil), false},
		{"alignment", Wrap(ErrAlignment, "align", "", "low coverage", nil), false},
		{"ledger", Wrap(ErrLedger, "charge", "", "service down", nil), false},
		{"validation", Wrap(ErrValidation, "validate", "", "too long", nil), true},
		{"transcription", Wrap(ErrTranscription, "transcribe", "", "", nil), true},
		{"plain", errors.New("unclassified"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFatal(tc.err); got != tc.fatal {
				t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fatal)
			}
		})
	}
}

func TestDetailsStripsMarkers(t *testing.T) {
	err := Wrap(ErrTranscription, "transcribe", "run", "backend failed", errors.New("exit 1"))
	if got, want := Details(err), "transcribe: run: backend failed: exit 1"; got != want {
		t.Fatalf("Details = %q, want %q", got, want)
	}
}

func TestDetailsStripsNestedMarkers(t *testing.T) {
	inner := Wrap(ErrExternalTool, "", "ffmpeg", "exited", errors.New("status 1"))
	outer := fmt.Errorf("%w: %w", ErrAcquisition, inner)
	if got, want := Details(outer), "ffmpeg: exited: status 1"; got != want {
		t.Fatalf("Details = %q, want %q", got, want)
	}
}

func TestDetailsNil(t *testing.T) {
	if got := Details(nil); got != "" {
		t.Fatalf("Details(nil) = %q, want empty", got)
	}
}
