package main

import (
	"io"
	"strings"
	"testing"

	"lectern/internal/ipc"
)

func TestRenderStatusLine(t *testing.T) {
	cases := []struct {
		name     string
		kind     statusKind
		message  string
		colorize bool
		want     string
	}{
		{
			name:    "error with message",
			kind:    statusError,
			message: "Not running",
			want:    "  Lectern:             [ERROR] Not running",
		},
		{
			name: "info without message",
			kind: statusInfo,
			want: "  Lectern:             [INFO]",
		},
		{
			name:     "ok colorized",
			kind:     statusOK,
			message:  "Running",
			colorize: true,
			want:     ansiGreen + "  Lectern:             [OK] Running" + ansiReset,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := renderStatusLine("Lectern", tc.kind, tc.message, tc.colorize)
			if got != tc.want {
				t.Fatalf("renderStatusLine = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Job Status", false)
	if len(lines) != 2 {
		t.Fatalf("expected banner and rule, got %d lines", len(lines))
	}
	if lines[0] != "== Job Status ==" {
		t.Fatalf("unexpected banner %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("rule %q does not match banner width", lines[1])
	}
}

func TestDependencyLines(t *testing.T) {
	deps := []ipc.DependencyStatus{
		{Name: "FFmpeg", Available: false},
		{Name: "FFprobe", Available: true, Command: "ffprobe"},
		{Name: "Downloader", Available: false, Optional: true, Detail: "not configured"},
	}
	lines := dependencyLines(deps, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "Summary") {
		t.Fatalf("expected summary line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("expected error detail in second line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[OK] Ready (command: ffprobe)") {
		t.Fatalf("expected ready detail in third line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN] not configured") {
		t.Fatalf("expected warn detail in fourth line, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "Missing dependencies:") {
		t.Fatalf("expected missing dependencies summary, got %q", lines[4])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
