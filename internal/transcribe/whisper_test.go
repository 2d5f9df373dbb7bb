package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/config"
)

const whisperFixture = `{
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 0, "to": 4500}, "text": " Welcome to the course."},
    {"offsets": {"from": 4500, "to": 9100}, "text": " Today we cover sets."},
    {"offsets": {"from": 9100, "to": 9200}, "text": "   "}
  ]
}`

func TestWhisperCLITranscribe(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "lecture.wav")
	if err := os.WriteFile(audioPath, []byte("wav"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	backend := NewWhisperCLI(config.Transcription{
		WhisperBinary: "whisper-cli",
		WhisperModel:  "/models/ggml-base.en.bin",
	})

	var gotName string
	var gotArgs []string
	backend.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		outBase := flagValue(args, "-of")
		if outBase == "" {
			t.Fatalf("no -of flag in args: %v", args)
		}
		if err := os.WriteFile(outBase+".json", []byte(whisperFixture), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		return nil, nil
	})

	transcript, err := backend.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if gotName != "whisper-cli" {
		t.Fatalf("ran %q, want whisper-cli", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-m /models/ggml-base.en.bin", "-f " + audioPath, "-of " + filepath.Join(dir, "lecture"), "-oj"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("whisper args missing %q: %v", want, gotArgs)
		}
	}

	if transcript.Language != "en" {
		t.Fatalf("language = %q, want en", transcript.Language)
	}
	if transcript.Text != "Welcome to the course. Today we cover sets." {
		t.Fatalf("unexpected text: %q", transcript.Text)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("expected 2 segments (blank dropped), got %d", len(transcript.Segments))
	}
	if transcript.Segments[0].Start != 0 || transcript.Segments[0].End != 4.5 {
		t.Fatalf("first segment bounds = %+v, want 0s-4.5s", transcript.Segments[0])
	}
	if transcript.Segments[1].Text != "Today we cover sets." {
		t.Fatalf("second segment text = %q", transcript.Segments[1].Text)
	}
}

func TestWhisperCLILanguageFlag(t *testing.T) {
	backend := NewWhisperCLI(config.Transcription{Language: "es"})
	joined := strings.Join(backend.buildArgs("/tmp/a.wav", "/tmp/a"), " ")
	if !strings.Contains(joined, "-l es") {
		t.Fatalf("expected language flag in args: %s", joined)
	}
	if strings.Contains(joined, "-m ") {
		t.Fatalf("expected no model flag without a configured model: %s", joined)
	}

	auto := NewWhisperCLI(config.Transcription{Language: "auto"})
	if joined := strings.Join(auto.buildArgs("/tmp/a.wav", "/tmp/a"), " "); strings.Contains(joined, "-l ") {
		t.Fatalf("auto language must not be forwarded: %s", joined)
	}
}

func TestWhisperCLIMissingOutput(t *testing.T) {
	backend := NewWhisperCLI(config.Transcription{})
	backend.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	if _, err := backend.Transcribe(context.Background(), filepath.Join(t.TempDir(), "lecture.wav")); err == nil {
		t.Fatal("expected error when the binary produced no JSON output")
	}
}

func TestWhisperCLICommandFailure(t *testing.T) {
	backend := NewWhisperCLI(config.Transcription{})
	backend.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("model file not found")
	})

	_, err := backend.Transcribe(context.Background(), "/tmp/lecture.wav")
	if err == nil || !strings.Contains(err.Error(), "model file not found") {
		t.Fatalf("expected command failure to propagate, got %v", err)
	}
}

func flagValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
