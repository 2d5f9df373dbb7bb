package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/testsupport"
)

func TestProberDuration(t *testing.T) {
	prober := NewProber("ffprobe")
	var gotArgs []string
	prober.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte(`{"streams":[{"codec_type":"video"},{"codec_type":"audio"}],"format":{"duration":"754.37"}}`), nil
	})

	duration, err := prober.Duration(context.Background(), "/tmp/lecture.mp4")
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if duration != 754.37 {
		t.Fatalf("duration = %v, want 754.37", duration)
	}
	if gotArgs[0] != "ffprobe" {
		t.Fatalf("ran %q, want ffprobe", gotArgs[0])
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-show_format") || !strings.Contains(joined, "-of json") {
		t.Fatalf("unexpected ffprobe args: %v", gotArgs)
	}
}

func TestProberDurationMissing(t *testing.T) {
	prober := NewProber("")
	prober.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"format":{}}`), nil
	})

	if _, err := prober.Duration(context.Background(), "/tmp/still.png"); err == nil {
		t.Fatal("expected error when ffprobe reports no duration")
	}
}

func TestProberHasAudioStream(t *testing.T) {
	prober := NewProber("ffprobe")
	prober.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"streams":[{"codec_type":"video"}],"format":{"duration":"10"}}`), nil
	})

	hasAudio, err := prober.HasAudioStream(context.Background(), "/tmp/silent.mp4")
	if err != nil {
		t.Fatalf("HasAudioStream failed: %v", err)
	}
	if hasAudio {
		t.Fatal("video-only container must not report audio")
	}
}

func TestExtractAudioArgs(t *testing.T) {
	extractor := NewExtractor("ffmpeg")
	var gotArgs []string
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return nil, nil
	})

	if err := extractor.ExtractAudio(context.Background(), "/in/talk.mp4", "/out/talk.wav"); err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-i /in/talk.mp4", "-ac 1", "-ar 16000", "-c:a pcm_s16le", "/out/talk.wav"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("ffmpeg args missing %q: %v", want, gotArgs)
		}
	}
}

func TestValidateLocal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer := NewAcquirer(cfg, nil)

	video := filepath.Join(t.TempDir(), "lecture.mp4")
	testsupport.WriteFile(t, video, 64)
	if err := acquirer.ValidateLocal(video, false); err != nil {
		t.Fatalf("valid media rejected: %v", err)
	}

	pdf := filepath.Join(t.TempDir(), "paper.pdf")
	testsupport.WriteFile(t, pdf, 64)
	if err := acquirer.ValidateLocal(pdf, true); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	if err := acquirer.ValidateLocal(pdf, false); err == nil {
		t.Fatal("pdf must not pass as media")
	}
	if err := acquirer.ValidateLocal(video, true); err == nil {
		t.Fatal("video must not pass as document")
	}

	if err := acquirer.ValidateLocal(filepath.Join(t.TempDir(), "missing.mp4"), false); err == nil {
		t.Fatal("missing file must fail validation")
	}

	empty := filepath.Join(t.TempDir(), "empty.mkv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}
	if err := acquirer.ValidateLocal(empty, false); err == nil {
		t.Fatal("empty file must fail validation")
	}

	exe := filepath.Join(t.TempDir(), "malware.exe")
	testsupport.WriteFile(t, exe, 64)
	if err := acquirer.ValidateLocal(exe, false); err == nil {
		t.Fatal("unsupported extension must fail validation")
	}
}

func TestDownloadReturnsProducedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer := NewAcquirer(cfg, nil)

	destDir := filepath.Join(t.TempDir(), "job-dl")
	acquirer.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != cfg.Tools.DownloaderBinary {
			t.Fatalf("ran %q, want %q", name, cfg.Tools.DownloaderBinary)
		}
		testsupport.WriteFile(t, filepath.Join(destDir, "Intro to Sets.mp4"), 128)
		testsupport.WriteFile(t, filepath.Join(destDir, "Intro to Sets.mp4.part"), 16)
		return nil, nil
	})

	path, err := acquirer.Download(context.Background(), "https://example.com/watch?v=abc", destDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "Intro to Sets.mp4" {
		t.Fatalf("downloaded path = %q", path)
	}
}

func TestDownloadWithoutOutputFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer := NewAcquirer(cfg, nil)
	acquirer.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	if _, err := acquirer.Download(context.Background(), "https://example.com/v", t.TempDir()); err == nil {
		t.Fatal("expected error when downloader produced nothing")
	}
}

func TestIsSupportedMedia(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"lecture.mp4", true},
		{"Lecture.MKV", true},
		{"audio.mp3", true},
		{"notes.pdf", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsSupportedMedia(tc.path); got != tc.want {
			t.Errorf("IsSupportedMedia(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
