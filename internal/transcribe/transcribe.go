package transcribe

import (
	"context"
	"fmt"
	"strings"

	"lectern/internal/align"
	"lectern/internal/config"
)

// Transcript is the output of a transcription backend: the full text, the
// detected language tag, and the time-coded segments behind it.
type Transcript struct {
	Text     string
	Language string
	Segments []align.Segment
}

// Backend is a pluggable speech-to-text engine.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

// NewBackend selects a transcription backend from configuration.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Transcription.Backend {
	case "whisper-cli":
		return NewWhisperCLI(cfg.Transcription), nil
	case "openai":
		return NewOpenAI(cfg.Transcription), nil
	default:
		return nil, fmt.Errorf("transcription backend %q is not supported", cfg.Transcription.Backend)
	}
}

// normalizeLanguage maps "auto" and empty language to no override.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}
