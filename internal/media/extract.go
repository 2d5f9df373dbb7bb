package media

import (
	"context"
	"fmt"
	"strings"
)

// Extractor converts source media into transcription-ready audio.
type Extractor struct {
	binary string
	runner CommandRunner
}

// NewExtractor builds an extractor around the given ffmpeg binary.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary, runner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		e.runner = runner
	}
}

// ExtractAudio writes a mono 16 kHz PCM WAV rendition of the source's audio
// stream, the input format transcription backends expect.
func (e *Extractor) ExtractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if _, err := e.runner(ctx, e.binary, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}
