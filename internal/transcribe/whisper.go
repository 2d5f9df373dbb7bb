package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lectern/internal/align"
	"lectern/internal/config"
)

// WhisperCLI transcribes audio by running a whisper.cpp style binary and
// reading back the JSON file it writes next to the input.
type WhisperCLI struct {
	binary        string
	model         string
	language      string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewWhisperCLI builds a backend around the configured whisper binary.
func NewWhisperCLI(cfg config.Transcription) *WhisperCLI {
	binary := strings.TrimSpace(cfg.WhisperBinary)
	if binary == "" {
		binary = "whisper-cli"
	}
	return &WhisperCLI{
		binary:   binary,
		model:    strings.TrimSpace(cfg.WhisperModel),
		language: normalizeLanguage(cfg.Language),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperCLI) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	w.commandRunner = runner
}

// Transcribe runs the binary against audioPath and parses its JSON output.
// The output file lands next to the audio, so callers should point this at
// a per-job staging directory they clean up afterwards.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	if audioPath == "" {
		return Transcript{}, fmt.Errorf("transcribe: audio path required")
	}

	outBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	if err := w.run(ctx, w.binary, w.buildArgs(audioPath, outBase)...); err != nil {
		return Transcript{}, fmt.Errorf("whisper-cli: %w", err)
	}

	transcript, err := loadWhisperOutput(outBase + ".json")
	if err != nil {
		return Transcript{}, fmt.Errorf("whisper-cli: read output: %w", err)
	}
	return transcript, nil
}

// buildArgs constructs the whisper.cpp command line for JSON output.
func (w *WhisperCLI) buildArgs(source, outBase string) []string {
	args := make([]string, 0, 10)
	if w.model != "" {
		args = append(args, "-m", w.model)
	}
	args = append(args, "-f", source, "-of", outBase, "-oj")
	if w.language != "" {
		args = append(args, "-l", w.language)
	}
	return args
}

// run executes a command, using the custom runner if set.
func (w *WhisperCLI) run(ctx context.Context, name string, args ...string) error {
	if w.commandRunner != nil {
		_, err := w.commandRunner(ctx, name, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// whisperOffsets carries segment bounds in milliseconds.
type whisperOffsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type whisperSegment struct {
	Offsets whisperOffsets `json:"offsets"`
	Text    string         `json:"text"`
}

// whisperPayload is the JSON structure whisper.cpp writes with -oj.
type whisperPayload struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []whisperSegment `json:"transcription"`
}

// loadWhisperOutput reads a whisper.cpp JSON file into a Transcript,
// converting millisecond offsets to seconds.
func loadWhisperOutput(jsonPath string) (Transcript, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Transcript{}, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Transcript{}, fmt.Errorf("parse whisper json: %w", err)
	}

	transcript := Transcript{Language: strings.TrimSpace(payload.Result.Language)}
	parts := make([]string, 0, len(payload.Transcription))
	for _, seg := range payload.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		transcript.Segments = append(transcript.Segments, align.Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
	}
	transcript.Text = strings.Join(parts, " ")
	return transcript, nil
}
