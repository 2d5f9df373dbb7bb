package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prober inspects media containers with ffprobe.
type Prober struct {
	binary string
	runner CommandRunner
}

// NewProber builds a prober around the given ffprobe binary.
func NewProber(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, runner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *Prober) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		p.runner = runner
	}
}

type probeStream struct {
	CodecType string `json:"codec_type"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Duration returns the container duration in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	result, err := p.inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(result.Format.Duration)
	if raw == "" {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe reported non-positive duration %.2f for %s", duration, path)
	}
	return duration, nil
}

// HasAudioStream reports whether the container carries at least one audio
// stream.
func (p *Prober) HasAudioStream(ctx context.Context, path string) (bool, error) {
	result, err := p.inspect(ctx, path)
	if err != nil {
		return false, err
	}
	for _, stream := range result.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return true, nil
		}
	}
	return false, nil
}

func (p *Prober) inspect(ctx context.Context, path string) (probeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return probeResult{}, errors.New("ffprobe inspect: empty path")
	}

	output, err := p.runner(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return probeResult{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return probeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}
