// Package document pulls plain text out of document inputs with a
// pdftotext-style external tool.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// MinTextChars is the minimum extracted length for a document to be worth
// processing.
const MinTextChars = 100

// Extractor runs the configured text extraction tool.
type Extractor struct {
	binary string
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewExtractor builds an extractor around the given pdftotext binary.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "pdftotext"
	}
	return &Extractor{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	e.runner = runner
}

// ExtractText returns the document's text content. Documents under
// MinTextChars of usable text are rejected.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	output, err := e.run(ctx, e.binary, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("extract document text: %w", err)
	}

	text := strings.TrimSpace(string(output))
	if utf8.RuneCountInString(text) < MinTextChars {
		return "", fmt.Errorf("document appears to be empty or contains insufficient text content")
	}
	return text, nil
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.runner != nil {
		return e.runner(ctx, name, args...)
	}

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
