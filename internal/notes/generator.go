package notes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"lectern/internal/config"
	"lectern/internal/logging"
)

// Kind selects the prompt used for generation.
type Kind string

const (
	// KindMedia is for audio and video transcripts.
	KindMedia Kind = "media"
	// KindDocument is for text extracted from documents.
	KindDocument Kind = "document"
)

// MinContentChars is the minimum input length worth sending to the model.
const MinContentChars = 50

// Generator produces structured study notes from raw content. It owns the
// rate limiter and the de-duplication cache so the pipeline never has to
// think about either.
type Generator struct {
	client        *Client
	limiter       *Limiter
	cache         *lruCache
	logger        *slog.Logger
	maxInputChars int
}

// GeneratorOption customizes the generator.
type GeneratorOption func(*Generator)

// WithClient replaces the API client (for testing).
func WithClient(client *Client) GeneratorOption {
	return func(g *Generator) {
		g.client = client
	}
}

// NewGenerator builds a generator from configuration.
func NewGenerator(cfg *config.Config, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	g := &Generator{
		limiter:       NewLimiter(time.Duration(cfg.Notes.MinIntervalMS) * time.Millisecond),
		cache:         newLRUCache(cfg.Notes.CacheSize),
		logger:        logging.NewComponentLogger(logger, "notes"),
		maxInputChars: cfg.Notes.MaxInputChars,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = NewClient(cfg.Notes)
	}
	return g
}

// Available reports whether generation is configured.
func (g *Generator) Available() bool {
	return g != nil && g.client.Configured()
}

// HealthCheck verifies the configured API is reachable and usable.
func (g *Generator) HealthCheck(ctx context.Context) error {
	return g.client.HealthCheck(ctx)
}

// Generate turns content into markdown study notes. Identical inputs are
// served from the cache; fresh ones pass through the rate limiter before
// reaching the API.
func (g *Generator) Generate(ctx context.Context, content string, kind Kind) (string, error) {
	if !g.Available() {
		return "", errors.New("notes generation not configured: api key missing")
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < MinContentChars {
		return "", fmt.Errorf("content too short for notes generation (%d chars)", utf8.RuneCountInString(content))
	}

	content, truncated := truncateRunes(content, g.maxInputChars)
	if truncated {
		g.logger.Warn("input truncated for notes generation",
			logging.String(logging.FieldEventType, "notes_input_truncated"),
			logging.Int("max_chars", g.maxInputChars))
	}

	key := contentKey(kind, content)
	if cached, ok := g.cache.get(key); ok {
		g.logger.Debug("notes served from cache",
			logging.String(logging.FieldEventType, "notes_cache_hit"))
		return cached, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	generated, err := g.client.Complete(ctx, systemPrompt, buildPrompt(kind, content))
	if err != nil {
		return "", err
	}
	generated = stripMarkdownFence(generated)
	if generated == "" {
		return "", errors.New("model returned empty notes")
	}

	g.cache.put(key, generated)
	return generated, nil
}

// contentKey hashes the generation input so the cache never stores raw
// transcripts.
func contentKey(kind Kind, content string) string {
	sum := sha256.Sum256([]byte(string(kind) + "\x00" + content))
	return hex.EncodeToString(sum[:])
}

// truncateRunes cuts content to at most limit runes. A non-positive limit
// means unlimited.
func truncateRunes(content string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content, false
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:limit])), true
}

// stripMarkdownFence unwraps a response the model wrapped in a single
// ``` or ```markdown code fence.
func stripMarkdownFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		first := strings.TrimSpace(body[:idx])
		if first == "" || strings.EqualFold(first, "markdown") || strings.EqualFold(first, "md") {
			body = body[idx+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
