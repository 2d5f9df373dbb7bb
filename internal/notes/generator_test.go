package notes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lectern/internal/config"
)

const transcriptFixture = "Today we introduce sets. A set is a collection of distinct elements. " +
	"We will also look at unions and intersections with several worked examples."

func notesTestConfig(baseURL string) config.Config {
	cfg := config.Default()
	cfg.Notes.APIKey = "test-key"
	cfg.Notes.BaseURL = baseURL
	cfg.Notes.Model = "demo-model"
	cfg.Notes.MinIntervalMS = 0
	return cfg
}

func fastClient(cfg config.Config) *Client {
	return NewClient(cfg.Notes, WithRetryBackoff(0, 0), WithSleeper(func(time.Duration) {}))
}

func decodeUserPrompt(t *testing.T, r *http.Request) string {
	t.Helper()
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			return msg.Content
		}
	}
	return ""
}

func TestGeneratorProducesNotes(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prompt = decodeUserPrompt(t, r)
		_ = json.NewEncoder(w).Encode(completionResponse("## Sets\nA set is a collection of distinct elements."))
	}))
	defer server.Close()

	cfg := notesTestConfig(server.URL)
	gen := NewGenerator(&cfg, nil, WithClient(fastClient(cfg)))
	if !gen.Available() {
		t.Fatal("generator should be available with an api key")
	}

	got, err := gen.Generate(context.Background(), transcriptFixture, KindMedia)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasPrefix(got, "## Sets") {
		t.Fatalf("unexpected notes: %q", got)
	}
	if !strings.Contains(prompt, transcriptFixture) {
		t.Fatalf("prompt does not carry the transcript: %q", prompt)
	}
	if !strings.Contains(prompt, "Transcript to process") {
		t.Fatalf("expected the media prompt, got %q", prompt)
	}
}

func TestGeneratorUsesDocumentPrompt(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prompt = decodeUserPrompt(t, r)
		_ = json.NewEncoder(w).Encode(completionResponse("## Abstract\nThe paper studies sets."))
	}))
	defer server.Close()

	cfg := notesTestConfig(server.URL)
	gen := NewGenerator(&cfg, nil, WithClient(fastClient(cfg)))

	if _, err := gen.Generate(context.Background(), transcriptFixture, KindDocument); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(prompt, "Document text to process") {
		t.Fatalf("expected the document prompt, got %q", prompt)
	}
}

func TestGeneratorCachesIdenticalContent(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(completionResponse("## Cached Notes"))
	}))
	defer server.Close()

	cfg := notesTestConfig(server.URL)
	gen := NewGenerator(&cfg, nil, WithClient(fastClient(cfg)))

	first, err := gen.Generate(context.Background(), transcriptFixture, KindMedia)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := gen.Generate(context.Background(), transcriptFixture, KindMedia)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if first != second {
		t.Fatalf("cache returned different notes: %q vs %q", first, second)
	}
	if calls != 1 {
		t.Fatalf("expected a single API call, got %d", calls)
	}

	// A different kind is a different cache key even for identical content.
	if _, err := gen.Generate(context.Background(), transcriptFixture, KindDocument); err != nil {
		t.Fatalf("document Generate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a second API call for the document prompt, got %d", calls)
	}
}

func TestGeneratorTruncatesOversizedInput(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prompt = decodeUserPrompt(t, r)
		_ = json.NewEncoder(w).Encode(completionResponse("## Short"))
	}))
	defer server.Close()

	cfg := notesTestConfig(server.URL)
	cfg.Notes.MaxInputChars = 120
	gen := NewGenerator(&cfg, nil, WithClient(fastClient(cfg)))

	content := strings.Repeat("sets and their elements ", 20) + "TAIL-SENTINEL"
	if _, err := gen.Generate(context.Background(), content, KindMedia); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if strings.Contains(prompt, "TAIL-SENTINEL") {
		t.Fatal("oversized input was not truncated")
	}
}

func TestGeneratorRejectsShortContent(t *testing.T) {
	cfg := notesTestConfig("http://127.0.0.1:0")
	gen := NewGenerator(&cfg, nil, WithClient(fastClient(cfg)))

	if _, err := gen.Generate(context.Background(), "too short", KindMedia); err == nil {
		t.Fatal("expected error for content below the minimum length")
	}
}

func TestGeneratorUnavailableWithoutKey(t *testing.T) {
	cfg := config.Default()
	cfg.Notes.APIKey = ""
	gen := NewGenerator(&cfg, nil)

	if gen.Available() {
		t.Fatal("generator must be unavailable without an api key")
	}
	if _, err := gen.Generate(context.Background(), transcriptFixture, KindMedia); err == nil {
		t.Fatal("expected error when generation is not configured")
	}
}

func TestStripMarkdownFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "## Notes\nBody", "## Notes\nBody"},
		{"plain fence", "```\n## Notes\nBody\n```", "## Notes\nBody"},
		{"markdown fence", "```markdown\n## Notes\nBody\n```", "## Notes\nBody"},
		{"md fence", "```md\n## Notes\n```", "## Notes"},
		{"fence only", "```", ""},
	}
	for _, tc := range cases {
		if got := stripMarkdownFence(tc.in); got != tc.want {
			t.Fatalf("%s: stripMarkdownFence = %q, want %q", tc.name, got, tc.want)
		}
	}
}
