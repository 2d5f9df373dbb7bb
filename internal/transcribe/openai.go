package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lectern/internal/align"
	"lectern/internal/config"
)

const defaultOpenAITimeout = 15 * time.Minute

// OpenAI transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint using a multipart upload.
type OpenAI struct {
	baseURL  string
	apiKey   string
	model    string
	language string
	client   *http.Client
}

// NewOpenAI builds a backend for the configured transcription API.
func NewOpenAI(cfg config.Transcription) *OpenAI {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAI{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		model:    model,
		language: normalizeLanguage(cfg.Language),
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio file and decodes the verbose_json response,
// which carries segment timings alongside the full text.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", o.model); err != nil {
		return Transcript{}, err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return Transcript{}, err
	}
	if o.language != "" {
		if err := mw.WriteField("language", o.language); err != nil {
			return Transcript{}, err
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcript{}, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Transcript{}, err
	}
	if err := mw.Close(); err != nil {
		return Transcript{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return Transcript{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return Transcript{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Transcript{}, fmt.Errorf("transcription API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload verboseTranscription
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Transcript{}, fmt.Errorf("decode transcription response: %w", err)
	}
	return payload.toTranscript(), nil
}

type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verboseTranscription is the verbose_json response shape. Some servers
// report language as an English name rather than an ISO tag; it is passed
// through lowercased and resolved for display later.
type verboseTranscription struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []verboseSegment `json:"segments"`
}

func (v verboseTranscription) toTranscript() Transcript {
	transcript := Transcript{
		Text:     strings.TrimSpace(v.Text),
		Language: strings.ToLower(strings.TrimSpace(v.Language)),
	}
	parts := make([]string, 0, len(v.Segments))
	for _, seg := range v.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		transcript.Segments = append(transcript.Segments, align.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	if transcript.Text == "" {
		transcript.Text = strings.Join(parts, " ")
	}
	return transcript
}
