package artifacts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lectern/internal/align"
	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/textutil"
)

// Artifact name suffixes, appended to the job id.
const (
	suffixTranscript      = "_transcript.txt"
	suffixExtractedText   = "_extracted_text.txt"
	suffixNotesMarkdown   = "_notes.md"
	suffixNotesText       = "_notes.txt"
	suffixAlignedJSON     = "_aligned.json"
	suffixAlignedMarkdown = "_aligned.md"
	suffixSRT             = "_notes.srt"
	suffixVTT             = "_notes.vtt"
)

var artifactSuffixes = []string{
	suffixTranscript,
	suffixExtractedText,
	suffixNotesMarkdown,
	suffixNotesText,
	suffixAlignedJSON,
	suffixAlignedMarkdown,
	suffixSRT,
	suffixVTT,
}

// Store persists per-job output files under the configured output directory.
// Writes are atomic: content lands in a temp file first and is renamed into
// place, so readers never observe partial artifacts.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore builds a store rooted at the config's output directory.
func NewStore(cfg *config.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{dir: cfg.Paths.OutputDir, logger: logger}
}

// Dir returns the output directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// TranscriptPath returns the transcript artifact location for a job.
func (s *Store) TranscriptPath(id string) string {
	return filepath.Join(s.dir, id+suffixTranscript)
}

// ExtractedTextPath returns the document-text artifact location for a job.
func (s *Store) ExtractedTextPath(id string) string {
	return filepath.Join(s.dir, id+suffixExtractedText)
}

// NotesMarkdownPath returns the markdown notes artifact location for a job.
func (s *Store) NotesMarkdownPath(id string) string {
	return filepath.Join(s.dir, id+suffixNotesMarkdown)
}

// NotesTextPath returns the plain-text notes artifact location for a job.
func (s *Store) NotesTextPath(id string) string {
	return filepath.Join(s.dir, id+suffixNotesText)
}

// AlignedJSONPath returns the aligned-notes JSON artifact location for a job.
func (s *Store) AlignedJSONPath(id string) string {
	return filepath.Join(s.dir, id+suffixAlignedJSON)
}

// AlignedMarkdownPath returns the annotated outline artifact location for a
// job.
func (s *Store) AlignedMarkdownPath(id string) string {
	return filepath.Join(s.dir, id+suffixAlignedMarkdown)
}

// SRTPath returns the SRT cue artifact location for a job.
func (s *Store) SRTPath(id string) string {
	return filepath.Join(s.dir, id+suffixSRT)
}

// VTTPath returns the WebVTT cue artifact location for a job.
func (s *Store) VTTPath(id string) string {
	return filepath.Join(s.dir, id+suffixVTT)
}

// SaveTranscript writes the transcript document: a language header, the full
// text, and every segment with second-precision bounds.
func (s *Store) SaveTranscript(id, language, text string, segments []align.Segment) (string, error) {
	path := s.TranscriptPath(id)
	if err := s.writeAtomic(path, []byte(transcriptDocument(language, text, segments))); err != nil {
		return "", err
	}
	return path, nil
}

// SaveExtractedText writes the raw text pulled out of a document input.
func (s *Store) SaveExtractedText(id, text string) (string, error) {
	path := s.ExtractedTextPath(id)
	if err := s.writeAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}

// SaveNotes writes the notes markdown plus a plain-text rendition with
// markdown formatting stripped.
func (s *Store) SaveNotes(id, notes string) (string, string, error) {
	mdPath := s.NotesMarkdownPath(id)
	if err := s.writeAtomic(mdPath, []byte(notes)); err != nil {
		return "", "", err
	}
	txtPath := s.NotesTextPath(id)
	if err := s.writeAtomic(txtPath, []byte(textutil.MarkdownToText(notes))); err != nil {
		return "", "", err
	}
	return mdPath, txtPath, nil
}

// SaveAligned writes all four aligned-notes renditions: JSON, annotated
// markdown, SRT, and WebVTT.
func (s *Store) SaveAligned(id string, result align.Result) error {
	jsonDoc, err := align.ExportJSON(result)
	if err != nil {
		return err
	}
	if err := s.writeAtomic(s.AlignedJSONPath(id), []byte(jsonDoc)); err != nil {
		return err
	}
	if err := s.writeAtomic(s.AlignedMarkdownPath(id), []byte(align.ExportMarkdown(result))); err != nil {
		return err
	}
	if err := s.writeAtomic(s.SRTPath(id), []byte(align.ExportSRT(result))); err != nil {
		return err
	}
	return s.writeAtomic(s.VTTPath(id), []byte(align.ExportVTT(result)))
}

// JobArtifacts lists the artifact file names present for a job id. Ids that
// are not plain file name components report nothing.
func (s *Store) JobArtifacts(id string) []string {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, "*?[") {
		return nil
	}
	var names []string
	for _, suffix := range artifactSuffixes {
		name := id + suffix
		if info, err := os.Stat(filepath.Join(s.dir, name)); err == nil && !info.IsDir() {
			names = append(names, name)
		}
	}
	return names
}

// HasTimestampedNotes reports whether the aligned JSON artifact exists.
func (s *Store) HasTimestampedNotes(id string) bool {
	info, err := os.Stat(s.AlignedJSONPath(id))
	return err == nil && !info.IsDir()
}

func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("publish artifact: %w", err)
	}

	s.logger.Debug("artifact written",
		logging.String("path", path),
		logging.Int("bytes", len(data)))
	return nil
}

func transcriptDocument(language, text string, segments []align.Segment) string {
	divider := strings.Repeat("=", 50)

	var b strings.Builder
	b.WriteString("Transcription Result\n")
	fmt.Fprintf(&b, "Language: %s\n", language)
	b.WriteString(divider)
	b.WriteString("\n\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString("Detailed Segments:\n\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "[%.2fs - %.2fs]: %s\n", seg.Start, seg.End, seg.Text)
	}
	return b.String()
}
